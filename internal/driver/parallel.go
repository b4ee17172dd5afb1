package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"gsp/internal/pipeline"
	"gsp/internal/trace"
)

// TemplateExt is the extension ListTemplates looks for.
const TemplateExt = ".gsp"

// ListTemplates returns every *.gsp file under dir, sorted for a
// deterministic order.
func ListTemplates(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// скрытые каталоги (.git, .cache) пропускаем
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, TemplateExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// GenerateAll runs Generate for every request on a bounded worker pool.
// results[i] belongs to reqs[i]. The returned error is only the context's:
// after cancellation the results of requests that never started have a nil Bag.
func GenerateAll(ctx context.Context, reqs []Request, opts Options) ([]Result, error) {
	results := make([]Result, len(reqs))
	if len(reqs) == 0 {
		return results, nil
	}

	span, ctx := trace.StartSpan(ctx, trace.ScopeDriver, "generate")
	defer span.WithExtra("templates", strconv.Itoa(len(reqs))).End("")

	names := make([]string, len(reqs))
	for i, req := range reqs {
		names[i] = pipeline.DisplayName(req.Template, opts.BaseDir)
	}
	pipeline.EmitQueued(opts.Progress, names)

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Результаты пишутся по уникальному индексу, мьютекс не нужен
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(reqs)))
	for i, req := range reqs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = Generate(gctx, req, opts)
			return nil
		})
	}
	return results, g.Wait()
}
