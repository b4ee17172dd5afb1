package driver

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"time"

	"gsp/internal/diag"
	"gsp/internal/fragment"
	"gsp/internal/observ"
	"gsp/internal/pipeline"
	"gsp/internal/project"
	"gsp/internal/source"
	"gsp/internal/trace"
	"gsp/internal/translate"
	"gsp/internal/version"
)

// Request describes one template to generate.
type Request struct {
	Template string // путь к шаблону
	Output   string // явный путь результата; пусто - вывести из Template
	// Config.SourcePath defaults to the template path relative to the
	// output directory (the display name for Stdout requests).
	Config translate.Config
	// Stdout keeps the generated code in Result.Code instead of writing it.
	Stdout bool
}

// Options are shared by every request of a run.
type Options struct {
	MaxDiagnostics int
	Jobs           int    // GenerateAll workers; <= 0 means GOMAXPROCS
	BaseDir        string // display names are relative to it
	Cache          *DiskCache
	Progress       pipeline.Sink
	Timer          *observ.Timer
}

// Result is the outcome of one request. Problems are reported in Bag.
type Result struct {
	Template string // display name
	Output   string
	FileSet  *source.FileSet
	File     *source.File // nil when the template could not be loaded
	Bag      *diag.Bag
	Code     []byte // generated code of Stdout requests
	Cached   bool   // output was already up to date
	Written  bool
	Timings  pipeline.Timings
}

// Failed reports whether the request produced errors.
func (r *Result) Failed() bool {
	return r.Bag == nil || r.Bag.HasErrors()
}

// Generate loads, tokenizes and translates one template and writes the
// result atomically. It never panics on bad input; everything the user can
// fix ends up as a diagnostic in Result.Bag.
func Generate(ctx context.Context, req Request, opts Options) Result {
	name := pipeline.DisplayName(req.Template, opts.BaseDir)
	maxDiagnostics := opts.MaxDiagnostics
	if maxDiagnostics <= 0 {
		maxDiagnostics = 100
	}
	res := Result{
		Template: name,
		FileSet:  source.NewFileSetWithBase(opts.BaseDir),
		Bag:      diag.NewBag(maxDiagnostics),
	}

	span, ctx := trace.StartTemplate(ctx, name)
	g := &generation{ctx: ctx, req: req, opts: opts, res: &res}
	err := g.run()

	status := pipeline.StatusDone
	switch {
	case err != nil || res.Bag.HasErrors():
		status = pipeline.StatusError
	case res.Cached:
		status = pipeline.StatusCached
	}
	pipeline.Emit(opts.Progress, pipeline.Event{
		File:    name,
		Stage:   pipeline.StageWrite,
		Status:  status,
		Err:     err,
		Elapsed: res.Timings.Sum(pipeline.Stages...),
	})
	span.WithExtra("status", string(status)).End(res.Output)
	return res
}

type generation struct {
	ctx  context.Context
	req  Request
	opts Options
	res  *Result
}

// stage runs one pipeline stage with progress events, a trace span and timings.
func (g *generation) stage(st pipeline.Stage, fn func() error) error {
	if err := g.ctx.Err(); err != nil {
		return err
	}
	pipeline.Emit(g.opts.Progress, pipeline.Event{File: g.res.Template, Stage: st, Status: pipeline.StatusWorking})
	span, _ := trace.StartSpan(g.ctx, trace.ScopePass, string(st))
	done := g.opts.Timer.Track(string(st) + " " + g.res.Template)

	start := time.Now()
	err := fn()
	g.res.Timings.Add(st, time.Since(start))

	detail := ""
	if err != nil {
		detail = err.Error()
	}
	done(detail)
	span.End(detail)
	return err
}

func (g *generation) run() error {
	req, res := g.req, g.res
	var (
		file  *source.File
		cfg   translate.Config
		frags []fragment.Fragment
		code  []byte
	)

	err := g.stage(pipeline.StageLoad, func() error {
		id, err := res.FileSet.Load(req.Template)
		if err != nil {
			res.Bag.Add(diag.Errorf(diag.IOLoadFileError, source.Span{}, "failed to load %s: %v", req.Template, err))
			return err
		}
		file = res.FileSet.Get(id)
		res.File = file
		whole := source.Span{File: id}

		if !req.Stdout {
			out, err := OutputPath(req.Template, req.Output)
			if err != nil {
				res.Bag.Add(diag.NewError(diag.CfgNoOutputPath, whole, err.Error()))
				return err
			}
			res.Output = out
		}
		cfg = req.Config
		if cfg.SourcePath == "" {
			cfg.SourcePath = sourcePathFor(req.Template, res.Output, res.Template)
		}
		if err := cfg.Validate(); err != nil {
			reportError(res.Bag, whole, err)
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	key := g.cacheKey(file, cfg)
	if g.cacheHit(key) {
		res.Cached = true
		trace.PointFromContext(g.ctx, trace.ScopeFile, "cache-hit", res.Output)
		return nil
	}

	err = g.stage(pipeline.StageTokenize, func() error {
		var err error
		frags, err = tokenize(file, res.Bag)
		if err == nil {
			for _, f := range frags {
				trace.PointFromContext(g.ctx, trace.ScopeFragment, f.Kind.String(), f.String())
			}
		}
		return err
	})
	if err != nil {
		return err
	}

	err = g.stage(pipeline.StageTranslate, func() error {
		tr, err := translate.New(translate.FromFragments(frags), cfg)
		if err != nil {
			reportError(res.Bag, source.Span{File: file.ID}, err)
			return err
		}
		var buf bytes.Buffer
		if _, err := tr.WriteTo(&buf); err != nil {
			reportError(res.Bag, source.Span{File: file.ID}, err)
			return err
		}
		code = buf.Bytes()
		return nil
	})
	if err != nil {
		return err
	}

	if req.Stdout {
		res.Code = code
		return nil
	}
	return g.stage(pipeline.StageWrite, func() error {
		if err := writeFileAtomic(res.Output, code, 0o644); err != nil {
			res.Bag.Add(diag.Errorf(diag.IOWriteFileError, source.Span{File: file.ID}, "failed to write %s: %v", res.Output, err))
			return err
		}
		res.Written = true
		g.cachePut(key, file, cfg, code)
		return nil
	})
}

// sourcePathFor names the template as seen from the output directory, so
// //line markers resolve next to the generated file. Without an output the
// display name is used.
func sourcePathFor(template, output, display string) string {
	if output == "" {
		return display
	}
	absTemplate, err := filepath.Abs(template)
	if err != nil {
		return display
	}
	absOutput, err := filepath.Abs(output)
	if err != nil {
		return display
	}
	rel, err := filepath.Rel(filepath.Dir(absOutput), absTemplate)
	if err != nil {
		return display
	}
	return filepath.ToSlash(rel)
}

func (g *generation) cacheKey(file *source.File, cfg translate.Config) project.Digest {
	out := g.res.Output
	if abs, err := filepath.Abs(out); err == nil {
		out = abs
	}
	return project.Combine(
		project.Digest(file.Hash),
		project.DigestOf([]byte(cfg.Fingerprint())),
		project.DigestOf([]byte(version.Fingerprint())),
		project.DigestOf([]byte(out)),
	)
}

// cacheHit reports whether the output recorded under key is still on disk
// unchanged. Cache read errors count as a miss.
func (g *generation) cacheHit(key project.Digest) bool {
	if g.opts.Cache == nil || g.req.Stdout {
		return false
	}
	var payload CachePayload
	ok, err := g.opts.Cache.Get(key, &payload)
	if err != nil || !ok {
		return false
	}
	// #nosec G304 -- output path comes from the request
	data, err := os.ReadFile(g.res.Output)
	if err != nil {
		return false
	}
	return project.DigestOf(data) == payload.OutputHash
}

func (g *generation) cachePut(key project.Digest, file *source.File, cfg translate.Config, code []byte) {
	if g.opts.Cache == nil {
		return
	}
	err := g.opts.Cache.Put(key, &CachePayload{
		Template:     g.res.Template,
		Output:       g.res.Output,
		Fingerprint:  cfg.Fingerprint(),
		Tool:         version.Fingerprint(),
		TemplateHash: project.Digest(file.Hash),
		OutputHash:   project.DigestOf(code),
		OutputSize:   int64(len(code)),
	})
	if err != nil {
		// кэш необязателен: запись уже на диске
		g.res.Bag.Add(diag.Warning(diag.IOWriteFileError, source.Span{File: file.ID}, "failed to update generation cache: "+err.Error()))
	}
}
