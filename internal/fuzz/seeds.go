package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB: ограничение для тестового корпуса
)

// markupSeeds covers every escape and the error paths of the tokenizer.
var markupSeeds = []string{
	"",
	"$",
	"$$",
	"$>",
	"$<",
	"$>$",
	"$>$x$<",
	"$>$$ and $$$<",
	"$>${x}$<",
	"$>${x:%03d}$<",
	"$>${x:}$<",
	"$>${x | upper | strings.TrimSpace}$<",
	"$>${a || b}$<",
	"$>${ }$<",
	"$>${x | }$<",
	"$>${x | func}$<",
	"$>${m[\"}\"]}$<",
	"$>${'}'}$<",
	"$>${`}`}$<",
	"$>${f(func() int { return 1 }())}$<",
	"$>$>$<",
	"$func F()\n$>a$<\n$end\n",
	"$func (r *R) F[T any](xs ...T)\n$end",
	"$func F(\n$end",
	"$func F() int\n$end",
	"$func F()\n$func G()\n$end\n$end",
	"$end",
	"$func F()\n",
	"for _, x := range xs {\n$>x=${x+5}$$, $<\n}\n",
	"\ufeff$>bom$<\r\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range markupSeeds {
		f.Add([]byte(s))
	}
	addExampleSeeds(f)
}

func addExampleSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "examples")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// все шаблоны *.gsp из examples
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".gsp" {
			return nil
		}
		// #nosec G304 -- path comes from repository examples walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
