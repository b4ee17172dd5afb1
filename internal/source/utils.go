package source

import (
	"path/filepath"
	"slices"
	"sort"
)

// normalizeCRLF заменяет все \r\n на \n, не трогая одиночные \r.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !slices.Contains(content, '\r') {
		return content, false
	}
	out := make([]byte, 0, len(content))
	changed := false
	for i := 0; i < len(content); i++ {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			changed = true
			continue
		}
		out = append(out, content[i])
	}
	return out, changed
}

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}
	return content, false
}

func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, len(content)/32+1)
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i)) // #nosec G115 -- Add already bounds len(content) via the file id check
		}
	}
	return out
}

// toLineCol: строка = число переводов строк строго до off, плюс один.
func toLineCol(lineIdx []uint32, off uint32) LineCol {
	before := sort.Search(len(lineIdx), func(i int) bool { return lineIdx[i] >= off })
	if before == 0 {
		return LineCol{Line: 1, Col: off + 1}
	}
	start := lineIdx[before-1] + 1
	return LineCol{Line: uint32(before + 1), Col: off - start + 1} // #nosec G115 -- before <= len(lineIdx)
}

func normalizePath(p string) string {
	// единый вид в кроссплатформенных дифах
	return filepath.ToSlash(filepath.Clean(p))
}
