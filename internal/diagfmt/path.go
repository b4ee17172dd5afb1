package diagfmt

import "gsp/internal/source"

// displayPath keeps short and relative paths and shortens long absolute
// ones unless absolute paths were asked for.
func displayPath(f *source.File, absolute bool) string {
	if absolute {
		return f.FormatPath("absolute", "")
	}
	return f.FormatPath("auto", "")
}
