package driver

import (
	"errors"
	"fmt"
	"strings"

	"gsp/internal/diag"
	"gsp/internal/project"
	"gsp/internal/source"
	"gsp/internal/translate"
)

// configCode picks the CFG code for a translator setting error.
func configCode(err *translate.ConfigError) diag.Code {
	switch err.Field {
	case "strategy":
		if strings.Contains(err.Msg, "mutually exclusive") {
			return diag.CfgStrategyConflict
		}
		return diag.CfgUnknownStrategy
	default:
		return diag.CfgBadName
	}
}

// reportError turns a generation error into a diagnostic. Syntax errors are
// already in bag through the tokenizer reporter and are skipped.
func reportError(bag *diag.Bag, primary source.Span, err error) {
	var (
		cfgErr      *translate.ConfigError
		manifestErr *project.ManifestError
	)
	switch {
	case err == nil:
		return
	case errors.As(err, &cfgErr):
		bag.Add(diag.NewError(configCode(cfgErr), primary, cfgErr.Error()))
	case errors.As(err, &manifestErr):
		bag.Add(diag.NewError(diag.CfgManifest, primary, manifestErr.Error()))
	case errors.Is(err, translate.ErrMalformedStream):
		bag.Add(diag.NewError(diag.GenMalformedStream, primary, err.Error()))
	default:
		bag.Add(diag.NewError(diag.UnknownCode, primary, err.Error()))
	}
}

// ErrNoOutputPath is returned by OutputPath for templates without an extension.
var ErrNoOutputPath = errors.New("cannot derive output path")

// OutputPath returns explicit when set, otherwise template with its last
// extension removed: views/page.go.gsp becomes views/page.go.
func OutputPath(template, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	out, ok := source.TrimExt(template)
	if !ok {
		return "", fmt.Errorf("%w: %q has no extension; pass an explicit output", ErrNoOutputPath, template)
	}
	return out, nil
}
