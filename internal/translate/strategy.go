package translate

import (
	"fmt"
	"go/token"
)

type strategyKind uint8

const (
	kindYield strategyKind = iota
	kindAppend
	kindCallback
)

// Strategy selects how emitted text reaches the caller. The zero value is
// the yield strategy. Append and Callback carry the Go identifier of the
// buffer or sink they write to.
type Strategy struct {
	kind strategyKind
	name string
}

// Yield makes template functions return a *seq.Sequence[string].
func Yield() Strategy { return Strategy{kind: kindYield} }

// Append accumulates into a []byte variable called name.
func Append(name string) Strategy { return Strategy{kind: kindAppend, name: name} }

// Callback calls the func(string) called name for every piece of text.
func Callback(name string) Strategy { return Strategy{kind: kindCallback, name: name} }

func (s Strategy) IsYield() bool    { return s.kind == kindYield }
func (s Strategy) IsAppend() bool   { return s.kind == kindAppend }
func (s Strategy) IsCallback() bool { return s.kind == kindCallback }

// Name returns the buffer or sink identifier; empty for Yield.
func (s Strategy) Name() string { return s.name }

// Kind returns "yield", "append" or "callback".
func (s Strategy) Kind() string {
	switch s.kind {
	case kindAppend:
		return "append"
	case kindCallback:
		return "callback"
	default:
		return "yield"
	}
}

func (s Strategy) String() string {
	if s.kind == kindYield {
		return "yield"
	}
	return s.Kind() + "(" + s.name + ")"
}

func (s Strategy) validate() error {
	if s.kind == kindYield {
		return nil
	}
	if !token.IsIdentifier(s.name) {
		return &ConfigError{Field: s.Kind(), Value: s.name, Msg: "must be a Go identifier"}
	}
	return nil
}

// StrategyFromNames builds a strategy from the two optional command-line
// names. Both empty selects Yield; setting both is an error.
func StrategyFromNames(callback, appendTo string) (Strategy, error) {
	var s Strategy
	switch {
	case callback != "" && appendTo != "":
		return Strategy{}, &ConfigError{
			Field: "strategy",
			Value: fmt.Sprintf("callback=%s append=%s", callback, appendTo),
			Msg:   "callback and append are mutually exclusive",
		}
	case callback != "":
		s = Callback(callback)
	case appendTo != "":
		s = Append(appendTo)
	default:
		s = Yield()
	}
	return s, s.validate()
}

// ParseStrategy builds a strategy from a kind name as written in manifests.
func ParseStrategy(kind, name string) (Strategy, error) {
	var s Strategy
	switch kind {
	case "", "yield":
		if name != "" {
			return Strategy{}, &ConfigError{Field: "name", Value: name, Msg: "the yield strategy takes no name"}
		}
		return Yield(), nil
	case "append":
		s = Append(name)
	case "callback":
		s = Callback(name)
	default:
		return Strategy{}, &ConfigError{Field: "strategy", Value: kind, Msg: "expected yield, append or callback"}
	}
	return s, s.validate()
}

// ConfigError reports an invalid translation setting.
type ConfigError struct {
	Field string
	Value string
	Msg   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Msg)
}
