package fragment

// Kind represents the category of a fragment.
type Kind uint8

const (
	// Invalid is the zero Kind; the tokenizer never produces it.
	Invalid Kind = iota
	// EOF marks the end of the fragment stream.
	EOF
	// HostCode is verbatim Go code.
	HostCode
	// Literal is literal text emitted at runtime.
	Literal
	// Expression is a formatted value.
	Expression
	// FuncOpen opens a template function; Text holds the signature.
	FuncOpen
	// FuncClose closes the current template function.
	FuncClose
)

var kindNames = [...]string{
	Invalid:    "Invalid",
	EOF:        "EOF",
	HostCode:   "HostCode",
	Literal:    "Literal",
	Expression: "Expression",
	FuncOpen:   "FuncOpen",
	FuncClose:  "FuncClose",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

// Emits reports whether fragments of this kind become output at runtime.
func (k Kind) Emits() bool {
	return k == Literal || k == Expression
}
