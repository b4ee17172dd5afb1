// Package fragment defines the unit produced by the template tokenizer and
// consumed by the translator.
//
// A template is split into a stream of fragments in source order:
//
//	HostCode    Go code copied unchanged into the generated file
//	Literal     text reproduced at runtime
//	Expression  Go expression formatted to text, optionally piped through filters
//	FuncOpen    start of a template function ($func Name(params))
//	FuncClose   end of the current template function ($end)
//	EOF         end of stream
//
// Every fragment carries the 1-based template line on which its first
// character (or its opening marker) appears; lines never decrease along a
// stream.
package fragment
