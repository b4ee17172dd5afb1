package translate

// ChunkKind classifies a piece of generated output.
type ChunkKind uint8

const (
	ChunkHeader ChunkKind = iota
	ChunkMarker
	ChunkCode      // host code, verbatim
	ChunkStatement // one emission statement
	ChunkPrologue
	ChunkEpilogue
	ChunkNewline // inserted so the next chunk starts a line
)

var chunkKindNames = [...]string{
	ChunkHeader:    "Header",
	ChunkMarker:    "Marker",
	ChunkCode:      "Code",
	ChunkStatement: "Statement",
	ChunkPrologue:  "Prologue",
	ChunkEpilogue:  "Epilogue",
	ChunkNewline:   "Newline",
}

func (k ChunkKind) String() string {
	if int(k) < len(chunkKindNames) {
		return chunkKindNames[k]
	}
	return "ChunkKind(?)"
}

// Chunk is a piece of generated Go source. Concatenating the Text of all
// chunks in order yields the generated file.
type Chunk struct {
	Kind ChunkKind
	Text string
	Line uint32 // template line the chunk comes from; 0 for the header
}
