package lang

// EntityKind names the kind of code unit an Entity represents.
type EntityKind string

const (
	KindFunction EntityKind = "function"
	KindMethod   EntityKind = "method"
	KindClass    EntityKind = "class"
)

// Entity is one function, method, or class body within a source file, with
// a byte-exact span into the file's content. Bug generators rewrite or
// regenerate exactly this span; nothing outside it moves.
type Entity struct {
	Name string
	Kind EntityKind
	File string

	StartByte uint32
	EndByte   uint32
	StartLine int
	EndLine   int

	// Signature is the entity's declaration line(s) without its body —
	// the part lm-rewrite is allowed to see when the body itself is blanked.
	Signature string
	// Source is content[StartByte:EndByte], the entity's full text.
	Source string
}
