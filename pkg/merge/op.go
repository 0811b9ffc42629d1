package merge

import "github.com/go-go-golems/pipecraft/pkg/yamldoc"

// Verb names what an operation does when its target key already holds a
// value.
type Verb int

const (
	// VerbSet inserts the payload when the key is absent and otherwise leaves
	// the existing value alone. Guarantees existence without clobbering.
	VerbSet Verb = iota
	// VerbOverwrite always replaces the value; the pair keeps its position.
	VerbOverwrite
	// VerbMerge unions sequences (existing order first, unseen payload items
	// appended) and merges mappings recursively with the payload winning on
	// conflicting leaves.
	VerbMerge
	// VerbPreserve is a full no-op when the key exists, comments and spacing
	// included; when absent it inserts the payload as a starter value.
	VerbPreserve
)

func (v Verb) String() string {
	switch v {
	case VerbSet:
		return "set"
	case VerbOverwrite:
		return "overwrite"
	case VerbMerge:
		return "merge"
	case VerbPreserve:
		return "preserve"
	}
	return "unknown"
}

// Operation is one declarative edit against a document tree. Path addresses
// the target by dotted mapping segments; the final segment is the key the
// verb acts on, the preceding ones are parent mappings created on demand.
type Operation struct {
	Path          string
	Verb          Verb
	Payload       yamldoc.Node
	CommentBefore string
	SpaceBefore   bool
	Required      bool
}
