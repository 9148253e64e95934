package engine

// NodeKind classifies nodes of the source tree.
type NodeKind int

const (
	// KindOther nodes (comments, processing instructions, etc.) are ignored.
	KindOther NodeKind = iota
	// KindContainer nodes have children.
	KindContainer
	// KindText nodes are text bearing leaves.
	KindText
)

func (k NodeKind) String() string {
	switch k {
	case KindContainer:
		return "container"
	case KindText:
		return "text"
	default:
		return "other"
	}
}

// Walker gives read access to a tree of nodes of type N.
type Walker[N any] interface {
	Kind(n N) NodeKind
	// Children returns snapshot of container children in document order.
	Children(n N) []N
	// Text returns content of a text leaf.
	Text(n N) string
	// Inline reports if container is rendered as part of the surrounding
	// flow (CSS display inline or inline-block).
	Inline(n N) bool
	// LineBreak reports if container is a hard line break. Such containers
	// are always block level whatever Inline says.
	LineBreak(n N) bool
}

// Splicer mutates the tree. Engine never changes leaves in place, it only
// asks for their replacement.
type Splicer[N any] interface {
	Parent(n N) N
	InsertBefore(parent, node, ref N)
	Remove(n N)
	// Normalize merges adjacent text leaves in the subtree.
	Normalize(root N)
	NewText(text string) N
	NewEmphasis(text string) N
}

// Tree is everything Run needs from the document.
type Tree[N any] interface {
	Walker[N]
	Splicer[N]
}

// Filter returns true when container and its whole subtree must not be
// touched.
type Filter[N any] func(n N) bool

// Line is an ordered run of text leaves not interrupted by block level
// boundary.
type Line[N any] []N
