package engine

import (
	"slices"
	"strings"
)

// node is in-memory tree used to exercise the engine without real documents.
type node struct {
	tag      string // empty for text
	text     string
	inline   bool
	parent   *node
	children []*node
}

func txt(s string) *node {
	return &node{text: s}
}

func el(tag string, inline bool, children ...*node) *node {
	n := &node{tag: tag, inline: inline}
	for _, c := range children {
		c.parent = n
	}
	n.children = children
	return n
}

func span(children ...*node) *node { return el("span", true, children...) }
func div(children ...*node) *node  { return el("div", false, children...) }

// comment stands for nodes engine must ignore.
func comment() *node { return &node{tag: "!--"} }

type tree struct {
	excluded map[string]bool
}

func (tree) Kind(n *node) NodeKind {
	switch {
	case n.tag == "!--":
		return KindOther
	case n.tag == "":
		return KindText
	default:
		return KindContainer
	}
}

func (tree) Children(n *node) []*node { return slices.Clone(n.children) }
func (tree) Text(n *node) string      { return n.text }
func (tree) Inline(n *node) bool      { return n.inline }
func (tree) LineBreak(n *node) bool   { return n.tag == "br" }
func (tree) Parent(n *node) *node     { return n.parent }

func (tree) InsertBefore(parent, n, ref *node) {
	i := slices.Index(parent.children, ref)
	if i < 0 {
		panic("reference node is not a child")
	}
	n.parent = parent
	parent.children = slices.Insert(parent.children, i, n)
}

func (tree) Remove(n *node) {
	p := n.parent
	i := slices.Index(p.children, n)
	p.children = slices.Delete(p.children, i, i+1)
	n.parent = nil
}

func (t tree) Normalize(root *node) {
	out := root.children[:0]
	for _, c := range root.children {
		if c.tag == "" && len(out) > 0 && out[len(out)-1].tag == "" {
			out[len(out)-1].text += c.text
			continue
		}
		out = append(out, c)
	}
	root.children = out
	for _, c := range root.children {
		if c.tag != "" {
			t.Normalize(c)
		}
	}
}

func (tree) NewText(s string) *node { return txt(s) }

func (tree) NewEmphasis(s string) *node { return el("b", true, txt(s)) }

func (t tree) exclude(n *node) bool { return t.excluded[n.tag] }

// render produces markup for comparison, text is written as is.
func render(n *node) string {
	var sb strings.Builder
	var walk func(n *node)
	walk = func(n *node) {
		switch n.tag {
		case "":
			sb.WriteString(n.text)
		case "!--":
			sb.WriteString("<!---->")
		default:
			sb.WriteString("<" + n.tag + ">")
			for _, c := range n.children {
				walk(c)
			}
			sb.WriteString("</" + n.tag + ">")
		}
	}
	walk(n)
	return sb.String()
}

func lineTexts(lines []Line[*node]) [][]string {
	out := make([][]string, 0, len(lines))
	for _, l := range lines {
		texts := make([]string, 0, len(l))
		for _, n := range l {
			texts = append(texts, n.text)
		}
		out = append(out, texts)
	}
	return out
}
