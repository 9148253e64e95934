package dom

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"bionic/engine"
)

// HTML adapts trees produced by html.Parse. Raw text elements (script,
// style, etc.) are always excluded since parser would not read markup inside
// them back.
type HTML struct {
	classifier Classifier
	exclude    *Exclusions
	emphasis   Emphasis
	breaks     map[string]bool
}

var _ engine.Tree[*html.Node] = (*HTML)(nil)

func NewHTML(o Options) *HTML {
	return &HTML{
		classifier: o.Classifier,
		exclude:    o.Exclude.With(TextOnlyTags...),
		emphasis:   Emphasis{Tag: o.emphasisTag(), Class: o.Emphasis.Class},
		breaks:     o.lineBreaks(),
	}
}

// Run applies emphasis to subtree under root.
func (h *HTML) Run(root *html.Node, trace engine.TraceFunc) engine.Stats {
	e := engine.Engine[*html.Node]{Tree: h, Exclude: h.Excluded, Trace: trace}
	return e.Run(root)
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

// Excluded is the exclusion filter for elements.
func (h *HTML) Excluded(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	return h.exclude.Match(n.Data, Classes(attr(n, "class")), attr(n, "id"))
}

func (h *HTML) Kind(n *html.Node) engine.NodeKind {
	switch n.Type {
	case html.ElementNode, html.DocumentNode:
		return engine.KindContainer
	case html.TextNode:
		return engine.KindText
	default:
		return engine.KindOther
	}
}

func (h *HTML) Children(n *html.Node) []*html.Node {
	var children []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		children = append(children, c)
	}
	return children
}

func (h *HTML) Text(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	return ""
}

func (h *HTML) Inline(n *html.Node) bool {
	if n.Type != html.ElementNode || h.classifier == nil {
		return false
	}
	return h.classifier.Inline(n.Data, Classes(attr(n, "class")), attr(n, "style"))
}

func (h *HTML) LineBreak(n *html.Node) bool {
	return n.Type == html.ElementNode && h.breaks[n.Data]
}

func (h *HTML) Parent(n *html.Node) *html.Node {
	return n.Parent
}

func (h *HTML) InsertBefore(parent, node, ref *html.Node) {
	parent.InsertBefore(node, ref)
}

func (h *HTML) Remove(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// Normalize merges adjacent text nodes and drops empty ones.
func (h *HTML) Normalize(root *html.Node) {
	for c := root.FirstChild; c != nil; {
		next := c.NextSibling
		switch c.Type {
		case html.TextNode:
			for next != nil && next.Type == html.TextNode {
				c.Data += next.Data
				after := next.NextSibling
				root.RemoveChild(next)
				next = after
			}
			if c.Data == "" {
				root.RemoveChild(c)
			}
		case html.ElementNode:
			h.Normalize(c)
		}
		c = next
	}
}

func (h *HTML) NewText(text string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: text}
}

func (h *HTML) NewEmphasis(text string) *html.Node {
	el := &html.Node{
		Type:     html.ElementNode,
		Data:     h.emphasis.Tag,
		DataAtom: atom.Lookup([]byte(h.emphasis.Tag)),
	}
	if h.emphasis.Class != "" {
		el.Attr = append(el.Attr, html.Attribute{Key: "class", Val: h.emphasis.Class})
	}
	el.AppendChild(h.NewText(text))
	return el
}
