package dom

import (
	"slices"
	"strings"

	"github.com/beevik/etree"

	"bionic/engine"
)

// XML adapts etree trees. Containers are elements (document itself
// included), leaves are character data. CDATA sections, comments,
// processing instructions and directives are left alone.
type XML struct {
	classifier Classifier
	exclude    *Exclusions
	emphasis   Emphasis
	breaks     map[string]bool
}

var _ engine.Tree[etree.Token] = (*XML)(nil)

func NewXML(o Options) *XML {
	return &XML{
		classifier: o.Classifier,
		exclude:    o.Exclude,
		emphasis:   Emphasis{Tag: o.emphasisTag(), Class: o.Emphasis.Class},
		breaks:     o.lineBreaks(),
	}
}

// Run applies emphasis to subtree under root.
func (x *XML) Run(root *etree.Element, trace engine.TraceFunc) engine.Stats {
	e := engine.Engine[etree.Token]{Tree: x, Exclude: x.Excluded, Trace: trace}
	return e.Run(root)
}

// Excluded is the exclusion filter for elements.
func (x *XML) Excluded(t etree.Token) bool {
	el, ok := t.(*etree.Element)
	if !ok {
		return false
	}
	return x.exclude.Match(el.Tag, Classes(el.SelectAttrValue("class", "")), el.SelectAttrValue("id", ""))
}

func (x *XML) Kind(t etree.Token) engine.NodeKind {
	switch v := t.(type) {
	case *etree.Element:
		return engine.KindContainer
	case *etree.CharData:
		if v.IsCData() {
			return engine.KindOther
		}
		return engine.KindText
	default:
		return engine.KindOther
	}
}

func (x *XML) Children(t etree.Token) []etree.Token {
	if el, ok := t.(*etree.Element); ok {
		return slices.Clone(el.Child)
	}
	return nil
}

func (x *XML) Text(t etree.Token) string {
	if cd, ok := t.(*etree.CharData); ok {
		return cd.Data
	}
	return ""
}

func (x *XML) Inline(t etree.Token) bool {
	el, ok := t.(*etree.Element)
	if !ok || x.classifier == nil {
		return false
	}
	return x.classifier.Inline(strings.ToLower(el.Tag), Classes(el.SelectAttrValue("class", "")), el.SelectAttrValue("style", ""))
}

func (x *XML) LineBreak(t etree.Token) bool {
	el, ok := t.(*etree.Element)
	return ok && x.breaks[strings.ToLower(el.Tag)]
}

func (x *XML) Parent(t etree.Token) etree.Token {
	return t.Parent()
}

// InsertBefore puts node in front of ref. Elements created by the adapter
// inherit namespace prefix of their new parent.
func (x *XML) InsertBefore(parent, node, ref etree.Token) {
	p := parent.(*etree.Element)
	if el, ok := node.(*etree.Element); ok && el.Space == "" {
		el.Space = p.Space
	}
	p.InsertChildAt(ref.Index(), node)
}

func (x *XML) Remove(t etree.Token) {
	if p := t.Parent(); p != nil {
		p.RemoveChild(t)
	}
}

// Normalize merges adjacent character data and drops empty one.
func (x *XML) Normalize(root etree.Token) {
	if el, ok := root.(*etree.Element); ok {
		mergeCharData(el)
	}
}

func mergeCharData(el *etree.Element) {
	for i := 0; i < len(el.Child); {
		switch v := el.Child[i].(type) {
		case *etree.CharData:
			if v.IsCData() {
				break
			}
			if len(v.Data) == 0 {
				el.RemoveChildAt(i)
				continue
			}
			if i+1 < len(el.Child) {
				if next, ok := el.Child[i+1].(*etree.CharData); ok && !next.IsCData() {
					v.Data += next.Data
					el.RemoveChildAt(i + 1)
					continue
				}
			}
		case *etree.Element:
			mergeCharData(v)
		}
		i++
	}
}

func (x *XML) NewText(text string) etree.Token {
	return etree.NewText(text)
}

func (x *XML) NewEmphasis(text string) etree.Token {
	el := etree.NewElement(x.emphasis.Tag)
	if x.emphasis.Class != "" {
		el.CreateAttr("class", x.emphasis.Class)
	}
	el.SetText(text)
	return el
}
