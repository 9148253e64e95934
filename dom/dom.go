// Package dom connects bionic engine to real document trees: beevik/etree
// for XML based formats (FB2, XHTML) and golang.org/x/net/html for HTML.
package dom

import (
	"strings"
)

// Classifier decides if element is rendered inline. Inline style is the
// value of "style" attribute if any.
type Classifier interface {
	Inline(tag string, classes []string, inlineStyle string) bool
}

// ClassifierFunc allows ordinary function to be used as Classifier.
type ClassifierFunc func(tag string, classes []string, inlineStyle string) bool

func (f ClassifierFunc) Inline(tag string, classes []string, inlineStyle string) bool {
	return f(tag, classes, inlineStyle)
}

// Emphasis describes element created for emphasized fragments.
type Emphasis struct {
	Tag   string
	Class string
}

// Options are shared by all adapters.
type Options struct {
	Classifier Classifier
	Exclude    *Exclusions
	Emphasis   Emphasis
	// LineBreaks are tags of hard line break elements.
	LineBreaks []string
}

func (o Options) lineBreaks() map[string]bool {
	breaks := make(map[string]bool, len(o.LineBreaks))
	for _, tag := range o.LineBreaks {
		breaks[strings.ToLower(tag)] = true
	}
	return breaks
}

func (o Options) emphasisTag() string {
	if o.Emphasis.Tag == "" {
		return "b"
	}
	return o.Emphasis.Tag
}

// TextOnlyTags are HTML elements which cannot have element children, their
// content is never touched.
var TextOnlyTags = []string{
	"script", "style", "title", "textarea", "xmp", "iframe",
	"noembed", "noframes", "noscript", "plaintext",
}

// Exclusions is the exclusion filter: elements matching any of the tags,
// classes or ids are skipped together with their subtrees.
type Exclusions struct {
	tags    map[string]bool
	classes map[string]bool
	ids     map[string]bool
}

// NewExclusions builds filter, tags are case insensitive.
func NewExclusions(tags, classes, ids []string) *Exclusions {
	x := &Exclusions{
		tags:    make(map[string]bool, len(tags)),
		classes: make(map[string]bool, len(classes)),
		ids:     make(map[string]bool, len(ids)),
	}
	for _, t := range tags {
		x.tags[strings.ToLower(t)] = true
	}
	for _, c := range classes {
		x.classes[c] = true
	}
	for _, id := range ids {
		x.ids[id] = true
	}
	return x
}

// With returns copy of filter extended with more tags.
func (x *Exclusions) With(tags ...string) *Exclusions {
	n := NewExclusions(tags, nil, nil)
	if x == nil {
		return n
	}
	for t := range x.tags {
		n.tags[t] = true
	}
	for c := range x.classes {
		n.classes[c] = true
	}
	for id := range x.ids {
		n.ids[id] = true
	}
	return n
}

// Match reports if element with given tag, class names and id is excluded.
func (x *Exclusions) Match(tag string, classes []string, id string) bool {
	if x == nil {
		return false
	}
	if x.tags[strings.ToLower(tag)] {
		return true
	}
	if id != "" && x.ids[id] {
		return true
	}
	for _, c := range classes {
		if x.classes[c] {
			return true
		}
	}
	return false
}

// Classes splits value of class attribute.
func Classes(attr string) []string {
	return strings.Fields(attr)
}
