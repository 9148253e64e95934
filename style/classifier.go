package style

import (
	"cmp"
	"slices"
	"strings"

	"go.uber.org/zap"
)

type resolved struct {
	display   string
	important bool
}

type displayRule struct {
	sel         Selector
	display     string
	important   bool
	specificity int
	order       int
}

// Classifier resolves element display from user agent defaults, stylesheet
// rules and inline style attributes.
type Classifier struct {
	ua     UserAgent
	parser *Parser
	rules  []displayRule
	cache  map[string]resolved
	log    *zap.Logger
}

// NewClassifier creates classifier for documents of the given type.
func NewClassifier(ua UserAgent, log *zap.Logger, sheets ...*Stylesheet) *Classifier {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Classifier{
		ua:     ua,
		parser: NewParser(log),
		cache:  make(map[string]resolved),
		log:    log.Named("style"),
	}
	for _, sheet := range sheets {
		c.Add(sheet)
	}
	return c
}

// Add makes rules of the stylesheet which set display take part in
// resolution. Rules added later win over earlier ones of the same
// specificity.
func (c *Classifier) Add(sheet *Stylesheet) {
	if sheet == nil {
		return
	}
	added := 0
	for _, r := range sheet.Rules {
		v, ok := r.GetProperty("display")
		if !ok || v.Keyword == "" || v.Keyword == "inherit" {
			continue
		}
		c.rules = append(c.rules, displayRule{
			sel:         r.Selector,
			display:     v.Keyword,
			important:   v.Important,
			specificity: r.Selector.Specificity(),
			order:       len(c.rules),
		})
		added++
	}
	slices.SortStableFunc(c.rules, func(a, b displayRule) int {
		if a.important != b.important {
			if a.important {
				return 1
			}
			return -1
		}
		return cmp.Or(cmp.Compare(a.specificity, b.specificity), cmp.Compare(a.order, b.order))
	})
	clear(c.cache)
	c.log.Debug("Stylesheet added", zap.String("source", sheet.Source), zap.Int("display rules", added), zap.Int("warnings", len(sheet.Warnings)))
}

// Rules returns number of display rules known to classifier.
func (c *Classifier) Rules() int {
	return len(c.rules)
}

// Display returns resolved display value of the element.
func (c *Classifier) Display(tag string, classes []string, inlineStyle string) string {
	key := tag + "\x00" + strings.Join(classes, " ")
	res, ok := c.cache[key]
	if !ok {
		res = resolved{display: c.ua.DisplayOf(tag)}
		for _, r := range c.rules {
			if r.sel.Matches(tag, classes) {
				res = resolved{display: c.resolve(r.display, tag), important: r.important}
			}
		}
		c.cache[key] = res
	}

	if inlineStyle != "" {
		if v, ok := c.parser.ParseInline(inlineStyle)["display"]; ok && v.Keyword != "" && v.Keyword != "inherit" {
			if v.Important || !res.important {
				return c.resolve(v.Keyword, tag)
			}
		}
	}
	return res.display
}

// Inline reports whether element content flows inline with its parent.
func (c *Classifier) Inline(tag string, classes []string, inlineStyle string) bool {
	return IsInlineFlow(c.Display(tag, classes, inlineStyle))
}

func (c *Classifier) resolve(keyword, tag string) string {
	switch keyword {
	case "initial", "unset":
		return "inline"
	case "revert", "revert-layer":
		return c.ua.DisplayOf(tag)
	}
	return normalizeDisplay(keyword)
}
