// Package style decides whether elements flow inline with their neighbours.
// It knows user agent display defaults for the supported document types and
// understands the subset of CSS that can change them.
package style

// Value represents a parsed CSS property value.
type Value struct {
	Raw       string // Original CSS value string (e.g., "inline-block", "block !important")
	Keyword   string // Keyword if applicable, lower case
	Important bool
}

// Selector represents a CSS selector reduced to what display resolution needs.
// Descendant selectors keep only their rightmost part, elements are
// classified without looking at their ancestors.
type Selector struct {
	Raw     string   // Original selector string
	Element string   // Element name, empty for class-only selectors
	Classes []string // Class names, all of them must be present
}

// IsSimple returns true if the selector names an element or at least one class.
func (s Selector) IsSimple() bool {
	return s.Element != "" || len(s.Classes) > 0
}

// Specificity orders selectors: element < class < element.class.
func (s Selector) Specificity() int {
	spec := len(s.Classes) * 10
	if s.Element != "" && s.Element != "*" {
		spec++
	}
	return spec
}

// Matches reports whether the rightmost part of the selector applies to an
// element with given name and classes.
func (s Selector) Matches(tag string, classes []string) bool {
	if !s.IsSimple() {
		return false
	}
	if s.Element != "" && s.Element != "*" && s.Element != tag {
		return false
	}
	for _, want := range s.Classes {
		found := false
		for _, have := range classes {
			if have == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (s Selector) String() string {
	return s.Raw
}

// Rule is a single selector with its declarations.
type Rule struct {
	Selector   Selector
	Properties map[string]Value
	Media      string // Raw @media query this rule was declared in, if any
}

// GetProperty returns a property value.
func (r Rule) GetProperty(name string) (Value, bool) {
	v, ok := r.Properties[name]
	return v, ok
}

// Stylesheet is an ordered list of rules.
type Stylesheet struct {
	Source   string
	Rules    []Rule
	Warnings []string
}

// Len returns number of rules, nil safe.
func (s *Stylesheet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Rules)
}
