package fb2

import "bionic/style"

// InlineTags are FictionBook elements rendered inside of paragraph text.
var InlineTags = []string{
	"strong", "emphasis", "style", "a", "strikethrough", "sub", "sup", "code", "image",
}

// NonContentTags never contain readable text.
var NonContentTags = []string{"description", "binary", "stylesheet"}

// LineBreakTags always terminate the line regardless of styling.
var LineBreakTags = []string{"empty-line"}

// UserAgent returns display defaults for FictionBook elements. Everything
// that is not explicitly inline is a block (p, v, subtitle, title, section,
// table cells and so on).
func UserAgent() style.UserAgent {
	ua := style.UserAgent{
		Name:     "fb2",
		Display:  make(map[string]string, len(InlineTags)+len(NonContentTags)),
		Fallback: "block",
	}
	for _, t := range InlineTags {
		ua.Display[t] = "inline"
	}
	for _, t := range NonContentTags {
		ua.Display[t] = "none"
	}
	return ua
}
