package style

import "strings"

// UserAgent holds default display values of one document type.
type UserAgent struct {
	Name     string
	Display  map[string]string
	Fallback string // display of elements not listed in Display
}

// DisplayOf returns default display value for the tag.
func (ua UserAgent) DisplayOf(tag string) string {
	if d, ok := ua.Display[tag]; ok {
		return d
	}
	if ua.Fallback == "" {
		return "inline"
	}
	return ua.Fallback
}

func blocks(display string, tags ...string) map[string]string {
	m := make(map[string]string, len(tags))
	for _, t := range tags {
		m[t] = display
	}
	return m
}

// HTMLDefaults follows the rendering section of the HTML standard: listed
// elements are block level (or otherwise not inline), the rest is inline.
var HTMLDefaults = UserAgent{
	Name: "html",
	Display: func() map[string]string {
		m := blocks("block",
			"html", "body", "head", "address", "article", "aside", "blockquote", "center",
			"details", "dialog", "dd", "dir", "div", "dl", "dt", "fieldset", "figcaption",
			"figure", "footer", "form", "frameset", "frame", "h1", "h2", "h3", "h4", "h5", "h6",
			"header", "hgroup", "hr", "legend", "listing", "main", "menu", "nav", "ol", "optgroup",
			"option", "p", "plaintext", "pre", "search", "section", "summary", "ul", "xmp",
		)
		m["li"] = "list-item"
		m["table"] = "table"
		m["caption"] = "table-caption"
		m["colgroup"] = "table-column-group"
		m["col"] = "table-column"
		m["thead"] = "table-header-group"
		m["tbody"] = "table-row-group"
		m["tfoot"] = "table-footer-group"
		m["tr"] = "table-row"
		m["td"] = "table-cell"
		m["th"] = "table-cell"
		m["ruby"] = "ruby"
		m["rt"] = "ruby-text"
		for _, t := range []string{"area", "base", "basefont", "datalist", "link", "meta",
			"noembed", "noframes", "param", "rp", "script", "style", "template", "title"} {
			m[t] = "none"
		}
		for _, t := range []string{"img", "input", "button", "select", "textarea", "video",
			"audio", "canvas", "iframe", "embed", "object", "svg", "math"} {
			m[t] = "inline-block"
		}
		return m
	}(),
	Fallback: "inline",
}

// IsInlineFlow reports whether display value keeps element content on the
// line of its parent.
func IsInlineFlow(display string) bool {
	switch display {
	case "inline", "inline-block", "ruby":
		return true
	}
	return false
}

// normalizeDisplay reduces multi keyword display syntax to its single keyword
// equivalent ("inline flow-root" is "inline-block").
func normalizeDisplay(keyword string) string {
	var outer, inner string
	for i, f := range strings.Fields(keyword) {
		switch i {
		case 0:
			outer = f
		case 1:
			inner = f
		}
	}
	switch {
	case inner == "":
		return outer
	case outer == "inline" && inner == "flow":
		return "inline"
	case outer == "inline" && inner == "flow-root":
		return "inline-block"
	case outer == "inline":
		return "inline-" + inner
	case outer == "block" && (inner == "flow" || inner == "flow-root"):
		return "block"
	default:
		return inner
	}
}
