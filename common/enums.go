// Package common holds enums shared by configuration and processing code.
package common

//go:generate go tool go-enum --marshal --names

// Supported input document type.
// ENUM(fb2, xhtml, html, epub)
type InputFmt int

// IsXML returns true for documents processed as XML trees.
func (f InputFmt) IsXML() bool {
	return f == InputFmtFb2 || f == InputFmtXhtml
}

// IsContainer returns true for documents which carry other documents inside.
func (f InputFmt) IsContainer() bool {
	return f == InputFmtEpub
}

func (f InputFmt) Ext() string {
	switch f {
	case InputFmtFb2:
		return ".fb2"
	case InputFmtXhtml:
		return ".xhtml"
	case InputFmtHtml:
		return ".html"
	case InputFmtEpub:
		return ".epub"
	default:
		// this should never happen
		panic("unsupported format requested")
	}
}
