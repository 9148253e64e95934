// Package fb2 knows what FictionBook documents look like: which elements
// carry text, which ones start a new line and where book metadata lives.
package fb2

import (
	"strings"

	"golang.org/x/text/language"
)

// Namespace is the FictionBook 2.0 root namespace.
const Namespace = "http://www.gribuser.ru/xml/fictionbook/2.0"

// Author names a book author as described by FictionBook schema.
type Author struct {
	FirstName  string
	MiddleName string
	LastName   string
	Nickname   string
}

// String returns author name suitable for file names and logs.
func (a Author) String() string {
	name := strings.Join(strings.Fields(strings.Join([]string{a.FirstName, a.MiddleName, a.LastName}, " ")), " ")
	if name == "" {
		return a.Nickname
	}
	return name
}

// Stylesheet is an embedded <stylesheet> element.
type Stylesheet struct {
	Type string
	Data string
}

// IsCSS returns true for stylesheets we could parse.
func (s Stylesheet) IsCSS() bool {
	return s.Type == "" || strings.EqualFold(s.Type, "text/css")
}

// Description keeps the parts of <description> needed for output naming and
// reporting.
type Description struct {
	ID      string
	Title   string
	Lang    language.Tag
	Authors []Author
}

// Book is FictionBook metadata together with its stylesheets. Document
// bodies are processed in place and not represented here.
type Book struct {
	Description Description
	Stylesheets []Stylesheet
	Bodies      int
	Binaries    int
}

// AuthorsString returns comma separated list of authors.
func (b *Book) AuthorsString() string {
	names := make([]string, 0, len(b.Description.Authors))
	for _, a := range b.Description.Authors {
		if s := a.String(); s != "" {
			names = append(names, s)
		}
	}
	return strings.Join(names, ", ")
}
