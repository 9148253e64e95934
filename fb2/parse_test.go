package fb2

import (
	"errors"
	"testing"

	"github.com/beevik/etree"
	"go.uber.org/zap/zaptest"
	"golang.org/x/text/language"

	"bionic/style"
)

const sample = `<?xml version="1.0" encoding="UTF-8"?>
<FictionBook xmlns="http://www.gribuser.ru/xml/fictionbook/2.0" xmlns:l="http://www.w3.org/1999/xlink">
<stylesheet type="text/css">
  .note { display: inline }
</stylesheet>
<description>
  <title-info>
    <author><first-name>Lev</first-name><middle-name>N.</middle-name><last-name>Tolstoy</last-name></author>
    <author><nickname>anon</nickname></author>
    <book-title>  War   and
      Peace </book-title>
    <lang>ru</lang>
  </title-info>
  <document-info><id>abc-123</id></document-info>
</description>
<body><section><p>Text</p></section></body>
<body name="notes"><section><p>Note</p></section></body>
<binary id="img" content-type="image/png">AAAA</binary>
</FictionBook>`

func readDoc(t *testing.T, s string) *etree.Document {
	t.Helper()
	doc := etree.NewDocument()
	if err := doc.ReadFromString(s); err != nil {
		t.Fatalf("unable to parse test document: %v", err)
	}
	return doc
}

func TestParse(t *testing.T) {
	book, err := Parse(readDoc(t, sample), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if got := book.Description.Title; got != "War and Peace" {
		t.Errorf("Title = %q", got)
	}
	if got := book.Description.ID; got != "abc-123" {
		t.Errorf("ID = %q", got)
	}
	if book.Description.Lang != language.Russian {
		t.Errorf("Lang = %v", book.Description.Lang)
	}
	if got := book.AuthorsString(); got != "Lev N. Tolstoy, anon" {
		t.Errorf("AuthorsString() = %q", got)
	}
	if book.Bodies != 2 || book.Binaries != 1 {
		t.Errorf("Bodies = %d, Binaries = %d", book.Bodies, book.Binaries)
	}
	if len(book.Stylesheets) != 1 || !book.Stylesheets[0].IsCSS() || book.Stylesheets[0].Data != ".note { display: inline }" {
		t.Errorf("Stylesheets = %+v", book.Stylesheets)
	}
}

func TestParse_Errors(t *testing.T) {
	log := zaptest.NewLogger(t)

	if _, err := Parse(nil, log); err == nil {
		t.Error("expected error for nil document")
	}
	if _, err := Parse(etree.NewDocument(), log); err == nil {
		t.Error("expected error for empty document")
	}
	_, err := Parse(readDoc(t, `<html><body/></html>`), log)
	if !errors.Is(err, ErrNotFictionBook) {
		t.Errorf("expected ErrNotFictionBook, got %v", err)
	}
}

func TestParseBookLang(t *testing.T) {
	log := zaptest.NewLogger(t)

	tests := []struct {
		in   string
		want language.Tag
	}{
		{"", language.Und},
		{"en", language.English},
		{" de ", language.German},
		{"not a language at all", language.Und},
	}
	for _, tt := range tests {
		if got := parseBookLang(tt.in, log); got != tt.want {
			t.Errorf("parseBookLang(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestUserAgent(t *testing.T) {
	c := style.NewClassifier(UserAgent(), zaptest.NewLogger(t))

	for tag, want := range map[string]bool{
		"strong":     true,
		"emphasis":   true,
		"a":          true,
		"p":          false,
		"v":          false,
		"subtitle":   false,
		"section":    false,
		"empty-line": false,
		"binary":     false,
	} {
		if got := c.Inline(tag, nil, ""); got != want {
			t.Errorf("Inline(%q) = %v, want %v", tag, got, want)
		}
	}
}
