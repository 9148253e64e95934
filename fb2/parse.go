package fb2

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// ErrNotFictionBook is returned for XML documents with foreign root element.
var ErrNotFictionBook = errors.New("not a FictionBook document")

// Parse walks top level of etree DOM and collects book metadata and
// stylesheets.
func Parse(doc *etree.Document, log *zap.Logger) (*Book, error) {
	if doc == nil {
		return nil, fmt.Errorf("nil document")
	}

	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("document has no root element")
	}
	if root.Tag != "FictionBook" {
		return nil, fmt.Errorf("%w: unexpected root element %q", ErrNotFictionBook, root.Tag)
	}

	book := &Book{}
	for _, child := range root.ChildElements() {
		switch child.Tag {
		case "stylesheet":
			book.Stylesheets = append(book.Stylesheets, Stylesheet{
				Type: child.SelectAttrValue("type", ""),
				Data: strings.TrimSpace(child.Text()),
			})
		case "description":
			book.Description = parseDescription(child, log)
		case "body":
			book.Bodies++
		case "binary":
			book.Binaries++
		default:
			log.Warn("Unexpected tag in FictionBook, ignoring", zap.String("parent", root.Tag), zap.String("tag", child.Tag))
		}
	}
	if book.Bodies == 0 {
		log.Warn("FictionBook has no body")
	}
	return book, nil
}

func parseDescription(el *etree.Element, log *zap.Logger) Description {
	var desc Description
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "title-info":
			parseTitleInfo(child, &desc, log)
		case "document-info":
			if id := child.SelectElement("id"); id != nil {
				desc.ID = strings.TrimSpace(id.Text())
			}
		case "src-title-info", "publish-info", "custom-info", "output":
		default:
			log.Warn("Unexpected tag in description, ignoring", zap.String("parent", el.Tag), zap.String("tag", child.Tag))
		}
	}
	return desc
}

func parseTitleInfo(el *etree.Element, desc *Description, log *zap.Logger) {
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "book-title":
			desc.Title = strings.Join(strings.Fields(child.Text()), " ")
		case "lang":
			desc.Lang = parseBookLang(child.Text(), log)
		case "author":
			desc.Authors = append(desc.Authors, parseAuthor(child))
		}
	}
}

func parseBookLang(in string, log *zap.Logger) language.Tag {
	lang := strings.TrimSpace(in)
	if lang == "" {
		return language.Und
	}

	tag, err := language.Parse(lang)
	if err == nil {
		return tag
	}

	// last resort - try names directly
	for _, supportedTag := range display.Supported.Tags() {
		if strings.EqualFold(display.Self.Name(supportedTag), lang) {
			return supportedTag
		}
	}
	log.Warn("Unable to parse book language", zap.String("lang", lang))
	return language.Und
}

func parseAuthor(el *etree.Element) Author {
	author := Author{}
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "first-name":
			author.FirstName = strings.TrimSpace(child.Text())
		case "middle-name":
			author.MiddleName = strings.TrimSpace(child.Text())
		case "last-name":
			author.LastName = strings.TrimSpace(child.Text())
		case "nickname":
			author.Nickname = strings.TrimSpace(child.Text())
		}
	}
	return author
}
