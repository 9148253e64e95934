// Package content loads a single document, applies emphasis to its text and
// writes it back.
package content

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"

	"bionic/common"
	"bionic/fb2"
	"bionic/misc"
	"bionic/state"
)

// Document is one parsed document of any supported format. Exactly one of
// XML and HTML is set.
type Document struct {
	SrcName string
	Format  common.InputFmt
	// ID identifies document in debug report.
	ID    string
	Title string

	XML  *etree.Document
	HTML *html.Node
	Book *fb2.Book

	WorkDir string

	plans []linePlan
	log   *zap.Logger
}

// Prepare reads and parses document. Format must not be a container format.
func Prepare(ctx context.Context, r io.Reader, srcName string, format common.InputFmt, log *zap.Logger) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	env := state.EnvFromContext(ctx)

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("unable to generate document id: %w", err)
	}

	d := &Document{
		SrcName: srcName,
		Format:  format,
		ID:      id.String(),
		log:     log,
	}

	switch format {
	case common.InputFmtFb2, common.InputFmtXhtml:
		if err := d.readXML(r); err != nil {
			return nil, err
		}
	case common.InputFmtHtml:
		if err := d.readHTML(r); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported document format %s", format)
	}

	switch format {
	case common.InputFmtFb2:
		if d.Book, err = fb2.Parse(d.XML, log); err != nil {
			return nil, fmt.Errorf("unable to parse FB2: %w", err)
		}
		d.Title = d.Book.Description.Title
		if d.Book.Description.ID != "" {
			if _, err := uuid.Parse(d.Book.Description.ID); err == nil {
				d.ID = d.Book.Description.ID
			}
		}
	case common.InputFmtXhtml:
		if el := d.XML.FindElement("//head/title"); el != nil {
			d.Title = strings.Join(strings.Fields(el.Text()), " ")
		}
	case common.InputFmtHtml:
		d.Title = htmlTitle(d.HTML)
	}

	if env.Rpt != nil {
		tmpDir, err := os.MkdirTemp("", misc.GetAppName()+"-")
		if err != nil {
			return nil, fmt.Errorf("unable to create temporary directory: %w", err)
		}
		env.Rpt.Store(fmt.Sprintf("%s-%s", misc.GetAppName(), d.ID), tmpDir)
		d.WorkDir = tmpDir

		// Save parsed document to file for debugging
		if err := d.WriteFile(filepath.Join(tmpDir, filepath.Base(srcName))); err != nil {
			return nil, fmt.Errorf("unable to write input doc for debugging: %w", err)
		}
	}
	return d, nil
}

func (d *Document) readXML(r io.Reader) error {
	doc := etree.NewDocument()

	// Respect as many HTML named character references as possible, old FB2s
	// and XHTMLs often do not properly follow XML standard
	entities, err := prepareHTMLNamedEntities()
	if err != nil {
		return fmt.Errorf("unable to prepare HTML named entities: %w", err)
	}
	doc.WriteSettings = etree.WriteSettings{
		CanonicalText:    true,
		CanonicalAttrVal: true,
	}
	doc.ReadSettings = etree.ReadSettings{
		CharsetReader: charsetReader,
		Entity:        entities,
		ValidateInput: false,
		Permissive:    true,
		PreserveCData: true,
	}

	if _, err := doc.ReadFrom(r); err != nil {
		return fmt.Errorf("unable to read %s: %w", d.Format, err)
	}
	if doc.Root() == nil {
		return fmt.Errorf("unable to read %s: document has no root element", d.Format)
	}
	d.XML = doc
	return nil
}

// charsetReader handles encoding declared by XML document. Declaration could
// only be read from ASCII compatible stream, so UTF-16 and UTF-32 labels mean
// input has been transcoded already.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	l := strings.ToLower(strings.TrimSpace(label))
	if strings.HasPrefix(l, "utf-16") || strings.HasPrefix(l, "utf-32") || l == "ucs-2" || l == "unicode" {
		return input, nil
	}
	return charset.NewReaderLabel(label, input)
}

func (d *Document) readHTML(r io.Reader) error {
	// charset is detected from BOM and meta elements
	cr, err := charset.NewReader(r, "")
	if err != nil {
		return fmt.Errorf("unable to detect HTML charset: %w", err)
	}
	doc, err := html.Parse(cr)
	if err != nil {
		return fmt.Errorf("unable to read HTML: %w", err)
	}
	d.HTML = doc
	return nil
}

func htmlTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.DataAtom == atom.Title {
		var sb strings.Builder
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				sb.WriteString(c.Data)
			}
		}
		return strings.Join(strings.Fields(sb.String()), " ")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := htmlTitle(c); t != "" {
			return t
		}
	}
	return ""
}

// WriteTo serializes document.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	if d.XML != nil {
		return d.XML.WriteTo(w)
	}
	cw := &countingWriter{w: w}
	err := html.Render(cw, d.HTML)
	return cw.n, err
}

// Bytes returns serialized document.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile serializes document into named file.
func (d *Document) WriteFile(name string) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()
	_, err = d.WriteTo(f)
	return err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
