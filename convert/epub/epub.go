// Package epub applies emphasis to content documents of existing EPUB
// publications.
package epub

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"runtime/debug"
	"sort"
	"strings"

	"github.com/beevik/etree"
	"github.com/google/uuid"
	"github.com/maruel/natural"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"bionic/archive"
	"bionic/common"
	"bionic/config"
	"bionic/content"
	"bionic/engine"
	"bionic/misc"
	"bionic/style"
)

const containerPath = "META-INF/container.xml"

// Book is opened EPUB archive.
type Book struct {
	ID      string
	SrcName string
	Title   string
	// OPF is path of the package document inside archive.
	OPF string

	zr *zip.Reader
	// entry name to manifest media type
	manifest map[string]string
	sheets   map[string]*style.Stylesheet
	log      *zap.Logger
}

// Summary describes single Write.
type Summary struct {
	Documents int
	Failed    []string
	Stats     engine.Stats
}

func (s *Summary) add(st engine.Stats) {
	s.Documents++
	s.Stats.Lines += st.Lines
	s.Stats.Leaves += st.Leaves
	s.Stats.Words += st.Words
	s.Stats.Replaced += st.Replaced
	s.Stats.Elapsed += st.Elapsed
}

// Open reads package metadata and stylesheets of the publication. Archive
// without container or package document is still usable, documents are
// recognized by names then.
func Open(ctx context.Context, zr *zip.Reader, srcName string, log *zap.Logger) (*Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("unable to generate book id: %w", err)
	}

	b := &Book{
		ID:       id.String(),
		SrcName:  srcName,
		zr:       zr,
		manifest: make(map[string]string),
		sheets:   make(map[string]*style.Stylesheet),
		log:      log,
	}

	if err := b.readPackage(); err != nil {
		log.Warn("Unable to read package document, relying on file names", zap.String("epub", srcName), zap.Error(err))
	}

	parser := style.NewParser(log.Named("style"))
	for _, f := range zr.File {
		if !b.isStylesheet(f.Name) {
			continue
		}
		data, err := readEntry(f)
		if err != nil {
			log.Warn("Unable to read stylesheet", zap.String("entry", f.Name), zap.Error(err))
			continue
		}
		b.sheets[f.Name] = parser.Parse(data, f.Name)
	}
	return b, nil
}

func (b *Book) readPackage() error {
	f := b.find(containerPath)
	if f == nil {
		return fmt.Errorf("%s not found", containerPath)
	}
	container, err := readXMLEntry(f)
	if err != nil {
		return err
	}
	rootfile := container.FindElement("//rootfiles/rootfile")
	if rootfile == nil {
		return fmt.Errorf("no rootfile in %s", containerPath)
	}
	b.OPF = rootfile.SelectAttrValue("full-path", "")

	if f = b.find(b.OPF); f == nil {
		return fmt.Errorf("package document %q not found", b.OPF)
	}
	opf, err := readXMLEntry(f)
	if err != nil {
		return err
	}
	pkg := opf.Root()
	if pkg == nil {
		return fmt.Errorf("package document %q is empty", b.OPF)
	}

	if md := pkg.SelectElement("metadata"); md != nil {
		for _, el := range md.ChildElements() {
			if el.Tag == "title" {
				b.Title = strings.Join(strings.Fields(el.Text()), " ")
				break
			}
		}
	}

	dir := path.Dir(b.OPF)
	if mf := pkg.SelectElement("manifest"); mf != nil {
		for _, item := range mf.SelectElements("item") {
			href := item.SelectAttrValue("href", "")
			if href == "" {
				continue
			}
			if h, err := url.PathUnescape(href); err == nil {
				href = h
			}
			b.manifest[path.Join(dir, href)] = item.SelectAttrValue("media-type", "")
		}
	}
	return nil
}

func (b *Book) find(name string) *zip.File {
	for _, f := range b.zr.File {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func (b *Book) isStylesheet(name string) bool {
	if mt, ok := b.manifest[name]; ok {
		return mt == "text/css"
	}
	return strings.EqualFold(path.Ext(name), ".css")
}

// documentFormat decides if entry is content document and how to parse it.
func (b *Book) documentFormat(name string, data []byte) (common.InputFmt, bool) {
	switch b.manifest[name] {
	case "application/xhtml+xml":
		return common.InputFmtXhtml, true
	case "text/html":
		return common.InputFmtHtml, true
	case "":
	default:
		return 0, false
	}
	switch strings.ToLower(path.Ext(name)) {
	case ".xhtml", ".xht":
		return common.InputFmtXhtml, true
	case ".html", ".htm":
		head := bytes.TrimLeft(data, "\xef\xbb\xbf \t\r\n")
		if bytes.HasPrefix(head, []byte("<?xml")) || bytes.Contains(data, []byte(`xmlns="http://www.w3.org/1999/xhtml"`)) {
			return common.InputFmtXhtml, true
		}
		return common.InputFmtHtml, true
	}
	return 0, false
}

// linked resolves stylesheet references of the document, missing ones are
// ignored.
func (b *Book) linked(name string, hrefs []string) []*style.Stylesheet {
	var sheets []*style.Stylesheet
	for _, href := range hrefs {
		u, err := url.Parse(href)
		if err != nil || u.IsAbs() || u.Host != "" {
			b.log.Debug("Skipping external stylesheet", zap.String("entry", name), zap.String("href", href))
			continue
		}
		target := path.Join(path.Dir(name), u.Path)
		if sheet, ok := b.sheets[target]; ok {
			sheets = append(sheets, sheet)
		} else {
			b.log.Debug("Linked stylesheet not found", zap.String("entry", name), zap.String("href", href))
		}
	}
	return sheets
}

// Write writes publication to outputPath with emphasis applied to every
// content document. Document which cannot be processed is copied as is.
func (b *Book) Write(ctx context.Context, outputPath string, cfg *config.DocumentConfig) (s Summary, err error) {
	if err := ctx.Err(); err != nil {
		return s, err
	}

	tmp, err := os.CreateTemp("", misc.GetAppName()+"-*.epub")
	if err != nil {
		return s, fmt.Errorf("unable to create temporary file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	zw := zip.NewWriter(tmp)
	if err := b.writeEntries(ctx, zw, &s); err != nil {
		return s, multierr.Combine(err, zw.Close(), tmp.Close())
	}
	// make sure buffers are flushed before continuing
	if err := multierr.Append(zw.Close(), tmp.Close()); err != nil {
		return s, fmt.Errorf("unable to finalize output archive: %w", err)
	}

	if len(s.Failed) > 0 {
		sort.Sort(natural.StringSlice(s.Failed))
		b.log.Warn("Some documents were copied unchanged", zap.String("epub", b.SrcName), zap.Strings("documents", s.Failed))
	}
	b.log.Debug("Publication processed",
		zap.String("epub", b.SrcName),
		zap.Int("documents", s.Documents),
		zap.Int("words", s.Stats.Words),
		zap.Int("replaced", s.Stats.Replaced),
		zap.Duration("elapsed", s.Stats.Elapsed))

	if cfg.FixZip {
		return s, copyZipWithoutDataDescriptors(tmpName, outputPath)
	}
	return s, copyFile(tmpName, outputPath)
}

func (b *Book) writeEntries(ctx context.Context, zw *zip.Writer, s *Summary) error {
	if err := writeMimetype(zw); err != nil {
		return fmt.Errorf("unable to write mimetype: %w", err)
	}

	return archive.Walker{}.WalkReader(b.SrcName, b.zr, "", func(e archive.Entry) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if e.Name == "mimetype" {
			return nil
		}

		data, err := readEntry(e.File)
		if err != nil {
			return fmt.Errorf("unable to read %s: %w", e.Name, err)
		}
		format, ok := b.documentFormat(e.Name, data)
		if !ok {
			if err := zw.Copy(e.File); err != nil {
				return fmt.Errorf("unable to copy %s: %w", e.Name, err)
			}
			return nil
		}

		out, st, err := b.emphasize(ctx, e.Name, format, data)
		if err != nil {
			b.log.Warn("Unable to process document", zap.String("entry", e.Name), zap.Error(err))
			s.Failed = append(s.Failed, e.Name)
			if err := zw.Copy(e.File); err != nil {
				return fmt.Errorf("unable to copy %s: %w", e.Name, err)
			}
			return nil
		}
		s.add(st)

		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     e.Name,
			Method:   zip.Deflate,
			Modified: e.File.Modified,
		})
		if err != nil {
			return fmt.Errorf("unable to write %s: %w", e.Name, err)
		}
		if _, err := w.Write(out); err != nil {
			return fmt.Errorf("unable to write %s: %w", e.Name, err)
		}
		return nil
	})
}

func (b *Book) emphasize(ctx context.Context, name string, format common.InputFmt, data []byte) (out []byte, st engine.Stats, err error) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("Document processing ended with panic",
				zap.String("entry", name), zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
			err = fmt.Errorf("document panic: %v", r)
		}
	}()

	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	d, err := content.Prepare(ctx, bytes.NewReader(data), name, format, b.log)
	if err != nil {
		return nil, st, err
	}
	if st, err = d.Emphasize(ctx, b.linked(name, d.StylesheetLinks())...); err != nil {
		return nil, st, err
	}
	out, err = d.Bytes()
	return out, st, err
}

func readEntry(f *zip.File) ([]byte, error) {
	r, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

func readXMLEntry(f *zip.File) (*etree.Document, error) {
	data, err := readEntry(f)
	if err != nil {
		return nil, err
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", f.Name, err)
	}
	return doc, nil
}
