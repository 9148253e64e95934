package convert

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
	"golang.org/x/text/transform"

	"bionic/common"
)

type srcEncoding int

const (
	encUnknown srcEncoding = iota
	encUTF8
	encUTF16BigEndian
	encUTF16LittleEndian
	encUTF32BigEndian
	encUTF32LittleEndian
)

// how much of the file is looked at to decide what it is
const headerSize = 4096

var (
	typeFB2   = filetype.NewType("fb2", "application/x-fictionbook+xml")
	typeXHTML = filetype.NewType("xhtml", "application/xhtml+xml")
	typeHTML  = filetype.NewType("html", "text/html")
)

func init() {
	// matchers added later are consulted first
	filetype.AddMatcher(typeHTML, isHTML)
	filetype.AddMatcher(typeXHTML, isXHTML)
	filetype.AddMatcher(typeFB2, isFB2)
}

func isFB2(buf []byte) bool {
	return bytes.Contains(buf, []byte("<FictionBook"))
}

func isXHTML(buf []byte) bool {
	buf = bytes.TrimLeft(buf, " \t\r\n")
	if !bytes.HasPrefix(buf, []byte("<?xml")) && !bytes.Contains(buf, []byte(`xmlns="http://www.w3.org/1999/xhtml"`)) {
		return false
	}
	return bytes.Contains(bytes.ToLower(buf), []byte("<html"))
}

func isHTML(buf []byte) bool {
	lower := bytes.ToLower(buf)
	return bytes.Contains(lower, []byte("<!doctype html")) || bytes.Contains(lower, []byte("<html"))
}

func isUTF8BOM3(buf []byte) bool {
	return buf[0] == 0xEF && buf[1] == 0xBB && buf[2] == 0xBF
}

func isUTF16BigEndianBOM2(buf []byte) bool {
	return buf[0] == 0xFE && buf[1] == 0xFF
}

func isUTF16LittleEndianBOM2(buf []byte) bool {
	return buf[0] == 0xFF && buf[1] == 0xFE
}

func isUTF32BigEndianBOM4(buf []byte) bool {
	return buf[0] == 0x00 && buf[1] == 0x00 && buf[2] == 0xFE && buf[3] == 0xFF
}

func isUTF32LittleEndianBOM4(buf []byte) bool {
	return buf[0] == 0xFF && buf[1] == 0xFE && buf[2] == 0x00 && buf[3] == 0x00
}

// detectUTF looks for BOM. UTF-32 is checked first since its little endian
// BOM starts with UTF-16 little endian one.
func detectUTF(buf []byte) srcEncoding {
	if len(buf) >= 4 {
		if isUTF32BigEndianBOM4(buf) {
			return encUTF32BigEndian
		}
		if isUTF32LittleEndianBOM4(buf) {
			return encUTF32LittleEndian
		}
	}
	if len(buf) >= 3 && isUTF8BOM3(buf) {
		return encUTF8
	}
	if len(buf) >= 2 {
		if isUTF16BigEndianBOM2(buf) {
			return encUTF16BigEndian
		}
		if isUTF16LittleEndianBOM2(buf) {
			return encUTF16LittleEndian
		}
	}
	return encUnknown
}

// selectReader returns reader producing UTF-8 without BOM.
func selectReader(r io.Reader, enc srcEncoding) io.Reader {
	switch enc {
	case encUnknown:
		return r
	case encUTF8:
		return transform.NewReader(r, unicode.UTF8BOM.NewDecoder())
	case encUTF16BigEndian:
		return transform.NewReader(r, unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder())
	case encUTF16LittleEndian:
		return transform.NewReader(r, unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder())
	case encUTF32BigEndian:
		return transform.NewReader(r, utf32.UTF32(utf32.BigEndian, utf32.ExpectBOM).NewDecoder())
	case encUTF32LittleEndian:
		return transform.NewReader(r, utf32.UTF32(utf32.LittleEndian, utf32.ExpectBOM).NewDecoder())
	default:
		// this should never happen
		panic("unexpected encoding value")
	}
}

func readHeader(r io.Reader) ([]byte, error) {
	buf := make([]byte, headerSize)
	n, err := io.ReadFull(r, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return buf[:n], nil
}

func knownExt(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".fb2", ".xhtml", ".xht", ".html", ".htm", ".epub":
		return true
	}
	return false
}

// detectBook decides if header belongs to supported document by looking at
// name extension and content.
func detectBook(name string, header []byte) (common.InputFmt, srcEncoding, bool) {
	if !knownExt(name) || len(header) == 0 {
		return 0, encUnknown, false
	}

	// binary containers are recognized before text matchers get a chance to
	// look into stored entries
	switch {
	case filetype.IsType(header, matchers.TypeEpub):
		return common.InputFmtEpub, encUnknown, true
	case isZip(header):
		// some producers do not put mimetype first
		if strings.EqualFold(filepath.Ext(name), ".epub") {
			return common.InputFmtEpub, encUnknown, true
		}
		return 0, encUnknown, false
	}

	kind, err := filetype.Match(header)
	if err != nil {
		return 0, encUnknown, false
	}
	enc := detectUTF(header)
	if enc != encUnknown {
		decoded, err := io.ReadAll(selectReader(bytes.NewReader(header), enc))
		if err != nil {
			return 0, encUnknown, false
		}
		if kind, err = filetype.Match(decoded); err != nil {
			return 0, encUnknown, false
		}
	}

	switch kind {
	case typeFB2:
		return common.InputFmtFb2, enc, true
	case typeXHTML:
		return common.InputFmtXhtml, enc, true
	case typeHTML:
		return common.InputFmtHtml, enc, true
	}
	return 0, encUnknown, false
}

// isArchiveFile checks if file is zip archive which is not EPUB.
func isArchiveFile(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	if !strings.EqualFold(filepath.Ext(path), ".zip") {
		return false, nil
	}
	header, err := readHeader(f)
	if err != nil {
		return false, err
	}
	return isZip(header), nil
}

func isZip(header []byte) bool {
	return filetype.IsType(header, matchers.TypeZip)
}

func isBookFile(path string) (common.InputFmt, srcEncoding, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, encUnknown, false, err
	}
	defer f.Close()

	header, err := readHeader(f)
	if err != nil {
		return 0, encUnknown, false, err
	}
	format, enc, ok := detectBook(path, header)
	return format, enc, ok, nil
}

func isBookInArchive(f *zip.File, name string) (common.InputFmt, srcEncoding, bool, error) {
	r, err := f.Open()
	if err != nil {
		return 0, encUnknown, false, err
	}
	defer r.Close()

	header, err := readHeader(r)
	if err != nil {
		return 0, encUnknown, false, err
	}
	format, enc, ok := detectBook(name, header)
	return format, enc, ok, nil
}
