// Package archive builds Walk abstraction on top of "archive/zip".
package archive

import (
	"archive/zip"
	"fmt"
	"path"
	"strings"

	"golang.org/x/text/encoding"
)

// Entry is a file found in archive.
type Entry struct {
	// Archive is the name of archive passed to Walk.
	Archive string
	// Name is file path inside of archive, decoded when archive does not
	// mark it as UTF-8 and code page is forced.
	Name string
	File *zip.File
}

// WalkFunc is the type of the function called for each file in archive
// visited by Walk. If an error is returned, processing stops.
type WalkFunc func(e Entry) error

// Walker visits archive entries.
type Walker struct {
	// CodePage is used to decode file names not marked as UTF-8. Zip
	// "standard" does not define file name encoding and old archives often
	// carry names in archaic code pages.
	CodePage encoding.Encoding
}

// Walk walks the all files in the archive with names starting with pattern,
// calling walkFn for each item. Archives with path traversal components ("..")
// or absolute paths are rejected to prevent Zip Slip attacks.
func (w Walker) Walk(archive, pattern string, walkFn WalkFunc) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	return w.WalkReader(archive, &r.Reader, pattern, walkFn)
}

// WalkReader is Walk for already opened (possibly in memory) archive.
func (w Walker) WalkReader(archive string, r *zip.Reader, pattern string, walkFn WalkFunc) error {
	for _, f := range r.File {
		name := w.Name(f)
		if !isSafePath(name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", name)
		}
		if !f.FileInfo().IsDir() && strings.HasPrefix(name, pattern) {
			if err := walkFn(Entry{Archive: archive, Name: name, File: f}); err != nil {
				return err
			}
		}
	}
	return nil
}

// Name returns file name of archive entry decoding it if necessary. When
// decoding fails original name is returned.
func (w Walker) Name(f *zip.File) string {
	name := f.FileHeader.Name
	if w.CodePage == nil || !f.FileHeader.NonUTF8 {
		return name
	}
	if n, err := w.CodePage.NewDecoder().String(name); err == nil {
		return n
	}
	return name
}

// Walk walks archive without name decoding.
func Walk(archive, pattern string, walkFn WalkFunc) error {
	return Walker{}.Walk(archive, pattern, walkFn)
}

// isSafePath returns false for paths that could escape the extraction
// directory: absolute paths and those containing ".." components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) {
		return false
	}
	for part := range strings.SplitSeq(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
