// Package convert implements "apply" command: it finds supported documents
// and writes their emphasized copies.
package convert

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/ianaindex"

	"bionic/archive"
	"bionic/common"
	"bionic/content"
	"bionic/convert/epub"
	"bionic/state"
	"bionic/style"
)

func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("apply")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	src, err = filepath.Abs(src)
	if err != nil {
		return err
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Mailformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	if err := env.LoadExtraStyle(); err != nil {
		return err
	}

	env.NoDirs, env.Overwrite = cmd.Bool("nodirs"), cmd.Bool("overwrite")

	// Since zip "standard" does not define file name encoding we may need to
	// force archaic code page for old archives
	cp := cmd.String("force-zip-cp")
	if len(cp) > 0 {
		env.CodePage, err = ianaindex.IANA.Encoding(cp)
		if err != nil || env.CodePage == nil {
			log.Warn("Unknown character set specification. Ignoring...", zap.String("charset", cp), zap.Error(err))
			env.CodePage = nil
		} else {
			n, _ := ianaindex.IANA.Name(env.CodePage)
			log.Debug("Forcefully converting all non UTF-8 file names in archives", zap.String("charset", n))
		}
	}

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, src, dst, log)
}

// process handles the core logic independently of CLI framework. It
// determines the input type (directory, archive, or single file) and processes
// accordingly.
func process(ctx context.Context, src, dst string, log *zap.Logger) error {
	var head, tail string
	for head = src; len(head) != 0; head, tail = filepath.Split(head) {
		if err := ctx.Err(); err != nil {
			return err
		}

		head = strings.TrimSuffix(head, string(filepath.Separator))

		fi, err := os.Stat(head)
		if err != nil {
			// does not exists - probably path in archive
			continue
		}

		if fi.Mode().IsDir() {
			if len(tail) != 0 {
				// directory cannot have tail - it would be simple file
				return fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(src, head))
			}
			if err := processDir(ctx, head, dst, log); err != nil {
				return fmt.Errorf("unable to process directory: %w", err)
			}
			break
		}

		if !fi.Mode().IsRegular() {
			return fmt.Errorf("unexpected path mode for (%s) => (%s)", head, strings.TrimPrefix(src, head))
		}

		isArchive, err := isArchiveFile(head)
		if err != nil {
			return fmt.Errorf("unable to check archive type: %w", err)
		}
		if isArchive {
			// we need to look inside to see if path makes sense
			tail = strings.TrimPrefix(strings.TrimPrefix(src, head), string(filepath.Separator))
			if err := processArchive(ctx, head, filepath.ToSlash(tail), "", dst, log); err != nil {
				return fmt.Errorf("unable to process archive: %w", err)
			}
			break
		}

		format, enc, book, err := isBookFile(head)
		if err != nil {
			return fmt.Errorf("unable to check file type: %w", err)
		}
		if book && len(tail) == 0 {
			// we have book, it cannot have tail
			if file, err := os.Open(head); err != nil {
				log.Error("Unable to process file", zap.String("file", head), zap.Error(err))
			} else {
				defer file.Close()
				if err := processBook(ctx, selectReader(file, enc), format, filepath.Base(head), filepath.Dir(head), dst, log); err != nil {
					log.Error("Unable to process file", zap.String("file", head), zap.Error(err))
				}
			}
			break
		}
		return fmt.Errorf("input was not recognized as supported document (%s)", head)
	}
	if len(head) == 0 {
		return fmt.Errorf("input source was not found (%s)", src)
	}
	return nil
}

// processDir walks directory tree finding documents and processes them.
func processDir(ctx context.Context, dir, dst string, log *zap.Logger) (err error) {
	count := 0
	defer func() {
		if err == nil && count == 0 {
			log.Debug("Nothing to process", zap.String("dir", dir))
		}
	}()

	err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err != nil {
			log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		isArchive, err := isArchiveFile(path)
		if err != nil {
			log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			return nil
		}
		if isArchive {
			count++
			if err := processArchive(ctx, path, "", filepath.Dir(strings.TrimPrefix(path, dir)), dst, log); err != nil {
				log.Error("Unable to process archive", zap.String("file", path), zap.Error(err))
			}
			return nil
		}

		format, enc, book, err := isBookFile(path)
		if err != nil {
			log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			return nil
		}
		if !book {
			log.Debug("Skipping file, not recognized as document or archive", zap.String("file", path))
			return nil
		}

		count++

		file, err := os.Open(path)
		if err != nil {
			log.Error("Unable to process file", zap.String("file", path), zap.Error(err))
			return nil
		}
		defer file.Close()

		src := strings.TrimPrefix(strings.TrimPrefix(path, dir), string(filepath.Separator))
		if err := processBook(ctx, selectReader(file, enc), format, src, filepath.Dir(path), dst, log); err != nil {
			log.Error("Unable to process file", zap.String("file", path), zap.Error(err))
		}
		return nil
	})
	return err
}

// processArchive walks all files inside archive, finds documents under
// "pathIn" and processes them.
func processArchive(ctx context.Context, path, pathIn, pathOut, dst string, log *zap.Logger) (err error) {
	count := 0
	defer func() {
		if err == nil && count == 0 {
			log.Debug("Nothing to process", zap.String("archive", path))
		}
	}()

	walker := archive.Walker{CodePage: state.EnvFromContext(ctx).CodePage}
	err = walker.Walk(path, pathIn, func(e archive.Entry) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		format, enc, book, err := isBookInArchive(e.File, e.Name)
		if err != nil {
			log.Warn("Skipping file in archive",
				zap.String("archive", e.Archive), zap.String("path", e.Name), zap.Error(err))
			return nil
		}
		if !book {
			log.Debug("Skipping file, not recognized as document", zap.String("archive", e.Archive), zap.String("file", e.Name))
			return nil
		}

		count++

		r, err := e.File.Open()
		if err != nil {
			log.Error("Unable to process file in archive",
				zap.String("archive", e.Archive), zap.String("file", e.Name), zap.Error(err))
			return nil
		}
		defer r.Close()

		if err := processBook(ctx, selectReader(r, enc), format, filepath.Join(pathOut, filepath.FromSlash(e.Name)), "", dst, log); err != nil {
			log.Error("Unable to process file in archive",
				zap.String("archive", e.Archive), zap.String("file", e.Name), zap.Error(err))
		}
		return nil
	})
	return err
}

// processBook processes single document. "src" is part of the source path
// (always including file name) relative to the original path. When actual file
// was specified it will be just base file name without a path. When looking
// inside archive or directory it will be relative path inside archive or
// directory (including base file name). "srcDir" is directory of the source
// file on disk, it is empty for archive entries. "dst" is the destination
// directory where the result should be written.
func processBook(ctx context.Context, r io.Reader, format common.InputFmt, src, srcDir, dst string, log *zap.Logger) (rerr error) {
	env := state.EnvFromContext(ctx)

	var refID, outputName string

	log.Info("Processing document", zap.String("from", src), zap.Stringer("format", format))
	defer func(start time.Time) {
		// engine panics on broken invariants, when multiple documents are
		// being processed we do not want to stop.
		if r := recover(); r != nil {
			log.Error("Processing ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("processing panic: %v", r)
		} else if rerr == nil {
			log.Info("Document completed", zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName), zap.String("ref_id", refID))
		}
	}(time.Now())

	if format == common.InputFmtEpub {
		data, err := io.ReadAll(r)
		if err != nil {
			return fmt.Errorf("unable to read epub source (%s): %w", src, err)
		}
		zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return fmt.Errorf("unable to open epub source (%s): %w", src, err)
		}
		b, err := epub.Open(ctx, zr, src, log.Named("epub"))
		if err != nil {
			return fmt.Errorf("unable to open epub source (%s): %w", src, err)
		}
		refID = b.ID

		outputName = buildOutputPath(bookInfo{SrcName: src, Format: format, Title: b.Title}, src, dst, env)
		if err := prepareOutput(outputName, srcDir, src, env, log); err != nil {
			return err
		}
		s, err := b.Write(ctx, outputName, &env.Cfg.Document)
		if err != nil {
			return fmt.Errorf("unable to write epub: %w", err)
		}
		log.Info("Emphasis applied",
			zap.Int("documents", s.Documents), zap.Int("failed", len(s.Failed)),
			zap.Int("words", s.Stats.Words), zap.Int("replaced", s.Stats.Replaced))
	} else {
		d, err := content.Prepare(ctx, r, src, format, log)
		if err != nil {
			return fmt.Errorf("unable to parse source (%s): %w", src, err)
		}
		refID = d.ID

		info := bookInfo{SrcName: src, Format: format, Title: d.Title}
		if d.Book != nil {
			info.Authors = d.Book.AuthorsString()
			info.Language = d.Book.Description.Lang.String()
		}
		outputName = buildOutputPath(info, src, dst, env)
		if err := prepareOutput(outputName, srcDir, src, env, log); err != nil {
			return err
		}

		st, err := d.Emphasize(ctx, linkedStylesheets(d, srcDir, log)...)
		if err != nil {
			return fmt.Errorf("unable to apply emphasis (%s): %w", src, err)
		}
		log.Info("Emphasis applied",
			zap.Int("lines", st.Lines), zap.Int("words", st.Words), zap.Int("replaced", st.Replaced), zap.Duration("elapsed", st.Elapsed))

		if err := d.WriteFile(outputName); err != nil {
			return fmt.Errorf("unable to write result: %w", err)
		}
	}

	// Store result for debugging
	if env.Rpt != nil {
		env.Rpt.Store(fmt.Sprintf("result-%s%s", refID, filepath.Ext(outputName)), outputName)
	}
	return nil
}

// prepareOutput makes sure result could be written to outputName.
func prepareOutput(outputName, srcDir, src string, env *state.LocalEnv, log *zap.Logger) error {
	if srcDir != "" && filepath.Clean(outputName) == filepath.Join(srcDir, filepath.Base(src)) {
		return fmt.Errorf("output file would replace source: %s", outputName)
	}

	if _, err := os.Stat(outputName); err == nil {
		if !env.Overwrite {
			return fmt.Errorf("output file already exists: %s", outputName)
		}
		log.Warn("Overwriting existing file", zap.String("file", outputName))
		if err = os.Remove(outputName); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	} else if err := os.MkdirAll(filepath.Dir(outputName), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}
	return nil
}

// linkedStylesheets reads local stylesheets referenced by document on disk.
func linkedStylesheets(d *content.Document, srcDir string, log *zap.Logger) []*style.Stylesheet {
	if srcDir == "" {
		return nil
	}
	var (
		sheets []*style.Stylesheet
		parser *style.Parser
	)
	for _, href := range d.StylesheetLinks() {
		u, err := url.Parse(href)
		if err != nil || u.IsAbs() || u.Host != "" || u.Path == "" {
			log.Debug("Skipping external stylesheet", zap.String("href", href))
			continue
		}
		name := filepath.Join(srcDir, filepath.FromSlash(u.Path))
		data, err := os.ReadFile(name)
		if err != nil {
			log.Warn("Unable to read linked stylesheet", zap.String("href", href), zap.Error(err))
			continue
		}
		if parser == nil {
			parser = style.NewParser(log.Named("style"))
		}
		sheets = append(sheets, parser.Parse(data, name))
	}
	return sheets
}
