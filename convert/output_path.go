package convert

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"bionic/config"
	"bionic/state"
)

// buildOutputPath returns constructed output file path/name based on various
// input parameters. It uses either default naming scheme (source name) or
// user-defined template and takes into account whether to preserve source
// directory structure on the output. It cleans up path and if requested
// transliterates it. Output always keeps source extension.
func buildOutputPath(info bookInfo, src, dst string, env *state.LocalEnv) string {
	outDir := makeOutputDir(src, dst, env)
	ext := outputExt(info)
	defaultFile := makeDefaultFileName(src, ext, env)

	if env.Cfg.Document.OutputNameTemplate == "" {
		return filepath.Join(outDir, defaultFile)
	}

	expandedName := expandOutputNameTemplate(info, env)
	if expandedName == "" {
		// fallback to default name if template expansion failed
		return filepath.Join(outDir, defaultFile)
	}
	return makeFullPath(outDir, expandedName, ext, env)
}

func outputExt(info bookInfo) string {
	if ext := filepath.Ext(info.SrcName); ext != "" {
		return ext
	}
	return info.Format.Ext()
}

func makeOutputDir(src, dst string, env *state.LocalEnv) string {
	if env.NoDirs {
		return dst
	}
	return filepath.Join(dst, filepath.Dir(src))
}

func makeDefaultFileName(src, ext string, env *state.LocalEnv) string {
	baseName := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	return cleanPathSegment(baseName, env) + ext
}

func expandOutputNameTemplate(info bookInfo, env *state.LocalEnv) string {
	expandedName, err := expandTemplate(info, config.OutputNameTemplateFieldName, env.Cfg.Document.OutputNameTemplate)
	if err != nil {
		env.Log.Warn("Unable to prepare output filename", zap.Error(err))
		return ""
	}
	return filepath.FromSlash(strings.TrimSpace(expandedName))
}

// makeFullPath takes an expanded template name (which may contain path
// separators for subdirectories) and assembles it into a full output path,
// cleaning and transliterating segments as needed
func makeFullPath(outDir, expandedName, ext string, env *state.LocalEnv) string {
	segments := splitPathSegments(expandedName)
	if len(segments) == 0 {
		return outDir
	}

	parts := make([]string, 0, len(segments)+1)
	parts = append(parts, outDir)
	for _, segment := range segments[:len(segments)-1] {
		parts = append(parts, cleanPathSegment(segment, env))
	}
	parts = append(parts, cleanPathSegment(segments[len(segments)-1], env)+ext)
	return filepath.Join(parts...)
}

func splitPathSegments(path string) []string {
	path = strings.TrimSuffix(path, string(os.PathSeparator))
	segments := make([]string, 0, 8)

	for head, tail := filepath.Split(path); tail != ""; head, tail = filepath.Split(head) {
		segments = slices.Insert(segments, 0, tail)
		head = strings.TrimSuffix(head, string(os.PathSeparator))
		if head == "" {
			break
		}
	}
	return segments
}

func cleanPathSegment(segment string, env *state.LocalEnv) string {
	if env.Cfg.Document.FileNameTransliterate {
		segment = slug.Make(segment)
	}
	return config.CleanFileName(segment)
}
