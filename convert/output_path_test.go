package convert

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"bionic/common"
	"bionic/config"
	"bionic/state"
)

func setupTestEnvForOutputPath(t *testing.T, noDirs bool, transliterate bool, template string) *state.LocalEnv {
	t.Helper()
	logger := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	cfg.Document.FileNameTransliterate = transliterate
	cfg.Document.OutputNameTemplate = template

	env := &state.LocalEnv{
		Log:    logger,
		Cfg:    cfg,
		NoDirs: noDirs,
	}
	return env
}

func testInfo(src string, format common.InputFmt) bookInfo {
	return bookInfo{
		SrcName:  src,
		Format:   format,
		Title:    "Test Book",
		Authors:  "John Doe",
		Language: "en",
	}
}

func TestBuildOutputPath_SimpleCase_NoDirs(t *testing.T) {
	env := setupTestEnvForOutputPath(t, true, false, "")

	result := buildOutputPath(testInfo("books/author/book.fb2", common.InputFmtFb2), "books/author/book.fb2", "/output", env)
	expected := filepath.Join("/output", "book.fb2")

	if result != expected {
		t.Errorf("buildOutputPath() = %q, want %q", result, expected)
	}
}

func TestBuildOutputPath_SimpleCase_WithDirs(t *testing.T) {
	env := setupTestEnvForOutputPath(t, false, false, "")

	result := buildOutputPath(testInfo("books/author/book.fb2", common.InputFmtFb2), "books/author/book.fb2", "/output", env)
	expected := filepath.Join("/output", "books", "author", "book.fb2")

	if result != expected {
		t.Errorf("buildOutputPath() = %q, want %q", result, expected)
	}
}

func TestBuildOutputPath_KeepsExtension(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		format common.InputFmt
		want   string
	}{
		{"FB2", "book.fb2", common.InputFmtFb2, "book.fb2"},
		{"XHTML", "book.xhtml", common.InputFmtXhtml, "book.xhtml"},
		{"HTM", "book.htm", common.InputFmtHtml, "book.htm"},
		{"EPUB", "book.epub", common.InputFmtEpub, "book.epub"},
		{"uppercase", "BOOK.HTML", common.InputFmtHtml, "BOOK.HTML"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnvForOutputPath(t, true, false, "")

			result := buildOutputPath(testInfo(tt.src, tt.format), tt.src, "/output", env)
			expected := filepath.Join("/output", tt.want)
			if result != expected {
				t.Errorf("buildOutputPath() = %q, want %q", result, expected)
			}
		})
	}
}

func TestBuildOutputPath_Transliterate(t *testing.T) {
	env := setupTestEnvForOutputPath(t, true, true, "")

	result := buildOutputPath(testInfo("Книга.fb2", common.InputFmtFb2), "Книга.fb2", "/output", env)
	expected := filepath.Join("/output", "kniga.fb2")

	if result != expected {
		t.Errorf("buildOutputPath() = %q, want %q", result, expected)
	}
}

func TestBuildOutputPath_Template(t *testing.T) {
	env := setupTestEnvForOutputPath(t, true, false, "{{ .Authors }}/{{ .Title }} ({{ .Format }})")

	result := buildOutputPath(testInfo("dir/book.fb2", common.InputFmtFb2), "dir/book.fb2", "/output", env)
	expected := filepath.Join("/output", "John Doe", "Test Book (fb2).fb2")

	if result != expected {
		t.Errorf("buildOutputPath() = %q, want %q", result, expected)
	}
}

func TestBuildOutputPath_TemplateFailure(t *testing.T) {
	env := setupTestEnvForOutputPath(t, true, false, "{{ .Unknown }}")

	result := buildOutputPath(testInfo("book.html", common.InputFmtHtml), "book.html", "/output", env)
	expected := filepath.Join("/output", "book.html")

	if result != expected {
		t.Errorf("buildOutputPath() = %q, want %q", result, expected)
	}
}

func TestMakeOutputDir_NoDirs(t *testing.T) {
	env := setupTestEnvForOutputPath(t, true, false, "")

	result := makeOutputDir("books/author/book.fb2", "/output", env)
	expected := "/output"

	if result != expected {
		t.Errorf("makeOutputDir() = %q, want %q", result, expected)
	}
}

func TestMakeOutputDir_WithDirs(t *testing.T) {
	env := setupTestEnvForOutputPath(t, false, false, "")

	result := makeOutputDir("books/author/book.fb2", "/output", env)
	expected := filepath.Join("/output", "books", "author")

	if result != expected {
		t.Errorf("makeOutputDir() = %q, want %q", result, expected)
	}
}

func TestMakeDefaultFileName(t *testing.T) {
	tests := []struct {
		name          string
		src           string
		transliterate bool
		expected      string
	}{
		{"simple", "book.fb2", false, "book.fb2"},
		{"with path", "path/to/book.fb2", false, "book.fb2"},
		{"transliterate", "Книга.fb2", true, "kniga.fb2"},
		{"only dots", "...fb2", false, "_bad_file_name_.fb2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnvForOutputPath(t, true, tt.transliterate, "")

			result := makeDefaultFileName(tt.src, ".fb2", env)
			if result != tt.expected {
				t.Errorf("makeDefaultFileName() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestSplitPathSegments(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected []string
	}{
		{"simple path", "author/book", []string{"author", "book"}},
		{"single segment", "book", []string{"book"}},
		{"with trailing slash", "author/book/", []string{"author", "book"}},
		{"three levels", "genre/author/book", []string{"genre", "author", "book"}},
		{"empty path", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := splitPathSegments(filepath.FromSlash(tt.path))
			if len(result) != len(tt.expected) {
				t.Fatalf("splitPathSegments() = %q, want %q", result, tt.expected)
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("splitPathSegments()[%d] = %q, want %q", i, result[i], tt.expected[i])
				}
			}
		})
	}
}

func TestCleanPathSegment(t *testing.T) {
	tests := []struct {
		name          string
		segment       string
		transliterate bool
		expected      string
	}{
		{"simple segment", "author", false, "author"},
		{"with spaces", "My Book", false, "My Book"},
		{"transliterate cyrillic", "Автор", true, "avtor"},
		{"special chars", "book:name", false, "bookname"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnvForOutputPath(t, true, tt.transliterate, "")

			result := cleanPathSegment(tt.segment, env)
			if result != tt.expected {
				t.Errorf("cleanPathSegment() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestMakeFullPath(t *testing.T) {
	tests := []struct {
		name          string
		expandedName  string
		transliterate bool
		ext           string
		expected      string
	}{
		{"simple template", "author/book", false, ".fb2", filepath.Join("/output", "author", "book.fb2")},
		{"single level", "book", false, ".html", filepath.Join("/output", "book.html")},
		{"with transliterate", "Автор/Книга", true, ".epub", filepath.Join("/output", "avtor", "kniga.epub")},
		{"empty", "", false, ".fb2", "/output"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnvForOutputPath(t, true, tt.transliterate, "")

			result := makeFullPath("/output", filepath.FromSlash(tt.expandedName), tt.ext, env)
			if result != tt.expected {
				t.Errorf("makeFullPath() = %q, want %q", result, tt.expected)
			}
		})
	}
}
