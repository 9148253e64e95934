package engine

import (
	"reflect"
	"testing"
)

func TestBuildLines(t *testing.T) {
	tests := []struct {
		name     string
		root     *node
		excluded []string
		want     [][]string
	}{
		{
			name: "inline elements join line",
			root: div(
				div(txt("A "), span(txt("long")), txt("word")),
				div(txt("next")),
			),
			want: [][]string{{"A ", "long", "word"}, {"next"}},
		},
		{
			name: "nested inline elements",
			root: div(txt("a"), span(span(txt("b")), txt("c")), txt("d")),
			want: [][]string{{"a", "b", "c", "d"}},
		},
		{
			name: "block element starts and ends line",
			root: div(txt("x"), div(txt("in")), txt("y")),
			want: [][]string{{"x"}, {"in"}, {"y"}},
		},
		{
			name: "hard line break is block even when inline",
			root: div(txt("a"), el("br", true), txt("b")),
			want: [][]string{{"a"}, {"b"}},
		},
		{
			name:     "excluded inline subtree is skipped",
			root:     div(txt("a"), el("script", true, txt("code")), txt("b")),
			excluded: []string{"script"},
			want:     [][]string{{"a", "b"}},
		},
		{
			name:     "exclusion is inherited",
			root:     div(txt("a"), el("aside", false, span(span(txt("deep"))), div(txt("more"))), txt("b")),
			excluded: []string{"aside"},
			want:     [][]string{{"a"}, {"b"}},
		},
		{
			name:     "excluded root",
			root:     el("aside", false, txt("a"), div(txt("b"))),
			excluded: []string{"aside"},
			want:     [][]string{},
		},
		{
			name: "empty lines are discarded",
			root: div(div(), txt(""), div(comment()), div(div())),
			want: [][]string{},
		},
		{
			name: "other nodes are invisible",
			root: div(txt("lo"), comment(), txt("ng")),
			want: [][]string{{"lo", "ng"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := tree{excluded: map[string]bool{}}
			for _, tag := range tt.excluded {
				tr.excluded[tag] = true
			}
			got := lineTexts(BuildLines(tt.root, tr, tr.exclude))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("BuildLines() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildLines_NilFilter(t *testing.T) {
	root := div(txt("a"), span(txt("b")))
	got := lineTexts(BuildLines(root, tree{}, nil))
	if want := [][]string{{"a", "b"}}; !reflect.DeepEqual(got, want) {
		t.Errorf("BuildLines() = %q, want %q", got, want)
	}
}
