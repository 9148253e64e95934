package dom

import (
	"slices"
	"testing"
)

// testClassifier treats handful of phrasing elements as inline.
var testClassifier = ClassifierFunc(func(tag string, _ []string, style string) bool {
	if style == "display:block" {
		return false
	}
	return slices.Contains([]string{"i", "b", "em", "span", "a", "br", "strong", "emphasis"}, tag)
})

func TestExclusions_Match(t *testing.T) {
	x := NewExclusions([]string{"SCRIPT", "style"}, []string{"cloze"}, []string{"skip-me"})
	tests := []struct {
		name    string
		tag     string
		classes []string
		id      string
		want    bool
	}{
		{"tag", "script", nil, "", true},
		{"tag case insensitive", "Style", nil, "", true},
		{"class", "div", []string{"card", "cloze"}, "", true},
		{"class is case sensitive", "div", []string{"Cloze"}, "", false},
		{"id", "p", nil, "skip-me", true},
		{"nothing", "p", []string{"text"}, "main", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := x.Match(tt.tag, tt.classes, tt.id); got != tt.want {
				t.Errorf("Match(%q, %q, %q) = %v, want %v", tt.tag, tt.classes, tt.id, got, tt.want)
			}
		})
	}
}

func TestExclusions_Nil(t *testing.T) {
	var x *Exclusions
	if x.Match("script", nil, "") {
		t.Error("nil filter matched")
	}
	if !x.With("script").Match("script", nil, "") {
		t.Error("With() on nil filter did not add tag")
	}
}

func TestExclusions_With(t *testing.T) {
	x := NewExclusions([]string{"script"}, []string{"cloze"}, []string{"a"})
	y := x.With("title")
	if !y.Match("title", nil, "") || !y.Match("script", nil, "") || !y.Match("p", []string{"cloze"}, "") || !y.Match("p", nil, "a") {
		t.Error("With() lost original rules")
	}
	if x.Match("title", nil, "") {
		t.Error("With() modified original filter")
	}
}

func TestClasses(t *testing.T) {
	if got := Classes("  a\tb  c "); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Errorf("Classes() = %q", got)
	}
	if got := Classes(""); len(got) != 0 {
		t.Errorf("Classes(\"\") = %q", got)
	}
}
