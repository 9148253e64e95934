package style_test

import (
	"strings"
	"testing"

	"go.uber.org/zap"

	"bionic/style"
)

func TestParser_ElementSelector(t *testing.T) {
	p := style.NewParser(zap.NewNop())

	sheet := p.Parse([]byte(`p { display: inline; text-indent: 1em; }`), "test.css")

	if len(sheet.Rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(sheet.Rules))
	}
	rule := sheet.Rules[0]
	if rule.Selector.Element != "p" {
		t.Errorf("expected element 'p', got '%s'", rule.Selector.Element)
	}
	if len(rule.Selector.Classes) != 0 {
		t.Errorf("expected no class, got %v", rule.Selector.Classes)
	}
	val, ok := rule.GetProperty("display")
	if !ok {
		t.Fatal("expected display property")
	}
	if val.Keyword != "inline" {
		t.Errorf("expected keyword 'inline', got '%s'", val.Keyword)
	}
	if _, ok := rule.GetProperty("text-indent"); !ok {
		t.Error("expected text-indent property")
	}
}

func TestParser_GroupedSelectors(t *testing.T) {
	p := style.NewParser(zap.NewNop())

	sheet := p.Parse([]byte(`.note, span.x.y { display: block }`), "")

	if len(sheet.Rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(sheet.Rules))
	}
	if sel := sheet.Rules[0].Selector; sel.Element != "" || len(sel.Classes) != 1 || sel.Classes[0] != "note" {
		t.Errorf("unexpected first selector: %+v", sel)
	}
	if sel := sheet.Rules[1].Selector; sel.Element != "span" || len(sel.Classes) != 2 || sel.Classes[1] != "y" {
		t.Errorf("unexpected second selector: %+v", sel)
	}
	if sheet.Rules[0].Selector.Raw != ".note" {
		t.Errorf("Raw = %q", sheet.Rules[0].Selector.Raw)
	}
}

func TestParser_DescendantSelector(t *testing.T) {
	p := style.NewParser(zap.NewNop())

	sheet := p.Parse([]byte(`div.toc p.x { display: inline }`), "")

	if len(sheet.Rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(sheet.Rules))
	}
	sel := sheet.Rules[0].Selector
	if sel.Element != "p" || len(sel.Classes) != 1 || sel.Classes[0] != "x" {
		t.Errorf("unexpected main part: %+v", sel)
	}
	if sel.Raw != "div.toc p.x" {
		t.Errorf("Raw = %q", sel.Raw)
	}
	// ancestors are not known when classifying
	if !sel.Matches("p", []string{"x"}) || sel.Matches("div", []string{"toc"}) {
		t.Errorf("descendant selector must match on its rightmost part: %+v", sel)
	}
}

func TestParser_UnsupportedSelectors(t *testing.T) {
	p := style.NewParser(zap.NewNop())

	sheet := p.Parse([]byte(`
a > b { display: block }
a:hover { display: block }
input[type] { display: block }
#main { display: block }
em { display: block }
`), "")

	if len(sheet.Rules) != 1 || sheet.Rules[0].Selector.Element != "em" {
		t.Fatalf("expected only em rule, got %+v", sheet.Rules)
	}
	if len(sheet.Warnings) != 4 {
		t.Errorf("expected 4 warnings, got %v", sheet.Warnings)
	}
}

func TestParser_AtRules(t *testing.T) {
	p := style.NewParser(zap.NewNop())

	sheet := p.Parse([]byte(`
@charset "utf-8";
@font-face { font-family: "Serif"; src: url(a.ttf); }
@media screen { em { display: block } }
@keyframes spin { from { opacity: 0 } to { opacity: 1 } }
strong { display: inline-block }
`), "")

	if len(sheet.Rules) != 2 {
		t.Fatalf("expected 2 rules, got %+v", sheet.Rules)
	}
	if r := sheet.Rules[0]; r.Selector.Element != "em" || r.Media != "screen" {
		t.Errorf("unexpected media rule: %+v", r)
	}
	if r := sheet.Rules[1]; r.Selector.Element != "strong" || r.Media != "" {
		t.Errorf("unexpected top level rule: %+v", r)
	}
}

func TestParser_Important(t *testing.T) {
	p := style.NewParser(zap.NewNop())

	sheet := p.Parse([]byte(`em { display: block !important }`), "")

	if len(sheet.Rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(sheet.Rules))
	}
	v, _ := sheet.Rules[0].GetProperty("display")
	if v.Keyword != "block" || !v.Important {
		t.Errorf("expected important block, got %+v", v)
	}
	if !strings.Contains(v.Raw, "important") {
		t.Errorf("raw value lost: %q", v.Raw)
	}
}

func TestParser_ParseInline(t *testing.T) {
	p := style.NewParser(zap.NewNop())

	tests := []struct {
		style string
		want  string
	}{
		{"display:block", "block"},
		{"color: red; DISPLAY: Inline-Block", "inline-block"},
		{"display: inline flow-root", "inline flow-root"},
		{"color: red", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.style, func(t *testing.T) {
			got := p.ParseInline(tt.style)["display"].Keyword
			if got != tt.want {
				t.Errorf("ParseInline(%q) display = %q, want %q", tt.style, got, tt.want)
			}
		})
	}
}
