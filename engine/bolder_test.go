package engine

import (
	"math/rand/v2"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

func e(s string) Fragment { return Fragment{Text: s, Emphasized: true} }
func p(s string) Fragment { return Fragment{Text: s} }

func TestPlan(t *testing.T) {
	tests := []struct {
		name   string
		leaves []string
		want   [][]Fragment
	}{
		{
			name:   "separator stays with first word",
			leaves: []string{"ab cd"},
			want:   [][]Fragment{{e("a"), p("b "), e("c"), p("d")}},
		},
		{
			name:   "word split between two leaves",
			leaves: []string{"long", "word"},
			want:   [][]Fragment{{e("long")}, {p("word")}},
		},
		{
			name:   "word split between three leaves",
			leaves: []string{"A", "long", "word"},
			want:   [][]Fragment{{e("A")}, {e("lon"), p("g")}, {p("word")}},
		},
		{
			name:   "word continues into leaf with separator",
			leaves: []string{"hel", "lo world"},
			want:   [][]Fragment{{e("he"), p("l")}, {p("lo "), e("wo"), p("rld")}},
		},
		{
			name:   "leaf ends with separator",
			leaves: []string{"foo ", "bar"},
			want:   [][]Fragment{{e("f"), p("oo ")}, {e("b"), p("ar")}},
		},
		{
			name:   "next leaf starts with separator",
			leaves: []string{"ab", " cd"},
			want:   [][]Fragment{{e("a"), p("b")}, {p(" "), e("c"), p("d")}},
		},
		{
			name:   "single letter words",
			leaves: []string{"a b"},
			want:   [][]Fragment{{p("a "), p("b")}},
		},
		{
			name:   "adjacent separators",
			leaves: []string{"ab  cd"},
			want:   [][]Fragment{{e("a"), p("b "), p(" "), e("c"), p("d")}},
		},
		{
			name:   "leading and trailing separators",
			leaves: []string{" ab "},
			want:   [][]Fragment{{p(" "), e("a"), p("b ")}},
		},
		{
			name:   "separator only",
			leaves: []string{"\n"},
			want:   [][]Fragment{{p("\n")}},
		},
		{
			name:   "tab and newline",
			leaves: []string{"one\ttwo\nfour"},
			want:   [][]Fragment{{e("o"), p("ne\t"), e("t"), p("wo\n"), e("fo"), p("ur")}},
		},
		{
			name:   "non-breaking space is part of word",
			leaves: []string{"ab\u00a0cd"},
			want:   [][]Fragment{{e("ab"), p("\u00a0cd")}},
		},
		{
			name:   "runes are counted not bytes",
			leaves: []string{"привет мир"},
			want:   [][]Fragment{{e("при"), p("вет "), e("м"), p("ир")}},
		},
		{
			name:   "whitespace leaf between words",
			leaves: []string{"ab", " ", "cd"},
			want:   [][]Fragment{{e("a"), p("b")}, {p(" ")}, {e("c"), p("d")}},
		},
		{
			name:   "emphasis exhausts first leaf exactly",
			leaves: []string{"ab", "cd ef"},
			want:   [][]Fragment{{e("ab")}, {p("cd "), e("e"), p("f")}},
		},
		{
			name:   "empty leaf inside word",
			leaves: []string{"ab", "", "cd"},
			want:   [][]Fragment{{e("ab")}, nil, {p("cd")}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Plan(tt.leaves)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Plan(%q)\n got %v\nwant %v", tt.leaves, got, tt.want)
			}
		})
	}
}

func TestPlan_Empty(t *testing.T) {
	calls := 0
	words := Bold(nil, func(int, []Fragment) { calls++ })
	if calls != 0 || words != 0 {
		t.Errorf("Bold(nil) made %d flush calls and counted %d words", calls, words)
	}
}

func TestBold_WordCount(t *testing.T) {
	tests := []struct {
		leaves []string
		want   int
	}{
		{[]string{"ab cd"}, 2},
		{[]string{"long", "word"}, 1},
		{[]string{"  a  "}, 1},
		{[]string{" ", "\t"}, 0},
		{[]string{"hel", "lo world"}, 2},
	}
	for _, tt := range tests {
		if got := Bold(tt.leaves, func(int, []Fragment) {}); got != tt.want {
			t.Errorf("Bold(%q) words = %d, want %d", tt.leaves, got, tt.want)
		}
	}
}

// randomLine builds line of leaves from a small alphabet so words, separators
// and multibyte characters are mixed in every possible way.
func randomLine(r *rand.Rand) []string {
	alphabet := []rune("abcdeяж\u00a0 \n\t")
	leaves := make([]string, 1+r.IntN(6))
	for i := range leaves {
		var sb strings.Builder
		for range 1 + r.IntN(8) {
			sb.WriteRune(alphabet[r.IntN(len(alphabet))])
		}
		leaves[i] = sb.String()
	}
	return leaves
}

func TestBold_Properties(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for range 2000 {
		leaves := randomLine(r)

		next := 0
		var emphasized []bool
		Bold(leaves, func(leaf int, fragments []Fragment) {
			if leaf != next {
				t.Fatalf("leaves %q: flushed leaf %d, expected %d", leaves, leaf, next)
			}
			next++

			var sb strings.Builder
			for _, f := range fragments {
				if len(f.Text) == 0 {
					t.Fatalf("leaves %q: zero length fragment in leaf %d", leaves, leaf)
				}
				sb.WriteString(f.Text)
				for range utf8.RuneCountInString(f.Text) {
					emphasized = append(emphasized, f.Emphasized)
				}
			}
			if sb.String() != leaves[leaf] {
				t.Fatalf("leaves %q: leaf %d reconstructed as %q", leaves, leaf, sb.String())
			}
		})
		if next != len(leaves) {
			t.Fatalf("leaves %q: %d leaves flushed", leaves, next)
		}

		// every word has exactly floor(L/2) leading characters emphasized
		line := []rune(strings.Join(leaves, ""))
		for start := 0; start < len(line); {
			if IsSeparator(line[start]) {
				if emphasized[start] {
					t.Fatalf("leaves %q: separator at %d emphasized", leaves, start)
				}
				start++
				continue
			}
			end := start
			for end < len(line) && !IsSeparator(line[end]) {
				end++
			}
			n := EmphasisLength(end - start)
			for i := start; i < end; i++ {
				if emphasized[i] != (i-start < n) {
					t.Fatalf("leaves %q: word %q character %d emphasis is %v", leaves, string(line[start:end]), i-start, emphasized[i])
				}
			}
			start = end
		}
	}
}
