// Package engine implements bionic reading emphasis over an abstract document
// tree: text leaves are grouped into lines, words are found across leaf
// boundaries and the leading half of every word is emphasized.
package engine

import "strings"

// Separators are the only characters which delimit words. Everything else,
// including non-breaking and other unicode spaces, is part of a word.
const Separators = " \n\t"

// IndexSeparator returns the index of the first separator in text at or after
// offset from, or -1 if there is none. Offsets are in runes.
func IndexSeparator(text []rune, from int) int {
	for i := max(from, 0); i < len(text); i++ {
		if IsSeparator(text[i]) {
			return i
		}
	}
	return -1
}

// IsSeparator reports whether r is one of Separators.
func IsSeparator(r rune) bool {
	return strings.ContainsRune(Separators, r)
}
