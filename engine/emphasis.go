package engine

// EmphasisLength returns number of leading characters of a word of given
// length which should be emphasized.
func EmphasisLength(wordLength int) int {
	if wordLength <= 0 {
		return 0
	}
	return wordLength / 2
}
