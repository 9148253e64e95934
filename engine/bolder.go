package engine

import "fmt"

// Fragment is a piece of leaf text in replacement plan. Concatenated fragments
// of a leaf always reproduce its original text.
type Fragment struct {
	Text       string
	Emphasized bool
}

func (f Fragment) String() string {
	if f.Emphasized {
		return fmt.Sprintf("*%q", f.Text)
	}
	return fmt.Sprintf("%q", f.Text)
}

// FlushFunc receives final replacement plan for a leaf of the line. It is
// called exactly once per leaf, in ascending leaf order.
type FlushFunc func(leaf int, fragments []Fragment)

// cursor points to the next unconsumed character of the line. Offsets are in
// runes.
type cursor struct {
	leaf, offset int
}

// bolder is the per line state machine. Leaf stays open (its fragments are
// kept in pending) until every character of it is accounted for, so word
// which begins in one leaf can continue adding fragments to it.
type bolder struct {
	leaves  [][]rune
	flush   FlushFunc
	at      cursor
	pending []Fragment
	words   int
}

// Bold computes emphasis for a single line of leaf texts and reports plans
// via flush. It returns number of non-empty words seen.
func Bold(texts []string, flush FlushFunc) int {
	b := &bolder{leaves: make([][]rune, len(texts)), flush: flush}
	for i, t := range texts {
		b.leaves[i] = []rune(t)
	}
	b.run()
	return b.words
}

// Plan is Bold which collects plans for all leaves.
func Plan(texts []string) [][]Fragment {
	plan := make([][]Fragment, len(texts))
	Bold(texts, func(leaf int, fragments []Fragment) {
		plan[leaf] = fragments
	})
	return plan
}

func (b *bolder) finished() bool {
	return b.at.leaf == len(b.leaves)
}

func (b *bolder) run() {
	for !b.finished() {
		b.withinLeaf()
		b.acrossLeaves()
	}
	if len(b.pending) > 0 {
		panic(fmt.Sprintf("engine: %d fragments left after the last leaf", len(b.pending)))
	}
}

func (b *bolder) emit(text []rune, emphasized bool) {
	if len(text) == 0 {
		return
	}
	b.pending = append(b.pending, Fragment{Text: string(text), Emphasized: emphasized})
}

// closeLeaf flushes current leaf and moves cursor to the beginning of the
// next one.
func (b *bolder) closeLeaf() {
	if b.finished() {
		panic("engine: flush past the end of line")
	}
	b.flush(b.at.leaf, b.pending)
	b.pending = nil
	b.at = cursor{leaf: b.at.leaf + 1}
}

// withinLeaf handles all words which are completely inside current leaf.
// Separator goes to the plain part of the word it ends.
func (b *bolder) withinLeaf() {
	text := b.leaves[b.at.leaf]
	for sep := IndexSeparator(text, b.at.offset); sep >= 0; sep = IndexSeparator(text, b.at.offset) {
		word := text[b.at.offset:sep]
		n := EmphasisLength(len(word))
		if len(word) > 0 {
			b.words++
		}
		b.emit(word[:n], true)
		b.emit(text[b.at.offset+n:sep+1], false)
		b.at.offset = sep + 1
	}
}

// acrossLeaves handles the word starting at cursor, which may span any number
// of following leaves. Afterwards cursor is either past the end of the line or
// inside still open leaf which holds the separator ending the word.
func (b *bolder) acrossLeaves() {
	end, length := b.wordEnd()
	if length > 0 {
		b.words++
	}

	for remaining := EmphasisLength(length); remaining > 0; {
		text := b.leaves[b.at.leaf]
		take := min(remaining, len(text)-b.at.offset)
		b.emit(text[b.at.offset:b.at.offset+take], true)
		remaining -= take
		b.at.offset += take
		if b.at.offset < len(text) {
			// emphasis ended in the middle of the leaf
			break
		}
		b.closeLeaf()
	}

	for b.at.leaf < end.leaf {
		text := b.leaves[b.at.leaf]
		b.emit(text[b.at.offset:], false)
		b.closeLeaf()
	}

	if end.leaf < len(b.leaves) && b.at.offset < end.offset {
		text := b.leaves[b.at.leaf]
		b.emit(text[b.at.offset:end.offset+1], false)
		b.at.offset = end.offset + 1
	}
}

// wordEnd finds position of the separator ending word which starts at cursor
// and word length in runes. When there is no separator till the end of line
// returned leaf index equals number of leaves.
func (b *bolder) wordEnd() (cursor, int) {
	end, length := b.at, 0
	for end.leaf < len(b.leaves) {
		text := b.leaves[end.leaf]
		if sep := IndexSeparator(text, end.offset); sep >= 0 {
			length += sep - end.offset
			end.offset = sep
			return end, length
		}
		length += len(text) - end.offset
		end = cursor{leaf: end.leaf + 1}
	}
	return end, length
}
