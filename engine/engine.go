package engine

import "time"

// Stats describes single Run.
type Stats struct {
	Lines    int
	Leaves   int
	Words    int
	Replaced int
	Elapsed  time.Duration
}

// TraceFunc observes every flushed leaf plan, line and leaf are indexes.
type TraceFunc func(line, leaf int, text string, fragments []Fragment)

// Engine applies emphasis to the tree. It assumes exclusive access to the
// tree for the duration of Run.
type Engine[N any] struct {
	Tree    Tree[N]
	Exclude Filter[N]
	Trace   TraceFunc
}

// Run processes the whole subtree under root with default engine.
func Run[N any](root N, tree Tree[N], exclude Filter[N]) Stats {
	e := Engine[N]{Tree: tree, Exclude: exclude}
	return e.Run(root)
}

// Run groups leaves under root into lines, bolds every line replacing leaves
// as soon as their plans are complete and normalizes root afterwards.
func (e *Engine[N]) Run(root N) Stats {
	var st Stats
	start := time.Now()

	e.Tree.Normalize(root)

	lines := BuildLines(root, e.Tree, e.Exclude)
	st.Lines = len(lines)
	for i, line := range lines {
		texts := make([]string, len(line))
		for j, leaf := range line {
			texts[j] = e.Tree.Text(leaf)
		}
		st.Leaves += len(line)
		st.Words += Bold(texts, func(j int, fragments []Fragment) {
			if e.Trace != nil {
				e.Trace(i, j, texts[j], fragments)
			}
			if Replace(e.Tree, line[j], fragments) {
				st.Replaced++
			}
		})
	}

	e.Tree.Normalize(root)

	st.Elapsed = time.Since(start)
	return st
}

// Replace materializes fragments in front of the leaf and removes the leaf.
// Plan without emphasized fragments reproduces leaf text, so it is left alone.
// It reports if tree was changed.
func Replace[N any](s Splicer[N], leaf N, fragments []Fragment) bool {
	if !hasEmphasis(fragments) {
		return false
	}
	parent := s.Parent(leaf)
	for _, f := range fragments {
		var node N
		if f.Emphasized {
			node = s.NewEmphasis(f.Text)
		} else {
			node = s.NewText(f.Text)
		}
		s.InsertBefore(parent, node, leaf)
	}
	s.Remove(leaf)
	return true
}

func hasEmphasis(fragments []Fragment) bool {
	for _, f := range fragments {
		if f.Emphasized {
			return true
		}
	}
	return false
}
