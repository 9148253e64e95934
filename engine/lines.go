package engine

import "slices"

// BuildLines walks tree depth first starting at root and partitions non-empty
// text leaves into lines. Once container is excluded its whole subtree is
// skipped, excluded leaves simply never appear in any line.
func BuildLines[N any](root N, w Walker[N], exclude Filter[N]) []Line[N] {
	g := grouper[N]{w: w, exclude: exclude, lines: []Line[N]{nil}}
	g.walk(root, false)
	return slices.DeleteFunc(g.lines, func(l Line[N]) bool { return len(l) == 0 })
}

type grouper[N any] struct {
	w       Walker[N]
	exclude Filter[N]
	lines   []Line[N]
}

func (g *grouper[N]) add(leaf N) {
	last := len(g.lines) - 1
	g.lines[last] = append(g.lines[last], leaf)
}

// breakLine starts new line unless current one is still empty.
func (g *grouper[N]) breakLine() {
	if len(g.lines[len(g.lines)-1]) > 0 {
		g.lines = append(g.lines, nil)
	}
}

func (g *grouper[N]) walk(n N, excluded bool) {
	if !excluded && g.exclude != nil && g.exclude(n) {
		excluded = true
	}
	for _, child := range g.w.Children(n) {
		switch g.w.Kind(child) {
		case KindText:
			if !excluded && len(g.w.Text(child)) > 0 {
				g.add(child)
			}
		case KindContainer:
			if !g.w.LineBreak(child) && g.w.Inline(child) {
				g.walk(child, excluded)
				continue
			}
			g.breakLine()
			g.walk(child, excluded)
			// block ends the line after it as well, in a<div>b</div>c text c
			// does not join line of b
			g.breakLine()
		}
	}
}
