package content

import (
	"fmt"
	"sort"

	"github.com/maruel/natural"

	"bionic/utils/debug"
)

// String returns a readable tree of the document with every line plan
// recorded while emphasis was applied. It exists solely for manual
// inspection during debugging.
func (d *Document) String() string {
	if d == nil {
		return "<nil Document>"
	}

	tw := debug.NewTreeWriter()
	tw.Line(0, "Document[%q] format[%s] id[%s]", d.SrcName, d.Format, d.ID)
	tw.TextBlock(1, "Title", d.Title)

	if d.Book != nil {
		tw.TextBlock(1, "Authors", d.Book.AuthorsString())
		tw.Line(1, "Lang[%s] bodies[%d] binaries[%d] stylesheets[%d]",
			d.Book.Description.Lang, d.Book.Bodies, d.Book.Binaries, len(d.Book.Stylesheets))
	}

	if links := d.StylesheetLinks(); len(links) > 0 {
		sort.Sort(natural.StringSlice(links))
		tw.List(1, "Linked stylesheets", links)
	}

	tw.Line(1, "Leaf plans: %d", len(d.plans))
	line := -1
	for _, p := range d.plans {
		if p.line != line {
			line = p.line
			tw.Line(1, "Line[%d]", line)
		}
		tw.TextBlock(2, fmt.Sprintf("Leaf[%d]", p.leaf), p.text)
		debug.Listf(tw, 3, "Fragments", p.fragments)
	}
	return tw.String()
}
