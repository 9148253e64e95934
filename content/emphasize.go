package content

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"bionic/common"
	"bionic/config"
	"bionic/dom"
	"bionic/engine"
	"bionic/fb2"
	"bionic/state"
	"bionic/style"
)

type linePlan struct {
	line, leaf int
	text       string
	fragments  []engine.Fragment
}

// Stylesheets returns CSS embedded into the document: FB2 <stylesheet>
// elements or (X)HTML <style> elements in document order.
func (d *Document) Stylesheets(p *style.Parser) []*style.Stylesheet {
	var sheets []*style.Stylesheet
	add := func(n int, data string) {
		if strings.TrimSpace(data) == "" {
			return
		}
		sheets = append(sheets, p.Parse([]byte(data), fmt.Sprintf("%s#style%d", d.SrcName, n)))
	}

	switch {
	case d.Book != nil:
		for i, s := range d.Book.Stylesheets {
			if s.IsCSS() {
				add(i, s.Data)
			}
		}
	case d.XML != nil:
		for i, el := range d.XML.FindElements("//style") {
			if t := el.SelectAttrValue("type", "text/css"); strings.EqualFold(t, "text/css") {
				add(i, el.Text())
			}
		}
	case d.HTML != nil:
		i := 0
		walkHTML(d.HTML, func(n *html.Node) {
			if n.Type == html.ElementNode && n.DataAtom == atom.Style && n.FirstChild != nil {
				add(i, n.FirstChild.Data)
				i++
			}
		})
	}
	return sheets
}

// StylesheetLinks returns references of external stylesheets linked from
// (X)HTML documents.
func (d *Document) StylesheetLinks() []string {
	var links []string
	isSheet := func(rel string) bool {
		for _, r := range strings.Fields(rel) {
			if strings.EqualFold(r, "stylesheet") {
				return true
			}
		}
		return false
	}

	switch {
	case d.Book != nil:
	case d.XML != nil:
		for _, el := range d.XML.FindElements("//link") {
			if href := el.SelectAttrValue("href", ""); href != "" && isSheet(el.SelectAttrValue("rel", "")) {
				links = append(links, href)
			}
		}
	case d.HTML != nil:
		walkHTML(d.HTML, func(n *html.Node) {
			if n.Type != html.ElementNode || n.DataAtom != atom.Link {
				return
			}
			var rel, href string
			for _, a := range n.Attr {
				switch a.Key {
				case "rel":
					rel = a.Val
				case "href":
					href = a.Val
				}
			}
			if href != "" && isSheet(rel) {
				links = append(links, href)
			}
		})
	}
	return links
}

func walkHTML(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkHTML(c, fn)
	}
}

// Options builds adapter options from configuration.
func Options(format common.InputFmt, cfg *config.DocumentConfig, classifier dom.Classifier) dom.Options {
	o := dom.Options{
		Classifier: classifier,
		Exclude:    dom.NewExclusions(cfg.Exclude.Tags, cfg.Exclude.Classes, cfg.Exclude.IDs),
		Emphasis:   dom.Emphasis{Tag: cfg.Emphasis.HTMLTag, Class: cfg.Emphasis.Class},
		LineBreaks: cfg.LineBreaks.HTML,
	}
	if format == common.InputFmtFb2 {
		// HTML tag names mean different things in FictionBook (style is
		// inline named style there)
		o.Exclude = dom.NewExclusions(cfg.Exclude.FB2Tags, cfg.Exclude.Classes, cfg.Exclude.IDs).With(fb2.NonContentTags...)
		o.Emphasis.Tag = cfg.Emphasis.FB2Tag
		o.LineBreaks = append(slices.Clone(fb2.LineBreakTags), cfg.LineBreaks.FB2...)
	}
	return o
}

// Emphasize applies emphasis to the document text. Linked stylesheets are
// consulted first, then embedded ones and finally stylesheet from
// configuration, later rules win.
func (d *Document) Emphasize(ctx context.Context, linked ...*style.Stylesheet) (engine.Stats, error) {
	if err := ctx.Err(); err != nil {
		return engine.Stats{}, err
	}
	env := state.EnvFromContext(ctx)

	ua := style.HTMLDefaults
	if d.Format == common.InputFmtFb2 {
		ua = fb2.UserAgent()
	}
	classifier := style.NewClassifier(ua, d.log, linked...)

	parser := style.NewParser(d.log)
	for _, sheet := range d.Stylesheets(parser) {
		classifier.Add(sheet)
	}
	if len(env.ExtraStyle) > 0 {
		classifier.Add(parser.Parse(env.ExtraStyle, env.Cfg.Document.StylesheetPath))
	}

	var trace engine.TraceFunc
	if env.Rpt != nil {
		trace = func(line, leaf int, text string, fragments []engine.Fragment) {
			d.plans = append(d.plans, linePlan{line: line, leaf: leaf, text: text, fragments: fragments})
		}
	}

	opts := Options(d.Format, &env.Cfg.Document, classifier)

	var stats engine.Stats
	switch {
	case d.XML != nil:
		stats = dom.NewXML(opts).Run(d.XML.Root(), trace)
	case d.HTML != nil:
		stats = dom.NewHTML(opts).Run(d.HTML, trace)
	default:
		return stats, fmt.Errorf("document %s was not prepared", d.SrcName)
	}

	d.log.Debug("Emphasis applied",
		zap.String("document", d.SrcName),
		zap.Int("lines", stats.Lines),
		zap.Int("leaves", stats.Leaves),
		zap.Int("words", stats.Words),
		zap.Int("replaced", stats.Replaced),
		zap.Int("display rules", classifier.Rules()),
		zap.Duration("elapsed", stats.Elapsed))

	if d.WorkDir != "" {
		base := filepath.Base(d.SrcName)
		if err := os.WriteFile(filepath.Join(d.WorkDir, base+"_plan.txt"), []byte(d.String()), 0644); err != nil {
			return stats, fmt.Errorf("unable to write plan for debugging: %w", err)
		}
		if err := d.WriteFile(filepath.Join(d.WorkDir, base+"_result")); err != nil {
			return stats, fmt.Errorf("unable to write result for debugging: %w", err)
		}
	}
	return stats, nil
}
