package content

import (
	"fmt"

	"golang.org/x/net/html"
)

// Named character references seen in the wild in FB2 and XHTML files which
// XML parser does not know by itself.
var entityNames = []string{
	"nbsp", "shy", "ensp", "emsp", "thinsp", "zwnj", "zwj", "lrm", "rlm",
	"ndash", "mdash", "hellip", "laquo", "raquo", "lsaquo", "rsaquo",
	"lsquo", "rsquo", "sbquo", "ldquo", "rdquo", "bdquo", "prime", "Prime",
	"bull", "middot", "dagger", "Dagger", "permil", "sect", "para", "deg",
	"copy", "reg", "trade", "euro", "pound", "yen", "cent", "curren",
	"iexcl", "iquest", "brvbar", "uml", "ordf", "ordm", "not", "macr",
	"acute", "micro", "cedil", "sup1", "sup2", "sup3", "frac14", "frac12",
	"frac34", "plusmn", "times", "divide", "minus", "larr", "rarr", "uarr",
	"darr", "harr", "infin", "ne", "le", "ge", "asymp", "szlig", "oelig",
	"OElig", "aelig", "AElig", "oslash", "Oslash", "aring", "Aring",
	"ccedil", "Ccedil", "ntilde", "Ntilde", "eth", "ETH", "thorn", "THORN",
}

// Accented latin letters are generated: &agrave; &Eacute; and so on.
var (
	entityLetters = "aeiouyAEIOUY"
	entityMarks   = []string{"grave", "acute", "circ", "uml", "tilde"}
)

// prepareHTMLNamedEntities builds entity table for XML reader using HTML
// parser knowledge of named character references.
func prepareHTMLNamedEntities() (map[string]string, error) {
	names := append([]string{}, entityNames...)
	for _, l := range entityLetters {
		for _, m := range entityMarks {
			names = append(names, string(l)+m)
		}
	}

	entities := make(map[string]string, len(names))
	for _, name := range names {
		ref := "&" + name + ";"
		val := html.UnescapeString(ref)
		if val == ref {
			// not every letter has every mark
			continue
		}
		entities[name] = val
	}
	if len(entities) == 0 {
		return nil, fmt.Errorf("no named entities could be resolved")
	}
	return entities, nil
}
