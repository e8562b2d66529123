package viewer

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

// TablePolicy decides how extracted table HTML reaches the page.
type TablePolicy string

const (
	// PolicyTrusted injects fragments verbatim; the manifest is a trusted source.
	PolicyTrusted TablePolicy = "trusted"
	// PolicySanitize passes fragments through an allowlist before injection.
	PolicySanitize TablePolicy = "sanitize"
)

func ParseTablePolicy(s string) (TablePolicy, error) {
	switch TablePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyTrusted:
		return PolicyTrusted, nil
	case PolicySanitize:
		return PolicySanitize, nil
	default:
		return "", fmt.Errorf("unknown table policy %q", s)
	}
}

// tableAllowlist is safe for concurrent use once built.
var tableAllowlist = newTableAllowlist()

func newTableAllowlist() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowTables()
	p.AllowAttrs("colspan", "rowspan").Matching(bluemonday.Integer).OnElements("td", "th")
	p.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("table", "tr", "td", "th")
	return p
}

// Sanitize keeps only allowlisted table and text markup. Scripts, frames,
// event handlers and URLs with non-web schemes are dropped.
func Sanitize(fragment string) string {
	return strings.TrimSpace(tableAllowlist.Sanitize(fragment))
}

// CountRows reports the number of table rows in a fragment.
func CountRows(fragment string) int {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return 0
	}
	return doc.Find("tr").Length()
}
