package query

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
	"golang.org/x/text/cases"

	"github.com/nikbrunner/sprint/internal/desktop"
)

// candidate is a visible app with its display name resolved and folded once.
type candidate struct {
	app    *desktop.App
	name   string
	folded string
}

// candidateNames implements fuzzy.Source over the candidate slice.
type candidateNames []candidate

func (cn candidateNames) String(i int) string {
	return cn[i].folded
}

func (cn candidateNames) Len() int {
	return len(cn)
}

func fold(s string) string {
	return cases.Fold().String(s)
}

// substringMatches returns every candidate whose folded name contains the
// folded query, in candidate order.
func substringMatches(cands []candidate, q string) []*desktop.App {
	q = fold(q)
	var out []*desktop.App
	for _, c := range cands {
		if strings.Contains(c.folded, q) {
			out = append(out, c.app)
		}
	}
	return out
}

// fuzzyMatches returns candidates matching q as a subsequence. The fuzzy
// score only decides membership; results keep candidate order.
func fuzzyMatches(cands []candidate, q string) []*desktop.App {
	if q == "" {
		return substringMatches(cands, q)
	}

	matches := fuzzy.FindFrom(fold(q), candidateNames(cands))
	idx := make([]int, len(matches))
	for i, m := range matches {
		idx[i] = m.Index
	}
	sort.Ints(idx)

	out := make([]*desktop.App, len(idx))
	for i, j := range idx {
		out[i] = cands[j].app
	}
	return out
}
