// Package query turns the typed text into the four result lanes: a web
// prefix shortcut, an arithmetic value, matching applications, and the
// plain web search fallback.
package query

import (
	"sort"
	"strings"
	"time"

	"github.com/nikbrunner/sprint/internal/config"
	"github.com/nikbrunner/sprint/internal/desktop"
	"github.com/nikbrunner/sprint/internal/logging"
)

// PrefixMatch is the result of exactly one web prefix trigger matching.
type PrefixMatch struct {
	Name  string
	Query string // remainder after the trigger, trimmed
	URL   string
}

// WebSearch is the always-present fallback.
type WebSearch struct {
	Query string
	URL   string
}

// ResultSet holds every lane for one query.
type ResultSet struct {
	Prefix *PrefixMatch
	Math   *float64
	Apps   []*desktop.App
	Search WebSearch
}

// Resolver resolves queries against a fixed config and app index.
// Resolve is pure: the same query always yields the same ResultSet.
type Resolver struct {
	prefixes       []config.WebPrefix
	searchTemplate string
	mode           config.MatchMode
	candidates     []candidate
}

// NewResolver prepares the app candidates once: apps that can never be
// shown on the current desktops are dropped and the rest are sorted by
// their localized name.
func NewResolver(cfg *config.Config, ix *desktop.Index) *Resolver {
	r := &Resolver{
		prefixes:       cfg.WebPrefixes,
		searchTemplate: cfg.SearchTemplate,
		mode:           cfg.MatchMode,
	}
	if ix == nil {
		return r
	}

	for _, app := range ix.Apps() {
		if !app.VisibleIn(ix.Desktops()) {
			continue
		}
		name := ix.Name(app)
		r.candidates = append(r.candidates, candidate{app: app, name: name, folded: fold(name)})
	}
	sort.SliceStable(r.candidates, func(i, j int) bool {
		return r.candidates[i].name < r.candidates[j].name
	})
	return r
}

// Resolve computes all four lanes for q.
func (r *Resolver) Resolve(q string) ResultSet {
	start := time.Now()

	rs := ResultSet{
		Prefix: r.prefix(q),
		Apps:   r.apps(q),
		Search: WebSearch{Query: q, URL: fillTemplate(r.searchTemplate, q)},
	}
	if v, ok := Eval(q); ok {
		rs.Math = &v
	}

	logging.Debug("resolved query", "query", q, "apps", len(rs.Apps), "took", time.Since(start))
	return rs
}

// prefix returns the match for the single trigger that starts q.
// Zero or several matching triggers yield nil.
func (r *Resolver) prefix(q string) *PrefixMatch {
	var match *PrefixMatch
	for _, p := range r.prefixes {
		rest, ok := strings.CutPrefix(q, p.Trigger)
		if !ok {
			continue
		}
		if match != nil {
			return nil
		}
		rest = strings.TrimSpace(rest)
		match = &PrefixMatch{Name: p.Name, Query: rest, URL: fillTemplate(p.URL, rest)}
	}
	return match
}

func (r *Resolver) apps(q string) []*desktop.App {
	if r.mode == config.MatchFuzzy {
		return fuzzyMatches(r.candidates, q)
	}
	return substringMatches(r.candidates, q)
}

// fillTemplate substitutes q into a URL template. Only spaces are encoded.
func fillTemplate(tmpl, q string) string {
	return strings.ReplaceAll(tmpl, config.QueryPlaceholder, strings.ReplaceAll(q, " ", "+"))
}
