package query_test

import (
	"strings"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/nikbrunner/sprint/internal/config"
	"github.com/nikbrunner/sprint/internal/desktop"
	"github.com/nikbrunner/sprint/internal/query"
)

func newResolver(t *testing.T, apps []*desktop.App, desktops []string) *query.Resolver {
	t.Helper()
	return query.NewResolver(config.Default(), desktop.NewIndex(apps, nil, desktops))
}

func names(apps []*desktop.App) []string {
	out := []string{}
	for _, a := range apps {
		out = append(out, a.Name)
	}
	return out
}

func TestResolve_Math(t *testing.T) {
	r := newResolver(t, nil, nil)

	rs := r.Resolve("2+2*2")
	assert.Assert(t, rs.Math != nil)
	assert.Equal(t, *rs.Math, 6.0)

	assert.Assert(t, r.Resolve("not math").Math == nil)
}

func TestResolve_WikiPrefix(t *testing.T) {
	r := newResolver(t, nil, nil)

	rs := r.Resolve(">wiki cats")
	assert.Assert(t, rs.Prefix != nil)
	assert.Equal(t, rs.Prefix.Name, "Wikipedia")
	assert.Equal(t, rs.Prefix.Query, "cats")
	assert.Assert(t, strings.HasSuffix(rs.Prefix.URL, "search=cats"), rs.Prefix.URL)
}

func TestResolve_Prefix(t *testing.T) {
	cfg := config.Default()
	cfg.WebPrefixes = []config.WebPrefix{
		{Name: "Wiki", Trigger: ">w", URL: "https://w.example/?q=%%QUERY%%"},
		{Name: "Wikipedia", Trigger: ">wiki", URL: "https://wp.example/?q=%%QUERY%%"},
		{Name: "GitHub", Trigger: ">gh", URL: "https://gh.example/?q=%%QUERY%%"},
	}
	r := query.NewResolver(cfg, nil)

	tests := []struct {
		name  string
		query string
		want  *query.PrefixMatch
	}{
		{"no trigger", "cats", nil},
		{"trigger not at start", "x >gh go", nil},
		{"ambiguous triggers", ">wiki cats", nil},
		{"single match", ">w cats", &query.PrefixMatch{Name: "Wiki", Query: "cats", URL: "https://w.example/?q=cats"}},
		{"spaces become plus", ">gh  go  modules ", &query.PrefixMatch{Name: "GitHub", Query: "go  modules", URL: "https://gh.example/?q=go++modules"}},
		{"empty remainder", ">gh", &query.PrefixMatch{Name: "GitHub", Query: "", URL: "https://gh.example/?q="}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Resolve(tt.query).Prefix
			if tt.want == nil {
				assert.Check(t, is.Nil(got))
				return
			}
			assert.DeepEqual(t, got, tt.want)
		})
	}
}

func TestResolve_SearchFallbackAlwaysPresent(t *testing.T) {
	r := newResolver(t, nil, nil)

	for _, q := range []string{"", "2+2", ">wiki cats", "hello world"} {
		rs := r.Resolve(q)
		assert.Equal(t, rs.Search.Query, q)
		assert.Equal(t, rs.Search.URL, "https://duckduckgo.com/?q="+strings.ReplaceAll(q, " ", "+"))
	}
}

func TestResolve_AppsExcludeHidden(t *testing.T) {
	r := newResolver(t, []*desktop.App{
		{Name: "Firefox"},
		{Name: "Hidden App", Hidden: true},
	}, nil)

	assert.DeepEqual(t, names(r.Resolve("fire").Apps), []string{"Firefox"})
	assert.DeepEqual(t, names(r.Resolve("app").Apps), []string{})
}

func TestResolve_AppsSortedByName(t *testing.T) {
	r := newResolver(t, []*desktop.App{
		{Name: "Terminal"},
		{Name: "GNOME Terminal"},
		{Name: "Alacritty Terminal"},
		{Name: "xterm"},
	}, nil)

	// Codepoint order puts uppercase before lowercase
	assert.DeepEqual(t, names(r.Resolve("TERM").Apps),
		[]string{"Alacritty Terminal", "GNOME Terminal", "Terminal", "xterm"})
}

func TestResolve_AppsDesktopFilter(t *testing.T) {
	apps := []*desktop.App{
		{Name: "Konsole", OnlyShowIn: []string{"KDE"}},
		{Name: "Nautilus", NotShowIn: []string{"KDE"}},
		{Name: "Vim"},
	}

	assert.DeepEqual(t, names(newResolver(t, apps, nil).Resolve("").Apps),
		[]string{"Konsole", "Nautilus", "Vim"})
	assert.DeepEqual(t, names(newResolver(t, apps, []string{"KDE"}).Resolve("").Apps),
		[]string{"Konsole", "Vim"})
	assert.DeepEqual(t, names(newResolver(t, apps, []string{"GNOME"}).Resolve("").Apps),
		[]string{"Nautilus", "Vim"})
}

func TestResolve_AppsLocalizedName(t *testing.T) {
	files := &desktop.App{Name: "Files", Names: map[string]string{"de": "Dateien"}}
	r := query.NewResolver(config.Default(), desktop.NewIndex([]*desktop.App{files}, []string{"de"}, nil))

	assert.Equal(t, len(r.Resolve("datei").Apps), 1)
	assert.Equal(t, len(r.Resolve("files").Apps), 0)
}

func TestResolve_AppsCaseFolding(t *testing.T) {
	r := newResolver(t, []*desktop.App{{Name: "STRASSE Navigator"}}, nil)
	assert.Equal(t, len(r.Resolve("strasse").Apps), 1)
}

func TestResolve_FuzzyMode(t *testing.T) {
	cfg := config.Default()
	cfg.MatchMode = config.MatchFuzzy
	ix := desktop.NewIndex([]*desktop.App{
		{Name: "Thunderbird"},
		{Name: "Firefox"},
		{Name: "Hidden Firefox", Hidden: true},
	}, nil, nil)
	r := query.NewResolver(cfg, ix)

	assert.DeepEqual(t, names(r.Resolve("ffx").Apps), []string{"Firefox"})
	assert.DeepEqual(t, names(r.Resolve("").Apps), []string{"Firefox", "Thunderbird"})
}

func TestResolve_Pure(t *testing.T) {
	r := newResolver(t, []*desktop.App{{Name: "Firefox"}, {Name: "Files"}}, nil)

	a := r.Resolve("fi")
	b := r.Resolve("fi")
	assert.DeepEqual(t, a, b)
}
