package render_test

import (
	"encoding/json"
	"strings"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/nikbrunner/sprint/internal/config"
	"github.com/nikbrunner/sprint/internal/query"
	"github.com/nikbrunner/sprint/internal/render"
	"github.com/nikbrunner/sprint/internal/results"
)

func baseParams() render.FrameParams {
	cfg := config.Default()
	return render.FrameParams{Font: cfg.Font, Theme: cfg.Theme, Layout: results.DefaultLayout()}
}

func kinds(f render.Frame) string {
	var parts []string
	for _, c := range f.Commands {
		parts = append(parts, string(c.Kind))
	}
	return strings.Join(parts, ",")
}

func TestBuildFrame_EmptyList(t *testing.T) {
	p := baseParams()
	f := render.BuildFrame(p)

	assert.Equal(t, f.Width, render.DefaultWidth)
	assert.Equal(t, f.Height, render.DefaultHeight)
	assert.Equal(t, kinds(f), "fill,fill,text,cursor,text,fill")

	assert.Equal(t, f.Commands[0].Rect, render.Rect{X: 0, Y: 0, W: 1024, H: 512})
	assert.Equal(t, f.Commands[0].Color, p.Theme.Background.ARGB())
	assert.Equal(t, f.Commands[1].Rect, render.Rect{X: 0, Y: 0, W: 1024, H: 48})
	assert.Equal(t, f.Commands[2].Text, render.Placeholder)
	assert.Equal(t, f.Commands[4].Text, render.NoResults)
	assert.Equal(t, f.Commands[5].Rect, render.Rect{X: 0, Y: 49, W: 1024, H: 1})
	assert.Equal(t, f.Commands[5].Color, p.Theme.Separator.ARGB())
}

func TestBuildFrame_WithEntries(t *testing.T) {
	p := baseParams()
	p.Query = "cats"
	p.Cursor = 2
	p.Entries = results.Order(query.ResultSet{Search: query.WebSearch{Query: "cats"}},
		results.OrderParams{Lanes: []string{"search", "search"}, Layout: p.Layout})
	p.Selected = 1

	f := render.BuildFrame(p)
	assert.Equal(t, kinds(f), "fill,fill,text,cursor,fill,fill,text,text")

	assert.Equal(t, f.Commands[2].Text, "cats")
	assert.Equal(t, f.Commands[3].Cursor, 2)

	highlight := f.Commands[4]
	assert.Equal(t, highlight.Rect, render.Rect{X: 0, Y: 79, W: 1024, H: 30})
	assert.Equal(t, highlight.Color, p.Theme.SelectionHover.ARGB())

	assert.Equal(t, f.Commands[6].Text, `Search "cats" on the web...`)
	assert.Equal(t, f.Commands[6].Rect, render.Rect{X: 16, Y: 49, W: 1024, H: 30})
	assert.Equal(t, f.Commands[7].Rect.Y, 79)
}

func TestBuildFrame_Status(t *testing.T) {
	p := baseParams()
	p.Status = "launch failed"

	f := render.BuildFrame(p)
	last := f.Commands[len(f.Commands)-1]
	assert.Equal(t, last.Text, "launch failed")
	assert.Equal(t, last.Rect.Y, render.DefaultHeight-30)
}

func TestFrame_JSON(t *testing.T) {
	data, err := json.Marshal(render.BuildFrame(baseParams()))
	assert.NilError(t, err)
	assert.Check(t, is.Contains(string(data), `"kind":"fill"`))
	assert.Check(t, is.Contains(string(data), `"text":"Search..."`))
}
