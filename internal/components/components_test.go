package components

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/tuannvm/bookshelf/internal/logger"
	"github.com/tuannvm/bookshelf/internal/options"
	"github.com/tuannvm/bookshelf/internal/theme"
)

func renderNodes(t *testing.T, nodes ...*html.Node) string {
	t.Helper()
	var buf bytes.Buffer
	for _, n := range nodes {
		require.NoError(t, html.Render(&buf, n))
	}
	return buf.String()
}

func newSelect() *Select {
	s := NewSelect("Genre", "genre")
	s.AppendOptions(
		options.Option{Value: "any", Label: "All"},
		options.Option{Value: "g1", Label: "One"},
		options.Option{Value: "g2", Label: "Two"},
	)
	return s
}

func TestSelectMovesOnlyWhenFocused(t *testing.T) {
	s := newSelect()
	s.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, "any", s.Value())

	s.Focus()
	s.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, "g1", s.Value())

	s.Update(tea.KeyMsg{Type: tea.KeyUp})
	s.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "g2", s.Value(), "wraps to the last option")
}

func TestSelectSetValue(t *testing.T) {
	s := newSelect()
	require.True(t, s.SetValue("g2"))
	assert.Equal(t, "Two", s.SelectedLabel())

	assert.False(t, s.SetValue("nope"))
	assert.Equal(t, "g2", s.Value())

	s.Reset()
	assert.Equal(t, "any", s.Value())
}

func TestEmptySelect(t *testing.T) {
	s := NewSelect("", "")
	s.Focus()
	s.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, "", s.Value())
	assert.Contains(t, s.View(), "‹")
}

func TestSelectView(t *testing.T) {
	s := newSelect()
	view := s.View()
	assert.Contains(t, view, "Genre:")
	assert.Contains(t, view, "All")
}

func TestSelectHTMLMarksSelected(t *testing.T) {
	s := newSelect()
	s.SetValue("g1")
	got := renderNodes(t, s.HTML("genre-select"))
	assert.Equal(t,
		`<select id="genre-select" name="genre"><option value="any">All</option>`+
			`<option value="g1" selected="">One</option><option value="g2">Two</option></select>`,
		got)
}

func TestFilterDropdownParsesOptionsInOrder(t *testing.T) {
	d := &FilterDropdown{Options: `{"z": "Zed", "a": "Ann"}`, DefaultOption: "Everyone"}
	sel := d.Attach(nil)

	assert.Same(t, sel, d.Select())
	assert.Equal(t, []options.Option{
		{Value: "any", Label: "Everyone"},
		{Value: "z", Label: "Zed"},
		{Value: "a", Label: "Ann"},
	}, sel.Options())
}

func TestFilterDropdownInvalidJSONRendersDefaultOnly(t *testing.T) {
	buf := &bytes.Buffer{}
	log, err := logger.New(logger.Options{Writer: buf})
	require.NoError(t, err)

	d := &FilterDropdown{Options: `{not json`}
	var sel *Select
	require.NotPanics(t, func() { sel = d.Attach(log) })

	assert.Equal(t, []options.Option{{Value: "any", Label: "Select an option"}}, sel.Options())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, DropdownTag, entry["element"])
}

func TestFilterDropdownStringifiesValues(t *testing.T) {
	d := &FilterDropdown{Options: `{"1": "One", "2": 2, "3": 2.50, "4": true, "5": null, "6": [1, "b"], "7": {"k": 1}}`, DefaultOption: "All"}
	assert.Equal(t, []options.Option{
		{Value: "any", Label: "All"},
		{Value: "1", Label: "One"},
		{Value: "2", Label: "2"},
		{Value: "3", Label: "2.5"},
		{Value: "4", Label: "true"},
		{Value: "5", Label: "null"},
		{Value: "6", Label: "1,b"},
		{Value: "7", Label: "[object Object]"},
	}, d.Attach(nil).Options())
}

func TestFilterDropdownRepeatedKeyKeepsLastValue(t *testing.T) {
	d := &FilterDropdown{Options: `{"a": "One", "b": "Bee", "a": "Two"}`, DefaultOption: "All"}
	assert.Equal(t, []options.Option{
		{Value: "any", Label: "All"},
		{Value: "a", Label: "Two"},
		{Value: "b", Label: "Bee"},
	}, d.Attach(nil).Options())
}

func TestFilterDropdownArrayAndScalarOptions(t *testing.T) {
	d := &FilterDropdown{Options: `["x", "y"]`, DefaultOption: "All"}
	assert.Equal(t, []options.Option{
		{Value: "any", Label: "All"},
		{Value: "0", Label: "x"},
		{Value: "1", Label: "y"},
	}, d.Attach(nil).Options())

	d = &FilterDropdown{Options: `42`, DefaultOption: "All"}
	assert.Len(t, d.Attach(nil).Options(), 1)
}

func TestFilterDropdownTrailingDataIsMalformed(t *testing.T) {
	buf := &bytes.Buffer{}
	log, err := logger.New(logger.Options{Writer: buf})
	require.NoError(t, err)

	d := &FilterDropdown{Options: `{"a": "One"} extra`}
	assert.Len(t, d.Attach(log).Options(), 1)
	assert.Contains(t, buf.String(), "invalid JSON provided for options")
}

func TestFilterDropdownWithoutOptions(t *testing.T) {
	d := &FilterDropdown{DefaultOption: "Any"}
	assert.Len(t, d.Attach(nil).Options(), 1)
}

func TestFilterDropdownHTML(t *testing.T) {
	d := &FilterDropdown{Options: `{"g1": "Horror"}`, DefaultOption: "All"}
	got := renderNodes(t, d.HTML()...)

	assert.True(t, strings.HasPrefix(got, `<label for="search-filter-select">Filter options:</label>`))
	assert.Contains(t, got, `<select id="search-filter-select"><option value="any">All</option><option value="g1">Horror</option></select>`)
}

func TestThemeTogglePressFlipsHolder(t *testing.T) {
	h := theme.NewHolder()
	toggle := NewThemeToggle(h)

	assert.Equal(t, theme.Night, toggle.Press())
	assert.Equal(t, theme.Night, h.Mode())
	assert.Equal(t, theme.Day, toggle.Press())
}

func TestThemeToggleSharesStateWithSettings(t *testing.T) {
	h := theme.NewHolder()
	toggle := NewThemeToggle(h)

	require.NoError(t, h.Update("night"))
	assert.Equal(t, theme.Day, toggle.Press())
	assert.Equal(t, theme.VarsFor(theme.Day), h.Vars())
}

func TestThemeToggleRendering(t *testing.T) {
	toggle := NewThemeToggle(theme.NewHolder())
	assert.Contains(t, toggle.View(false), "Toggle Theme")
	assert.Equal(t, `<button class="theme-toggler" type="button">Toggle Theme</button>`, renderNodes(t, toggle.HTML()))
}
