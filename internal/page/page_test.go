package page

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuannvm/bookshelf/internal/booklist"
	"github.com/tuannvm/bookshelf/internal/catalog"
	"github.com/tuannvm/bookshelf/internal/options"
	"github.com/tuannvm/bookshelf/internal/render"
	"github.com/tuannvm/bookshelf/internal/theme"
)

func bindDefault(t *testing.T) *Page {
	t.Helper()
	doc, err := Default()
	require.NoError(t, err)
	p, err := doc.Bind()
	require.NoError(t, err)
	return p
}

// reparse renders p and parses the output again, so assertions run against
// what a browser would receive.
func reparse(t *testing.T, p *Page) *goquery.Document {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, p.Render(&buf))
	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	return doc
}

func TestDefaultTemplateHasEveryHook(t *testing.T) {
	p := bindDefault(t)
	for _, h := range requiredHooks {
		assert.Equal(t, 1, p.Hook(h).Length(), h)
	}
}

func TestBindReportsMissingHook(t *testing.T) {
	src := strings.Replace(string(defaultTemplate), "data-list-button", "data-other", 1)
	doc, err := Load(strings.NewReader(src))
	require.NoError(t, err)

	_, err = doc.Bind()
	var missing *MissingHookError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, HookListButton, missing.Hook)
	assert.Contains(t, err.Error(), "[data-list-button]")
}

func TestAppendAndClearList(t *testing.T) {
	p := bindDefault(t)
	p.Append(
		render.Preview{ID: "1", Title: "One", Author: "Ann"},
		render.Preview{ID: "2", Title: "Two", Author: "Bob"},
	)

	doc := reparse(t, p)
	previews := doc.Find("[data-list-items] [data-preview]")
	require.Equal(t, 2, previews.Length())
	assert.Equal(t, "2", previews.Eq(1).AttrOr("data-preview", ""))
	assert.Equal(t, "One", previews.First().Find(".preview__title").Text())

	p.ClearList()
	assert.Equal(t, 0, reparse(t, p).Find("[data-preview]").Length())
}

func TestShowMoreControl(t *testing.T) {
	p := bindDefault(t)

	p.SetDisabled(false)
	p.SetRemaining(5)
	btn := reparse(t, p).Find("[data-list-button]")
	_, disabled := btn.Attr("disabled")
	assert.False(t, disabled)
	assert.Equal(t, " (5)", btn.Find(".list__remaining").Text())

	p.SetDisabled(true)
	p.SetRemaining(0)
	btn = reparse(t, p).Find("[data-list-button]")
	_, disabled = btn.Attr("disabled")
	assert.True(t, disabled)
	assert.Equal(t, "Show more (0)", btn.Text())
}

func TestNoMatchesMessage(t *testing.T) {
	p := bindDefault(t)

	p.SetNoMatches(true)
	assert.True(t, reparse(t, p).Find("[data-list-message]").HasClass(noMatchesClass))

	p.SetNoMatches(false)
	assert.False(t, reparse(t, p).Find("[data-list-message]").HasClass(noMatchesClass))
}

func TestPopulateSearchSelects(t *testing.T) {
	p := bindDefault(t)
	genres := catalog.MustMapping(catalog.Entry{ID: "g1", Name: "Horror"}, catalog.Entry{ID: "g0", Name: "Classic"})
	options.Populate(p.Genres(), genres, "All Genres")

	opts := reparse(t, p).Find("[data-search-genres] option")
	require.Equal(t, 3, opts.Length())
	assert.Equal(t, "any", opts.Eq(0).AttrOr("value", ""))
	assert.Equal(t, "All Genres", opts.Eq(0).Text())
	assert.Equal(t, "g0", opts.Eq(2).AttrOr("value", ""))
}

func TestSetCriteria(t *testing.T) {
	p := bindDefault(t)
	options.Populate(p.Authors(), catalog.MustMapping(catalog.Entry{ID: "a1", Name: "Ann"}), "All Authors")
	options.Populate(p.Genres(), catalog.Mapping{}, "All Genres")

	p.SetCriteria(booklist.Criteria{Genre: booklist.Any, Author: "a1", Title: "dune"})

	doc := reparse(t, p)
	assert.Equal(t, "dune", doc.Find("[data-search-title]").AttrOr("value", ""))
	selected := doc.Find("[data-search-authors] option[selected]")
	require.Equal(t, 1, selected.Length())
	assert.Equal(t, "a1", selected.AttrOr("value", ""))
}

func TestApplyTheme(t *testing.T) {
	p := bindDefault(t)
	p.ApplyTheme(theme.Night, theme.VarsFor(theme.Night))

	doc := reparse(t, p)
	assert.Equal(t, theme.CSS(theme.VarsFor(theme.Night)), doc.Find("html").AttrOr("style", ""))
	assert.Equal(t, "night", doc.Find("[data-settings-theme] option[selected]").AttrOr("value", ""))

	p.ApplyTheme(theme.Day, theme.VarsFor(theme.Day))
	doc = reparse(t, p)
	selected := doc.Find("[data-settings-theme] option[selected]")
	require.Equal(t, 1, selected.Length())
	assert.Equal(t, "day", selected.AttrOr("value", ""))
}

func TestShowDetail(t *testing.T) {
	p := bindDefault(t)
	p.ShowDetail(render.Detail{Image: "https://img/1.jpg", Title: "One <b>", Subtitle: "Ann (1999)", Description: "Desc"})

	doc := reparse(t, p)
	_, open := doc.Find("[data-list-active]").Attr("open")
	assert.True(t, open)
	assert.Equal(t, "https://img/1.jpg", doc.Find("[data-list-blur]").AttrOr("src", ""))
	assert.Equal(t, "https://img/1.jpg", doc.Find("[data-list-image]").AttrOr("src", ""))
	assert.Equal(t, "One <b>", doc.Find("[data-list-title]").Text())
	assert.Equal(t, "Ann (1999)", doc.Find("[data-list-subtitle]").Text())
	assert.Equal(t, "Desc", doc.Find("[data-list-description]").Text())

	p.SetOpen(HookListActive, false)
	_, open = reparse(t, p).Find("[data-list-active]").Attr("open")
	assert.False(t, open)
}

func TestAttachElements(t *testing.T) {
	p := bindDefault(t)
	n := p.AttachElements(theme.NewHolder(), nil)
	assert.Equal(t, 2, n)

	doc := reparse(t, p)
	opts := doc.Find("search-filter select option")
	require.Equal(t, 4, opts.Length())
	assert.Equal(t, "All Formats", opts.First().Text())
	assert.Equal(t, "E-book", opts.Last().Text())
	assert.Equal(t, "Toggle Theme", doc.Find("theme-toggler button.theme-toggler").Text())
}

func TestAttachElementsWithBrokenOptions(t *testing.T) {
	src := `<html><body><search-filter options="{oops"></search-filter></body></html>`
	doc, err := Load(strings.NewReader(src))
	require.NoError(t, err)

	p := &Page{doc: doc.doc}
	require.Equal(t, 1, p.AttachElements(theme.NewHolder(), nil))

	out := reparse(t, p).Find("search-filter option")
	require.Equal(t, 1, out.Length())
	assert.Equal(t, "Select an option", out.Text())
}
