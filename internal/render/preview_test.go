package render

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/tuannvm/bookshelf/internal/catalog"
)

var authors = catalog.MustMapping(catalog.Entry{ID: "a1", Name: "Ada Writer"})

func TestNewPreviewResolvesAuthor(t *testing.T) {
	p := NewPreview(catalog.Book{ID: "b1", Title: "First", Author: "a1", Image: "https://img/1.jpg"}, authors)

	assert.Equal(t, Preview{ID: "b1", Image: "https://img/1.jpg", Title: "First", Author: "Ada Writer"}, p)
	assert.Equal(t, "First", p.FilterValue())
}

func TestNewPreviewMissingAuthorUsesPlaceholder(t *testing.T) {
	p := NewPreview(catalog.Book{ID: "b1", Title: "First", Author: "ghost"}, authors)
	assert.Equal(t, UnknownAuthor, p.Author)
}

func TestPreviewHTML(t *testing.T) {
	p := Preview{ID: "b<1>", Image: "https://img/1.jpg", Title: "Tom & Jerry", Author: "<i>Ada</i>"}

	var buf bytes.Buffer
	require.NoError(t, html.Render(&buf, p.HTML()))

	want := `<button class="preview" data-preview="b&lt;1&gt;">` +
		`<img class="preview__image" src="https://img/1.jpg"/>` +
		`<div class="preview__info"><h3 class="preview__title">Tom &amp; Jerry</h3>` +
		`<div class="preview__author">&lt;i&gt;Ada&lt;/i&gt;</div></div></button>`
	assert.Equal(t, want, buf.String())
}

func TestNewDetailSubtitle(t *testing.T) {
	book := catalog.Book{
		ID:          "b1",
		Title:       "First",
		Author:      "a1",
		Image:       "https://img/1.jpg",
		Description: "About it.",
		Published:   time.Date(1999, 6, 1, 0, 0, 0, 0, time.UTC),
	}

	d := NewDetail(book, authors)
	assert.Equal(t, "Ada Writer (1999)", d.Subtitle)
	assert.Equal(t, "About it.", d.Description)
	assert.Equal(t, "https://img/1.jpg", d.Image)

	book.Published = time.Time{}
	book.Author = "ghost"
	assert.Equal(t, UnknownAuthor, NewDetail(book, authors).Subtitle)
}
