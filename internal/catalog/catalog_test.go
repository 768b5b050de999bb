package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
page_size: 2
authors:
  zz: Zed
  aa: Ann
genres:
  g2: Second
  g1: First
books:
  - id: b1
    title: "<b>Bold</b> Title"
    author: zz
    genres: [g1]
    image: https://example.com/b1.jpg
    description: "<script>alert(1)</script>Plain &amp; simple"
    published: 2001-05-01T00:00:00Z
  - id: b2
    title: Second Book
    author: missing
    genres: [g1, g2]
`

func TestDecodeYAMLKeepsMappingOrder(t *testing.T) {
	c, err := Decode(strings.NewReader(sampleYAML), FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, []Entry{{ID: "zz", Name: "Zed"}, {ID: "aa", Name: "Ann"}}, c.Authors.Entries())
	assert.Equal(t, []Entry{{ID: "g2", Name: "Second"}, {ID: "g1", Name: "First"}}, c.Genres.Entries())
	assert.Equal(t, 2, c.PageSize)
	require.Len(t, c.Books, 2)
	assert.Equal(t, 2001, c.Books[0].Published.Year())
}

func TestDecodeJSONKeepsMappingOrder(t *testing.T) {
	doc := `{
		"authors": {"z": "Zed", "a": "Ann", "m": "Max"},
		"genres": {},
		"books": [{"id": "1", "title": "One", "author": "m", "genres": []}]
	}`
	c, err := Decode(strings.NewReader(doc), FormatJSON)
	require.NoError(t, err)

	ids := make([]string, 0, c.Authors.Len())
	for _, e := range c.Authors.Entries() {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"z", "a", "m"}, ids)
	assert.Equal(t, DefaultPageSize, c.PageSize)
	assert.Equal(t, 0, c.Genres.Len())
}

func TestDecodeStripsMarkup(t *testing.T) {
	c, err := Decode(strings.NewReader(sampleYAML), FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, "Bold Title", c.Books[0].Title)
	assert.Equal(t, "Plain & simple", c.Books[0].Description)
}

func TestDecodeRejectsDuplicateIDs(t *testing.T) {
	doc := `
books:
  - {id: x, title: A, author: a}
  - {id: x, title: B, author: a}
`
	_, err := Decode(strings.NewReader(doc), FormatYAML)
	var dup DuplicateBookError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "x", dup.ID)
}

func TestDecodeRejectsMissingTitle(t *testing.T) {
	doc := `
books:
  - {id: x, author: a}
`
	_, err := Decode(strings.NewReader(doc), FormatYAML)
	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "required", verr.Rule)
	assert.Contains(t, verr.Field, "Title")
}

func TestDecodeRejectsDuplicateMappingKey(t *testing.T) {
	doc := `{"authors": {"a": "One", "a": "Two"}, "books": []}`
	_, err := Decode(strings.NewReader(doc), FormatJSON)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate mapping key")
}

func TestMissingAuthorsDoesNotFailLoading(t *testing.T) {
	c, err := Decode(strings.NewReader(sampleYAML), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, []string{"b2"}, c.MissingAuthors())
}

func TestFindAndHasGenre(t *testing.T) {
	c, err := Decode(strings.NewReader(sampleYAML), FormatYAML)
	require.NoError(t, err)

	b, ok := c.Find("b2")
	require.True(t, ok)
	assert.True(t, b.HasGenre("g2"))
	assert.False(t, b.HasGenre("g3"))

	_, ok = c.Find("nope")
	assert.False(t, ok)
}

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Equal(t, 36, c.PageSize)
	assert.Greater(t, len(c.Books), c.PageSize)
	assert.Empty(t, c.MissingAuthors())

	first := c.Authors.Entries()[0]
	assert.Equal(t, "a-austen", first.ID)
}

func TestFormatFor(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatFor("books.json", ""))
	assert.Equal(t, FormatJSON, FormatFor("/catalog", "application/json; charset=utf-8"))
	assert.Equal(t, FormatYAML, FormatFor("books.yml", "text/plain"))
}

type stubFetcher struct {
	body        string
	contentType string
	err         error
	gotURL      string
}

func (s *stubFetcher) Get(_ context.Context, rawURL string) ([]byte, string, error) {
	s.gotURL = rawURL
	return []byte(s.body), s.contentType, s.err
}

func TestLoadSources(t *testing.T) {
	ctx := context.Background()

	t.Run("builtin", func(t *testing.T) {
		c, err := Load(ctx, "", nil)
		require.NoError(t, err)
		assert.NotEmpty(t, c.Books)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "books.yaml")
		require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))

		c, err := Load(ctx, path, nil)
		require.NoError(t, err)
		assert.Len(t, c.Books, 2)
	})

	t.Run("remote", func(t *testing.T) {
		f := &stubFetcher{
			body:        `{"books": [{"id": "r", "title": "Remote", "author": "a"}]}`,
			contentType: "application/json",
		}
		c, err := Load(ctx, "https://example.com/catalog", f)
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/catalog", f.gotURL)
		assert.Equal(t, "Remote", c.Books[0].Title)
	})

	t.Run("remote error", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := Load(ctx, "http://example.com/books.yaml", &stubFetcher{err: boom})
		require.ErrorIs(t, err, boom)
	})

	t.Run("remote with unparsable url", func(t *testing.T) {
		f := &stubFetcher{body: sampleYAML}
		_, err := Load(ctx, "http://example.com/%zz", f)
		require.Error(t, err)
		assert.Empty(t, f.gotURL, "nothing is fetched")
	})

	t.Run("remote without fetcher", func(t *testing.T) {
		_, err := Load(ctx, "http://example.com/books.yaml", nil)
		require.Error(t, err)
	})
}
