// Package booklist holds the filtered view of the catalog and the current
// pagination offset.
package booklist

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/tuannvm/bookshelf/internal/catalog"
	"github.com/tuannvm/bookshelf/internal/options"
	"github.com/tuannvm/bookshelf/internal/render"
)

// Any matches every genre or author.
const Any = options.AnyValue

// Criteria is one search submission.
type Criteria struct {
	Genre  string
	Author string
	Title  string
}

// AnyCriteria matches the whole catalog.
func AnyCriteria() Criteria {
	return Criteria{Genre: Any, Author: Any}
}

// Container receives rendered previews. It is never cleared by the manager.
type Container interface {
	Append(previews ...render.Preview)
}

// ShowMore is the "show more" control.
type ShowMore interface {
	SetDisabled(disabled bool)
	SetRemaining(n int)
}

// Manager owns the current matches and the 1-based page number.
type Manager struct {
	catalog  *catalog.Catalog
	pageSize int
	matches  []catalog.Book
	page     int
}

// New starts with every book matching. A pageSize of zero or less uses the
// catalog's page size.
func New(c *catalog.Catalog, pageSize int) *Manager {
	if pageSize <= 0 {
		pageSize = c.PageSize
	}
	if pageSize <= 0 {
		pageSize = catalog.DefaultPageSize
	}
	return &Manager{
		catalog:  c,
		pageSize: pageSize,
		matches:  c.Books,
		page:     1,
	}
}

// Render appends one preview per book, in order.
func (m *Manager) Render(books []catalog.Book, into Container) {
	previews := make([]render.Preview, 0, len(books))
	for _, b := range books {
		previews = append(previews, render.NewPreview(b, m.catalog.Authors))
	}
	into.Append(previews...)
}

// Filter recomputes the matches from the full catalog and resets to page 1.
func (m *Manager) Filter(c Criteria) {
	fold := cases.Fold()
	needle := fold.String(c.Title)
	anyTitle := strings.TrimSpace(c.Title) == ""

	matches := make([]catalog.Book, 0, len(m.catalog.Books))
	for _, b := range m.catalog.Books {
		genreMatch := c.Genre == Any || b.HasGenre(c.Genre)
		titleMatch := anyTitle || strings.Contains(fold.String(b.Title), needle)
		authorMatch := c.Author == Any || b.Author == c.Author
		if genreMatch && titleMatch && authorMatch {
			matches = append(matches, b)
		}
	}

	m.matches = matches
	m.page = 1
}

// Remaining is the number of matches not yet shown, never negative.
func (m *Manager) Remaining() int {
	return max(len(m.matches)-m.page*m.pageSize, 0)
}

// UpdateShowMore disables the control once every match is shown and sets
// its remaining count.
func (m *Manager) UpdateShowMore(ctl ShowMore) {
	remaining := len(m.matches) - m.page*m.pageSize
	ctl.SetDisabled(remaining <= 0)
	ctl.SetRemaining(max(remaining, 0))
}

// FirstPage renders the first page of matches.
func (m *Manager) FirstPage(into Container) {
	m.Render(m.slice(0), into)
}

// NextPage renders the page after the current one, advances and refreshes
// the show-more control.
func (m *Manager) NextPage(into Container, ctl ShowMore) {
	m.Render(m.slice(m.page), into)
	m.page++
	m.UpdateShowMore(ctl)
}

// slice returns matches[page*size:(page+1)*size], clamped to the matches.
func (m *Manager) slice(page int) []catalog.Book {
	start := min(page*m.pageSize, len(m.matches))
	end := min(start+m.pageSize, len(m.matches))
	return m.matches[start:end]
}

// Matches returns the current matches in catalog order.
func (m *Manager) Matches() []catalog.Book { return m.matches }

// Page is the 1-based number of pages shown.
func (m *Manager) Page() int { return m.page }

// PageSize is the number of books per page.
func (m *Manager) PageSize() int { return m.pageSize }

// Empty reports whether the last filter matched nothing.
func (m *Manager) Empty() bool { return len(m.matches) == 0 }

// Find looks a book up in the full catalog, not only the matches.
func (m *Manager) Find(id string) (catalog.Book, bool) {
	return m.catalog.Find(id)
}

// Detail builds the overlay content for the book with the given id.
func (m *Manager) Detail(id string) (render.Detail, bool) {
	b, ok := m.Find(id)
	if !ok {
		return render.Detail{}, false
	}
	return render.NewDetail(b, m.catalog.Authors), true
}

// Authors returns the catalog's author table.
func (m *Manager) Authors() catalog.Mapping { return m.catalog.Authors }

// Genres returns the catalog's genre table.
func (m *Manager) Genres() catalog.Mapping { return m.catalog.Genres }
