// Package catalog holds the book records, the author and genre lookup
// tables and the page size the browser paginates with.
package catalog

import "time"

// DefaultPageSize is used when a catalog document does not set page_size.
const DefaultPageSize = 36

// Book is one catalog record. Books are never mutated after loading.
type Book struct {
	ID          string    `yaml:"id" json:"id" validate:"required"`
	Title       string    `yaml:"title" json:"title" validate:"required"`
	Author      string    `yaml:"author" json:"author" validate:"required"`
	Genres      []string  `yaml:"genres" json:"genres" validate:"dive,required"`
	Image       string    `yaml:"image" json:"image" validate:"omitempty,uri"`
	Description string    `yaml:"description" json:"description"`
	Published   time.Time `yaml:"published" json:"published"`
}

// HasGenre reports whether id is one of the book's genres.
func (b Book) HasGenre(id string) bool {
	for _, g := range b.Genres {
		if g == id {
			return true
		}
	}
	return false
}

// Catalog is the read-only data source for the browser.
type Catalog struct {
	Books    []Book  `yaml:"books" json:"books" validate:"dive"`
	Authors  Mapping `yaml:"authors" json:"authors"`
	Genres   Mapping `yaml:"genres" json:"genres"`
	PageSize int     `yaml:"page_size" json:"page_size" validate:"gte=1"`
}

// Find returns the book with the given id.
func (c *Catalog) Find(id string) (Book, bool) {
	for _, b := range c.Books {
		if b.ID == id {
			return b, true
		}
	}
	return Book{}, false
}

// MissingAuthors lists book ids whose author is absent from the author table.
func (c *Catalog) MissingAuthors() []string {
	var ids []string
	for _, b := range c.Books {
		if _, ok := c.Authors.Name(b.Author); !ok {
			ids = append(ids, b.ID)
		}
	}
	return ids
}
