// Package render turns catalog records into the units both hosts display:
// a list preview and the detail overlay contents.
package render

import (
	"fmt"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tuannvm/bookshelf/internal/catalog"
)

// UnknownAuthor is shown for books whose author id has no mapping entry.
const UnknownAuthor = "Unknown author"

// PreviewAttr tags a rendered preview with its book id.
const PreviewAttr = "data-preview"

// Preview is one rendered list entry.
type Preview struct {
	ID     string
	Image  string
	Title  string
	Author string
}

// NewPreview resolves the author name for book.
func NewPreview(book catalog.Book, authors catalog.Mapping) Preview {
	return Preview{
		ID:     book.ID,
		Image:  book.Image,
		Title:  book.Title,
		Author: authorName(book.Author, authors),
	}
}

// FilterValue lets a Preview sit in a bubbles list.
func (p Preview) FilterValue() string { return p.Title }

// HTML builds the preview button. All text goes into text nodes.
func (p Preview) HTML() *html.Node {
	button := Element(atom.Button, "class", "preview", PreviewAttr, p.ID)
	button.AppendChild(Element(atom.Img, "class", "preview__image", "src", p.Image))

	info := Element(atom.Div, "class", "preview__info")
	title := Element(atom.H3, "class", "preview__title")
	title.AppendChild(Text(p.Title))
	author := Element(atom.Div, "class", "preview__author")
	author.AppendChild(Text(p.Author))
	info.AppendChild(title)
	info.AppendChild(author)

	button.AppendChild(info)
	return button
}

// Detail is the content of the detail overlay.
type Detail struct {
	ID          string
	Image       string
	Title       string
	Subtitle    string
	Description string
}

// NewDetail builds the overlay content; the subtitle is "Author (Year)".
func NewDetail(book catalog.Book, authors catalog.Mapping) Detail {
	subtitle := authorName(book.Author, authors)
	if !book.Published.IsZero() {
		subtitle = fmt.Sprintf("%s (%d)", subtitle, book.Published.Year())
	}
	return Detail{
		ID:          book.ID,
		Image:       book.Image,
		Title:       book.Title,
		Subtitle:    subtitle,
		Description: book.Description,
	}
}

func authorName(id string, authors catalog.Mapping) string {
	if name, ok := authors.Name(id); ok {
		return name
	}
	return UnknownAuthor
}

// Element creates a detached node with attribute key/value pairs.
func Element(a atom.Atom, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

// Text creates a detached text node; s is escaped when rendered.
func Text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
