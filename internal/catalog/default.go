package catalog

import (
	"bytes"
	_ "embed"
)

//go:embed data/books.yaml
var defaultDocument []byte

// Default returns the built-in sample catalog.
func Default() (*Catalog, error) {
	return Decode(bytes.NewReader(defaultDocument), FormatYAML)
}
