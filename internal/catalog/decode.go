package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"path"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a catalog document.
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
)

func (f Format) String() string {
	if f == FormatJSON {
		return "json"
	}
	return "yaml"
}

// FormatFor picks a format from a file name or URL path and an optional
// content type. YAML is the fallback.
func FormatFor(name, contentType string) Format {
	if strings.Contains(strings.ToLower(contentType), "json") {
		return FormatJSON
	}
	if strings.EqualFold(path.Ext(name), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

var (
	validateOnce sync.Once
	validateInst *validator.Validate

	strictPolicy = bluemonday.StrictPolicy()
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validateInst = validator.New()
	})
	return validateInst
}

// Decode reads, sanitises and validates a catalog document.
func Decode(r io.Reader, format Format) (*Catalog, error) {
	var c Catalog
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&c); err != nil {
			return nil, fmt.Errorf("decode json catalog: %w", err)
		}
	default:
		if err := yaml.NewDecoder(r).Decode(&c); err != nil {
			return nil, fmt.Errorf("decode yaml catalog: %w", err)
		}
	}

	if c.PageSize == 0 {
		c.PageSize = DefaultPageSize
	}
	c.sanitize()

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks record fields and id uniqueness.
func (c *Catalog) Validate() error {
	if err := validatorInstance().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return ValidationError{Field: fe.Namespace(), Rule: fe.Tag(), Value: fe.Value()}
		}
		return fmt.Errorf("validate catalog: %w", err)
	}

	seen := make(map[string]struct{}, len(c.Books))
	for _, b := range c.Books {
		if _, dup := seen[b.ID]; dup {
			return DuplicateBookError{ID: b.ID}
		}
		seen[b.ID] = struct{}{}
	}
	return nil
}

// sanitize strips markup from free text so it renders as plain text.
func (c *Catalog) sanitize() {
	for i := range c.Books {
		c.Books[i].Title = stripMarkup(c.Books[i].Title)
		c.Books[i].Description = stripMarkup(c.Books[i].Description)
	}
}

func stripMarkup(s string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}
