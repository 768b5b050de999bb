package components

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tuannvm/bookshelf/internal/catalog"
	"github.com/tuannvm/bookshelf/internal/logger"
	"github.com/tuannvm/bookshelf/internal/options"
	"github.com/tuannvm/bookshelf/internal/render"
)

const (
	// DropdownTag is the host-page element name of a FilterDropdown.
	DropdownTag = "search-filter"

	defaultDropdownLabel = "Select an option"
	dropdownSelectID     = "search-filter-select"
	dropdownCaption      = "Filter options"
)

// FilterDropdown is configured by two attributes: a JSON object of
// id to name, and the label of the "any" option.
type FilterDropdown struct {
	Options       string
	DefaultOption string

	sel *Select
}

// Attach parses the configuration and builds the select. Malformed JSON is
// logged and treated as an empty mapping, so Attach always produces a
// control with at least the default option.
func (d *FilterDropdown) Attach(log *logger.Logger) *Select {
	label := d.DefaultOption
	if label == "" {
		label = defaultDropdownLabel
	}

	var mapping catalog.Mapping
	if strings.TrimSpace(d.Options) != "" {
		m, err := parseOptions(d.Options)
		if err != nil {
			log.WithFields(map[string]any{
				"element": DropdownTag,
				"options": d.Options,
			}).Error(err, "invalid JSON provided for options")
		}
		mapping = m
	}

	d.sel = NewSelect(dropdownCaption, "")
	options.Populate(d.sel, mapping, label)
	return d.sel
}

// Select returns the attached control, or nil before Attach.
func (d *FilterDropdown) Select() *Select {
	return d.sel
}

// HTML returns the label and select nodes that replace the element's
// content. It attaches with a nil logger if needed.
func (d *FilterDropdown) HTML() []*html.Node {
	if d.sel == nil {
		d.Attach(nil)
	}
	label := render.Element(atom.Label, "for", dropdownSelectID)
	label.AppendChild(render.Text(dropdownCaption + ":"))
	return []*html.Node{label, d.sel.HTML(dropdownSelectID)}
}

// parseOptions reads the options attribute. Keys keep their first position
// and a repeated key takes the last value. Values of any JSON type become
// labels; arrays are keyed by index. Other top-level values are empty.
func parseOptions(s string) (catalog.Mapping, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return catalog.Mapping{}, err
	}

	var (
		entries []catalog.Entry
		index   = make(map[string]int)
	)
	set := func(id, name string) {
		if i, ok := index[id]; ok {
			entries[i].Name = name
			return
		}
		index[id] = len(entries)
		entries = append(entries, catalog.Entry{ID: id, Name: name})
	}

	switch tok {
	case json.Delim('{'):
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return catalog.Mapping{}, err
			}
			var raw json.RawMessage
			if err := dec.Decode(&raw); err != nil {
				return catalog.Mapping{}, err
			}
			name, err := optionLabel(raw)
			if err != nil {
				return catalog.Mapping{}, err
			}
			set(keyTok.(string), name)
		}
		if _, err := dec.Token(); err != nil {
			return catalog.Mapping{}, err
		}
	case json.Delim('['):
		for i := 0; dec.More(); i++ {
			var raw json.RawMessage
			if err := dec.Decode(&raw); err != nil {
				return catalog.Mapping{}, err
			}
			name, err := optionLabel(raw)
			if err != nil {
				return catalog.Mapping{}, err
			}
			set(strconv.Itoa(i), name)
		}
		if _, err := dec.Token(); err != nil {
			return catalog.Mapping{}, err
		}
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return catalog.Mapping{}, fmt.Errorf("unexpected data after options value")
	}
	return catalog.NewMapping(entries...)
}

// optionLabel renders a JSON value the way a script would stringify it.
func optionLabel(raw json.RawMessage) (string, error) {
	var v any
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return "", err
	}
	return labelOf(v), nil
}

func labelOf(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return v.String()
		}
		return strconv.FormatFloat(f, 'f', -1, 64)
	case []any:
		parts := make([]string, len(v))
		for i, e := range v {
			if e != nil {
				parts[i] = labelOf(e)
			}
		}
		return strings.Join(parts, ",")
	default:
		return "[object Object]"
	}
}
