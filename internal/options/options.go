// Package options renders id/name mappings into select-control options.
// Every dropdown in the browser goes through FromMapping.
package options

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tuannvm/bookshelf/internal/catalog"
	"github.com/tuannvm/bookshelf/internal/render"
)

// AnyValue is the value of the synthetic "match everything" option.
const AnyValue = "any"

// Option is one entry of a select control.
type Option struct {
	Value string
	Label string
}

// Target is a control that options can be appended to.
type Target interface {
	AppendOptions(opts ...Option)
}

// FromMapping returns the "any" option labelled defaultLabel followed by one
// option per mapping entry, in mapping order.
func FromMapping(mapping catalog.Mapping, defaultLabel string) []Option {
	entries := mapping.Entries()
	opts := make([]Option, 0, len(entries)+1)
	opts = append(opts, Option{Value: AnyValue, Label: defaultLabel})
	for _, e := range entries {
		opts = append(opts, Option{Value: e.ID, Label: e.Name})
	}
	return opts
}

// Populate appends FromMapping to target in one call. It does not check for
// existing entries: call it at most once per control.
func Populate(target Target, mapping catalog.Mapping, defaultLabel string) {
	target.AppendOptions(FromMapping(mapping, defaultLabel)...)
}

// HTML builds the <option> node.
func (o Option) HTML() *html.Node {
	n := render.Element(atom.Option, "value", o.Value)
	n.AppendChild(render.Text(o.Label))
	return n
}
