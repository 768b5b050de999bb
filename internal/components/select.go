// Package components holds the self-contained controls the browser can
// attach anywhere: an option select, the filter dropdown and the theme
// toggle.
package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tuannvm/bookshelf/internal/options"
	"github.com/tuannvm/bookshelf/internal/render"
)

var selectKeys = struct {
	Prev key.Binding
	Next key.Binding
}{
	Prev: key.NewBinding(key.WithKeys("up", "left", "k"), key.WithHelp("↑", "previous option")),
	Next: key.NewBinding(key.WithKeys("down", "right", "j"), key.WithHelp("↓", "next option")),
}

// Select is a single-choice option control. The first option is selected
// until the user moves.
type Select struct {
	Label string
	Name  string

	opts    []options.Option
	cursor  int
	focused bool

	labelStyle   lipgloss.Style
	focusedStyle lipgloss.Style
	valueStyle   lipgloss.Style
}

// NewSelect creates an empty select.
func NewSelect(label, name string) *Select {
	return &Select{
		Label:        label,
		Name:         name,
		labelStyle:   lipgloss.NewStyle().Bold(true),
		focusedStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("62")),
		valueStyle:   lipgloss.NewStyle(),
	}
}

// AppendOptions adds options after the existing ones.
func (s *Select) AppendOptions(opts ...options.Option) {
	s.opts = append(s.opts, opts...)
}

// Options returns the options in display order.
func (s *Select) Options() []options.Option {
	return s.opts
}

// Value is the selected option's value, or "" when there are no options.
func (s *Select) Value() string {
	if len(s.opts) == 0 {
		return ""
	}
	return s.opts[s.cursor].Value
}

// SelectedLabel is the selected option's label.
func (s *Select) SelectedLabel() string {
	if len(s.opts) == 0 {
		return ""
	}
	return s.opts[s.cursor].Label
}

// SetValue selects the first option with value v. It reports false and
// keeps the selection when no option matches.
func (s *Select) SetValue(v string) bool {
	for i, o := range s.opts {
		if o.Value == v {
			s.cursor = i
			return true
		}
	}
	return false
}

// Reset selects the first option.
func (s *Select) Reset() { s.cursor = 0 }

func (s *Select) Focus()        { s.focused = true }
func (s *Select) Blur()         { s.focused = false }
func (s *Select) Focused() bool { return s.focused }

// Update moves the selection while focused; it wraps at both ends.
func (s *Select) Update(msg tea.Msg) tea.Cmd {
	if !s.focused || len(s.opts) == 0 {
		return nil
	}
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch {
	case key.Matches(km, selectKeys.Prev):
		s.cursor = (s.cursor - 1 + len(s.opts)) % len(s.opts)
	case key.Matches(km, selectKeys.Next):
		s.cursor = (s.cursor + 1) % len(s.opts)
	}
	return nil
}

// View renders "Label: ‹ choice ›".
func (s *Select) View() string {
	value := "‹ " + s.SelectedLabel() + " ›"
	if s.focused {
		value = s.focusedStyle.Render(value)
	} else {
		value = s.valueStyle.Render(value)
	}
	var b strings.Builder
	if s.Label != "" {
		b.WriteString(s.labelStyle.Render(s.Label + ":"))
		b.WriteString(" ")
	}
	b.WriteString(value)
	return b.String()
}

// HTML builds a <select> with the current options; id may be empty.
func (s *Select) HTML(id string) *html.Node {
	var attrs []string
	if id != "" {
		attrs = append(attrs, "id", id)
	}
	if s.Name != "" {
		attrs = append(attrs, "name", s.Name)
	}
	n := render.Element(atom.Select, attrs...)
	for i, o := range s.opts {
		opt := o.HTML()
		if i == s.cursor && i > 0 {
			opt.Attr = append(opt.Attr, html.Attribute{Key: "selected"})
		}
		n.AppendChild(opt)
	}
	return n
}
