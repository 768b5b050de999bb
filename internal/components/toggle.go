package components

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tuannvm/bookshelf/internal/render"
	"github.com/tuannvm/bookshelf/internal/theme"
)

const (
	// ToggleTag is the host-page element name of a ThemeToggle.
	ToggleTag = "theme-toggler"

	toggleLabel = "Toggle Theme"
)

// ThemeToggle is a single button that flips the shared theme holder.
type ThemeToggle struct {
	holder *theme.Holder
}

// NewThemeToggle binds a toggle to h.
func NewThemeToggle(h *theme.Holder) *ThemeToggle {
	return &ThemeToggle{holder: h}
}

// Press flips the mode and returns the new one.
func (t *ThemeToggle) Press() theme.Mode {
	return t.holder.Toggle()
}

// View renders the button with the holder's current styles.
func (t *ThemeToggle) View(focused bool) string {
	styles := theme.StylesFor(t.holder.Vars())
	style := styles.Button
	if focused {
		style = style.Underline(true)
	}
	return style.Render(toggleLabel)
}

// HTML returns the button node.
func (t *ThemeToggle) HTML() *html.Node {
	b := render.Element(atom.Button, "class", "theme-toggler", "type", "button")
	b.AppendChild(render.Text(toggleLabel))
	return b
}
