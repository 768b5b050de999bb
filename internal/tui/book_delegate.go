package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/tuannvm/bookshelf/internal/render"
	"github.com/tuannvm/bookshelf/internal/theme"
)

// PreviewDelegate renders one preview per row as "Title · Author".
type PreviewDelegate struct {
	styles func() theme.Styles
}

func (d PreviewDelegate) Height() int                               { return 1 }
func (d PreviewDelegate) Spacing() int                              { return 0 }
func (d PreviewDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d PreviewDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	p, ok := item.(render.Preview)
	if !ok {
		return
	}
	styles := d.styles()

	width := m.Width() - 2
	if width < 10 {
		width = 10
	}
	author := " · " + p.Author
	title := runewidth.Truncate(p.Title, max(width-runewidth.StringWidth(author), 4), "…")

	if index == m.Index() {
		fmt.Fprint(w, styles.SelectedItem.Render("> "+title+author))
		return
	}
	fmt.Fprint(w, "  "+styles.Item.Render(title)+styles.Author.Render(author))
}
