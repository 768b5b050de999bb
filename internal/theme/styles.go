package theme

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles are the lipgloss styles the terminal host draws with.
type Styles struct {
	App            lipgloss.Style
	Header         lipgloss.Style
	Item           lipgloss.Style
	SelectedItem   lipgloss.Style
	Author         lipgloss.Style
	Subtle         lipgloss.Style
	Button         lipgloss.Style
	ButtonDisabled lipgloss.Style
	Overlay        lipgloss.Style
	Error          lipgloss.Style
}

// StylesFor derives styles from a variable pair. Dark ink is the text
// colour and light ink the background.
func StylesFor(v Vars) Styles {
	fg := Color(v.DarkInk)
	bg := Color(v.LightInk)
	accent := lipgloss.Color("62")

	return Styles{
		App:            lipgloss.NewStyle().Foreground(fg).Background(bg),
		Header:         lipgloss.NewStyle().Foreground(fg).Bold(true).Padding(0, 1),
		Item:           lipgloss.NewStyle().Foreground(fg),
		SelectedItem:   lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(accent).Bold(true),
		Author:         lipgloss.NewStyle().Foreground(fg).Faint(true),
		Subtle:         lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Button:         lipgloss.NewStyle().Foreground(bg).Background(fg).Padding(0, 1),
		ButtonDisabled: lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1).Faint(true),
		Overlay:        lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent).Padding(1, 2),
		Error:          lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
}

// Color turns an "r, g, b" triple into a hex lipgloss colour. Malformed
// triples give an empty colour, which lipgloss treats as unset.
func Color(triple string) lipgloss.Color {
	parts := strings.Split(triple, ",")
	if len(parts) != 3 {
		return lipgloss.Color("")
	}
	var rgb [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 || n > 255 {
			return lipgloss.Color("")
		}
		rgb[i] = n
	}
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", rgb[0], rgb[1], rgb[2]))
}

// CSS renders the variables as an inline style declaration.
func CSS(v Vars) string {
	return fmt.Sprintf("--color-dark: %s; --color-light: %s;", v.DarkInk, v.LightInk)
}
