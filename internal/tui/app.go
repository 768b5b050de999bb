package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/tuannvm/bookshelf/internal/booklist"
	"github.com/tuannvm/bookshelf/internal/catalog"
	"github.com/tuannvm/bookshelf/internal/components"
	"github.com/tuannvm/bookshelf/internal/config"
	"github.com/tuannvm/bookshelf/internal/logger"
	"github.com/tuannvm/bookshelf/internal/options"
	"github.com/tuannvm/bookshelf/internal/render"
	"github.com/tuannvm/bookshelf/internal/theme"
)

// Views
const (
	viewLoading  = "loading"
	viewList     = "list"
	viewSearch   = "search"
	viewSettings = "settings"
	viewDetail   = "detail"
)

// Search form fields, in tab order.
const (
	fieldTitle = iota
	fieldGenre
	fieldAuthor
	fieldCount
)

const noMatchesText = "No results found. Your filters might be too narrow."

// LoadFunc produces the catalog to browse.
type LoadFunc func(ctx context.Context) (*catalog.Catalog, error)

// App represents the main TUI application
type App struct {
	cfg    *config.Config
	load   LoadFunc
	holder *theme.Holder
	log    *logger.Logger
	ctx    context.Context

	current  string
	quitting bool
	width    int
	height   int

	// Sub-models
	spinner    spinner.Model
	items      list.Model
	titleInput textinput.Model
	genreSel   *components.Select
	authorSel  *components.Select
	themeSel   *components.Select
	toggle     *components.ThemeToggle

	// States
	books       *booklist.Manager
	more        showMoreButton
	noMatches   bool
	populated   bool
	searchField int
	detail      render.Detail
	err         error
}

// showMoreButton is the terminal rendition of the "show more" control.
type showMoreButton struct {
	disabled  bool
	remaining int
}

func (b *showMoreButton) SetDisabled(d bool) { b.disabled = d }
func (b *showMoreButton) SetRemaining(n int) { b.remaining = n }

// listContainer appends previews to the bubbles list.
type listContainer struct {
	l *list.Model
}

func (c listContainer) Append(previews ...render.Preview) {
	items := c.l.Items()
	for _, p := range previews {
		items = append(items, p)
	}
	c.l.SetItems(items)
}

func (c listContainer) Clear() {
	c.l.SetItems(nil)
}

// catalogLoadedMsg carries the loaded catalog.
type catalogLoadedMsg struct {
	catalog *catalog.Catalog
}

// loadError wraps a catalog load failure for the TUI
type loadError struct {
	err error
}

// Error returns the error message
func (e loadError) Error() string {
	return e.err.Error()
}

// NewApp creates a new TUI application
func NewApp(cfg *config.Config, load LoadFunc, holder *theme.Holder, log *logger.Logger) (*App, error) {
	if load == nil {
		return nil, fmt.Errorf("no catalog loader")
	}
	if holder == nil {
		holder = theme.NewHolder()
	}

	a := &App{
		cfg:     cfg,
		load:    load,
		holder:  holder,
		log:     log,
		ctx:     context.Background(),
		current: viewLoading,
		width:   80,
		height:  24,
	}

	// Initialize spinner
	a.spinner = spinner.New()
	a.spinner.Spinner = spinner.Dot
	a.spinner.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	// Initialize list container
	a.items = list.New(nil, PreviewDelegate{styles: a.styles}, a.width, a.listHeight())
	a.items.Title = "Books"
	a.items.SetShowHelp(false)
	a.items.SetShowStatusBar(false)
	a.items.SetFilteringEnabled(false)
	a.items.DisableQuitKeybindings()

	// Initialize search form
	a.titleInput = textinput.New()
	a.titleInput.Placeholder = "Any"
	a.titleInput.CharLimit = 100
	a.titleInput.Width = 50
	a.titleInput.Prompt = "Title: "
	a.genreSel = components.NewSelect("Genre", "genre")
	a.authorSel = components.NewSelect("Author", "author")

	// Initialize settings form
	a.themeSel = components.NewSelect("Theme", "theme")
	a.themeSel.AppendOptions(
		options.Option{Value: theme.Day.String(), Label: "Day"},
		options.Option{Value: theme.Night.String(), Label: "Night"},
	)
	a.toggle = components.NewThemeToggle(holder)

	holder.Subscribe(func(m theme.Mode) {
		a.themeSel.SetValue(m.String())
		a.log.WithFields(map[string]any{"mode": m.String()}).Debug("theme changed")
	})
	holder.Initialize(theme.Detector(cfg.Theme))

	return a, nil
}

// Run starts the TUI application
func (a *App) Run(ctx context.Context) error {
	a.ctx = ctx
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to start TUI: %w", err)
	}

	return nil
}

// Init initializes the TUI
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.spinner.Tick,
		textinput.Blink,
		a.loadCatalog(),
	)
}

func (a *App) loadCatalog() tea.Cmd {
	return func() tea.Msg {
		c, err := a.load(a.ctx)
		if err != nil {
			return loadError{fmt.Errorf("failed to load catalog: %w", err)}
		}
		return catalogLoadedMsg{catalog: c}
	}
}

func (a *App) styles() theme.Styles {
	return theme.StylesFor(a.holder.Vars())
}

func (a *App) listHeight() int {
	// header, message, button, help and error lines
	return max(a.height-7, 3)
}

// Update handles updates
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.items.SetSize(a.width, a.listHeight())
		return a, nil

	case catalogLoadedMsg:
		a.showCatalog(msg.catalog)
		return a, nil

	case loadError:
		a.err = msg
		a.log.Error(msg.err, "catalog load failed")
		return a, nil

	case spinner.TickMsg:
		if a.current != viewLoading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		switch a.current {
		case viewLoading:
			if key.Matches(msg, keys.Quit) {
				a.quitting = true
				return a, tea.Quit
			}
			return a, nil
		case viewSearch:
			return a.updateSearch(msg)
		case viewSettings:
			return a.updateSettings(msg)
		case viewDetail:
			return a.updateDetail(msg)
		default:
			return a.updateList(msg)
		}
	}

	var cmd tea.Cmd
	switch a.current {
	case viewList:
		a.items, cmd = a.items.Update(msg)
	case viewSearch:
		if a.searchField == fieldTitle {
			a.titleInput, cmd = a.titleInput.Update(msg)
		}
	}
	return a, cmd
}

// showCatalog renders the first page of a freshly loaded catalog.
func (a *App) showCatalog(c *catalog.Catalog) {
	a.books = booklist.New(c, a.cfg.PageSize)

	if !a.populated {
		options.Populate(a.genreSel, a.books.Genres(), "All Genres")
		options.Populate(a.authorSel, a.books.Authors(), "All Authors")
		a.populated = true
	}

	container := listContainer{&a.items}
	container.Clear()
	a.books.FirstPage(container)
	a.books.UpdateShowMore(&a.more)
	a.noMatches = a.books.Empty()
	a.err = nil
	a.current = viewList

	a.log.WithFields(map[string]any{
		"books":     len(c.Books),
		"page_size": a.books.PageSize(),
	}).Info("catalog loaded")
}

func (a *App) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		a.quitting = true
		return a, tea.Quit
	case key.Matches(msg, keys.Search):
		return a, a.openSearch()
	case key.Matches(msg, keys.Settings):
		a.themeSel.SetValue(a.holder.Mode().String())
		a.themeSel.Focus()
		a.current = viewSettings
		return a, nil
	case key.Matches(msg, keys.Toggle):
		a.toggle.Press()
		return a, nil
	case key.Matches(msg, keys.ShowMore):
		a.showMore()
		return a, nil
	case key.Matches(msg, keys.Enter):
		a.openDetail()
		return a, nil
	}

	var cmd tea.Cmd
	a.items, cmd = a.items.Update(msg)
	return a, cmd
}

// showMore renders the next page unless the control is disabled.
func (a *App) showMore() {
	if a.books == nil || a.more.disabled {
		return
	}
	a.books.NextPage(listContainer{&a.items}, &a.more)
}

func (a *App) openDetail() {
	p, ok := a.items.SelectedItem().(render.Preview)
	if !ok {
		return
	}
	d, ok := a.books.Detail(p.ID)
	if !ok {
		return
	}
	a.detail = d
	a.current = viewDetail
}

func (a *App) openSearch() tea.Cmd {
	a.current = viewSearch
	return a.focusSearchField(fieldTitle)
}

func (a *App) focusSearchField(field int) tea.Cmd {
	a.searchField = field
	a.titleInput.Blur()
	a.genreSel.Blur()
	a.authorSel.Blur()

	switch field {
	case fieldGenre:
		a.genreSel.Focus()
	case fieldAuthor:
		a.authorSel.Focus()
	default:
		return a.titleInput.Focus()
	}
	return nil
}

func (a *App) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.ForceQuit):
		a.quitting = true
		return a, tea.Quit
	case key.Matches(msg, keys.Close):
		a.titleInput.Blur()
		a.current = viewList
		return a, nil
	case key.Matches(msg, keys.Tab):
		return a, a.focusSearchField((a.searchField + 1) % fieldCount)
	case key.Matches(msg, keys.ShiftTab):
		return a, a.focusSearchField((a.searchField + fieldCount - 1) % fieldCount)
	case key.Matches(msg, keys.Enter):
		a.submitSearch()
		return a, nil
	}

	var cmd tea.Cmd
	switch a.searchField {
	case fieldGenre:
		cmd = a.genreSel.Update(msg)
	case fieldAuthor:
		cmd = a.authorSel.Update(msg)
	default:
		a.titleInput, cmd = a.titleInput.Update(msg)
	}
	return a, cmd
}

// submitSearch filters, replaces the list with the first page and closes
// the overlay.
func (a *App) submitSearch() {
	if a.books == nil {
		a.current = viewList
		return
	}
	criteria := booklist.Criteria{
		Genre:  a.genreSel.Value(),
		Author: a.authorSel.Value(),
		Title:  a.titleInput.Value(),
	}
	a.books.Filter(criteria)

	a.noMatches = a.books.Empty()
	container := listContainer{&a.items}
	container.Clear()
	a.books.FirstPage(container)
	a.books.UpdateShowMore(&a.more)
	a.items.Select(0)

	a.log.WithFields(map[string]any{
		"genre":   criteria.Genre,
		"author":  criteria.Author,
		"title":   criteria.Title,
		"matches": len(a.books.Matches()),
	}).Debug("search submitted")

	a.titleInput.Blur()
	a.current = viewList
}

func (a *App) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.ForceQuit):
		a.quitting = true
		return a, tea.Quit
	case key.Matches(msg, keys.Close):
		a.themeSel.SetValue(a.holder.Mode().String())
		a.themeSel.Blur()
		a.current = viewList
		return a, nil
	case key.Matches(msg, keys.Enter):
		if err := a.holder.Update(a.themeSel.Value()); err != nil {
			a.err = err
		}
		a.themeSel.Blur()
		a.current = viewList
		return a, nil
	}
	return a, a.themeSel.Update(msg)
}

func (a *App) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.ForceQuit):
		a.quitting = true
		return a, tea.Quit
	case key.Matches(msg, keys.Close), key.Matches(msg, keys.Enter), key.Matches(msg, keys.Quit):
		a.current = viewList
	}
	return a, nil
}

// View renders the TUI
func (a *App) View() string {
	if a.quitting {
		return "Goodbye!\n"
	}

	var s string

	switch a.current {
	case viewLoading:
		if a.err != nil {
			s = "\n"
		} else {
			return fmt.Sprintf("\n   %s Loading catalog... (press q to quit)\n", a.spinner.View())
		}
	case viewSearch:
		s = a.searchView()
	case viewSettings:
		s = a.settingsView()
	case viewDetail:
		s = a.detailView()
	default:
		s = a.listView()
	}

	if a.err != nil {
		s += "\n" + a.styles().Error.Render("Error: "+a.err.Error()) + "\n"
	}

	return s
}

func (a *App) listView() string {
	styles := a.styles()
	var b strings.Builder

	b.WriteString(styles.Header.Render("Book Connect"))
	b.WriteString("  ")
	b.WriteString(a.toggle.View(false))
	b.WriteString("\n")

	b.WriteString(a.items.View())
	b.WriteString("\n")

	if a.noMatches {
		b.WriteString(styles.Subtle.Render(noMatchesText))
		b.WriteString("\n")
	}

	button := fmt.Sprintf("Show more (%d)", a.more.remaining)
	if a.more.disabled {
		b.WriteString(styles.ButtonDisabled.Render(button))
	} else {
		b.WriteString(styles.Button.Render(button))
	}
	b.WriteString("\n\n")
	b.WriteString(styles.Subtle.Render(helpLine(keys.Search, keys.Settings, keys.Toggle, keys.ShowMore, keys.Enter, keys.Quit)))
	b.WriteString("\n")
	return b.String()
}

func (a *App) overlay(title, body, help string) string {
	styles := a.styles()
	content := styles.Header.Render(title) + "\n\n" + body + "\n\n" + styles.Subtle.Render(help)
	return styles.Overlay.Width(min(a.width-4, 72)).Render(content) + "\n"
}

func (a *App) searchView() string {
	body := fmt.Sprintf("%s\n\n%s\n\n%s",
		a.titleInput.View(),
		a.genreSel.View(),
		a.authorSel.View(),
	)
	return a.overlay("Search", body, helpLine(keys.Tab, keys.Enter, keys.Close))
}

func (a *App) settingsView() string {
	return a.overlay("Settings", a.themeSel.View(), helpLine(keys.Enter, keys.Close))
}

func (a *App) detailView() string {
	styles := a.styles()
	width := max(min(a.width-8, 68), 20)

	body := strings.Join([]string{
		styles.Subtle.Render("Blur:  " + a.detail.Image),
		styles.Subtle.Render("Cover: " + a.detail.Image),
		"",
		lipgloss.NewStyle().Bold(true).Render(a.detail.Title),
		styles.Author.Render(a.detail.Subtitle),
		"",
		wordwrap.String(a.detail.Description, width),
	}, "\n")
	return a.overlay("Book", body, helpLine(keys.Close))
}
