// Package page binds the browser to a static HTML host page. The page is
// located through data-* hook attributes; every hook is required.
package page

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"strconv"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tuannvm/bookshelf/internal/booklist"
	"github.com/tuannvm/bookshelf/internal/components"
	"github.com/tuannvm/bookshelf/internal/logger"
	"github.com/tuannvm/bookshelf/internal/options"
	"github.com/tuannvm/bookshelf/internal/render"
	"github.com/tuannvm/bookshelf/internal/theme"
)

//go:embed templates/index.html
var defaultTemplate []byte

// Hook names, without the data- prefix.
const (
	HookSearchOverlay   = "search-overlay"
	HookSearchForm      = "search-form"
	HookSearchTitle     = "search-title"
	HookSearchGenres    = "search-genres"
	HookSearchAuthors   = "search-authors"
	HookSearchCancel    = "search-cancel"
	HookSettingsOverlay = "settings-overlay"
	HookSettingsForm    = "settings-form"
	HookSettingsTheme   = "settings-theme"
	HookSettingsCancel  = "settings-cancel"
	HookHeaderSearch    = "header-search"
	HookHeaderSettings  = "header-settings"
	HookListItems       = "list-items"
	HookListMessage     = "list-message"
	HookListButton      = "list-button"
	HookListActive      = "list-active"
	HookListBlur        = "list-blur"
	HookListImage       = "list-image"
	HookListTitle       = "list-title"
	HookListSubtitle    = "list-subtitle"
	HookListDescription = "list-description"
	HookListClose       = "list-close"
)

var requiredHooks = []string{
	HookSearchOverlay, HookSearchForm, HookSearchTitle, HookSearchGenres, HookSearchAuthors, HookSearchCancel,
	HookSettingsOverlay, HookSettingsForm, HookSettingsTheme, HookSettingsCancel,
	HookHeaderSearch, HookHeaderSettings,
	HookListItems, HookListMessage, HookListButton,
	HookListActive, HookListBlur, HookListImage, HookListTitle, HookListSubtitle, HookListDescription, HookListClose,
}

const noMatchesClass = "list__message_show"

// MissingHookError names a hook the host page does not provide.
type MissingHookError struct {
	Hook string
}

func (e *MissingHookError) Error() string {
	return fmt.Sprintf("host page has no [data-%s] element", e.Hook)
}

// Document is a parsed, unbound host page.
type Document struct {
	doc *goquery.Document
}

// Load parses a host page template.
func Load(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse host page: %w", err)
	}
	return &Document{doc: doc}, nil
}

// Default parses the embedded host page.
func Default() (*Document, error) {
	return Load(bytes.NewReader(defaultTemplate))
}

// Page is a host page with every hook resolved. It is the list container,
// the show-more control and the option target for the search form.
type Page struct {
	doc   *goquery.Document
	hooks map[string]*goquery.Selection
}

// Bind resolves every required hook, failing on the first missing one.
func (d *Document) Bind() (*Page, error) {
	hooks := make(map[string]*goquery.Selection, len(requiredHooks))
	for _, name := range requiredHooks {
		sel := d.doc.Find("[data-" + name + "]").First()
		if sel.Length() == 0 {
			return nil, &MissingHookError{Hook: name}
		}
		hooks[name] = sel
	}
	return &Page{doc: d.doc, hooks: hooks}, nil
}

// Hook returns the bound selection for name.
func (p *Page) Hook(name string) *goquery.Selection {
	return p.hooks[name]
}

// Append adds preview nodes to the list.
func (p *Page) Append(previews ...render.Preview) {
	nodes := make([]*html.Node, 0, len(previews))
	for _, pv := range previews {
		nodes = append(nodes, pv.HTML())
	}
	p.hooks[HookListItems].AppendNodes(nodes...)
}

// ClearList removes every rendered preview.
func (p *Page) ClearList() {
	p.hooks[HookListItems].Empty()
}

// SetDisabled sets or removes the disabled attribute of the show-more button.
func (p *Page) SetDisabled(disabled bool) {
	btn := p.hooks[HookListButton]
	if disabled {
		btn.SetAttr("disabled", "")
		return
	}
	btn.RemoveAttr("disabled")
}

// SetRemaining rewrites the show-more label with the remaining count.
func (p *Page) SetRemaining(n int) {
	label := render.Element(atom.Span)
	label.AppendChild(render.Text("Show more"))
	count := render.Element(atom.Span, "class", "list__remaining")
	count.AppendChild(render.Text(" (" + strconv.Itoa(n) + ")"))

	btn := p.hooks[HookListButton]
	btn.Empty()
	btn.AppendNodes(label, count)
}

// SetNoMatches shows or hides the no-results message.
func (p *Page) SetNoMatches(show bool) {
	msg := p.hooks[HookListMessage]
	if show {
		msg.AddClass(noMatchesClass)
		return
	}
	msg.RemoveClass(noMatchesClass)
}

// Genres is the genre select of the search form.
func (p *Page) Genres() options.Target {
	return selectTarget{p.hooks[HookSearchGenres]}
}

// Authors is the author select of the search form.
func (p *Page) Authors() options.Target {
	return selectTarget{p.hooks[HookSearchAuthors]}
}

// SetCriteria reflects a search into the form fields.
func (p *Page) SetCriteria(c booklist.Criteria) {
	p.hooks[HookSearchTitle].SetAttr("value", c.Title)
	selectValue(p.hooks[HookSearchGenres], c.Genre)
	selectValue(p.hooks[HookSearchAuthors], c.Author)
}

// ApplyTheme writes the colour variables on the root element and selects
// mode in the settings form.
func (p *Page) ApplyTheme(mode theme.Mode, vars theme.Vars) {
	p.doc.Find("html").SetAttr("style", theme.CSS(vars))
	selectValue(p.hooks[HookSettingsTheme], mode.String())
}

// SetOpen opens or closes an overlay hook.
func (p *Page) SetOpen(hook string, open bool) {
	sel := p.hooks[hook]
	if open {
		sel.SetAttr("open", "")
		return
	}
	sel.RemoveAttr("open")
}

// ShowDetail fills the detail overlay and opens it.
func (p *Page) ShowDetail(d render.Detail) {
	p.hooks[HookListBlur].SetAttr("src", d.Image)
	p.hooks[HookListImage].SetAttr("src", d.Image)
	p.hooks[HookListTitle].SetText(d.Title)
	p.hooks[HookListSubtitle].SetText(d.Subtitle)
	p.hooks[HookListDescription].SetText(d.Description)
	p.SetOpen(HookListActive, true)
}

// AttachElements renders every <search-filter> and <theme-toggler> in the
// page and returns how many were attached.
func (p *Page) AttachElements(holder *theme.Holder, log *logger.Logger) int {
	attached := 0
	p.doc.Find(components.DropdownTag).Each(func(_ int, s *goquery.Selection) {
		d := &components.FilterDropdown{
			Options:       s.AttrOr("options", ""),
			DefaultOption: s.AttrOr("default-option", ""),
		}
		d.Attach(log)
		s.Empty()
		s.AppendNodes(d.HTML()...)
		attached++
	})

	toggle := components.NewThemeToggle(holder)
	p.doc.Find(components.ToggleTag).Each(func(_ int, s *goquery.Selection) {
		s.Empty()
		s.AppendNodes(toggle.HTML())
		attached++
	})
	return attached
}

// Render writes the whole document.
func (p *Page) Render(w io.Writer) error {
	for _, n := range p.doc.Nodes {
		if err := html.Render(w, n); err != nil {
			return fmt.Errorf("render host page: %w", err)
		}
	}
	return nil
}

// selectTarget appends option nodes to a <select>.
type selectTarget struct {
	sel *goquery.Selection
}

func (t selectTarget) AppendOptions(opts ...options.Option) {
	nodes := make([]*html.Node, 0, len(opts))
	for _, o := range opts {
		nodes = append(nodes, o.HTML())
	}
	t.sel.AppendNodes(nodes...)
}

// selectValue marks the first option with value v as selected.
func selectValue(sel *goquery.Selection, v string) {
	opts := sel.Find("option")
	opts.RemoveAttr("selected")
	opts.FilterFunction(func(_ int, o *goquery.Selection) bool {
		return o.AttrOr("value", "") == v
	}).First().SetAttr("selected", "")
}
