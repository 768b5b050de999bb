package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/tuannvm/bookshelf/internal/booklist"
	"github.com/tuannvm/bookshelf/internal/config"
	"github.com/tuannvm/bookshelf/internal/logger"
	"github.com/tuannvm/bookshelf/internal/options"
	"github.com/tuannvm/bookshelf/internal/page"
	"github.com/tuannvm/bookshelf/internal/theme"
)

// ExportOptions describe the state the exported page is rendered in.
type ExportOptions struct {
	Criteria booklist.Criteria
	// Pages is how many pages are shown, at least one.
	Pages int
	// Select opens the detail overlay for this book id.
	Select string
	// Theme overrides the configured theme: "auto", "day" or "night".
	Theme string
	// Template is a host page file; empty uses the built-in one.
	Template string
}

// Export renders the host page with the catalog applied, the way the page
// would look after the given search and "show more" presses.
func Export(ctx context.Context, cfg *config.Config, opts ExportOptions, w io.Writer, log *logger.Logger) error {
	c, err := CatalogLoader(cfg, log)(ctx)
	if err != nil {
		return err
	}

	doc, err := loadTemplate(opts.Template)
	if err != nil {
		return err
	}
	p, err := doc.Bind()
	if err != nil {
		return err
	}

	holder := theme.NewHolder()
	holder.Subscribe(func(m theme.Mode) {
		p.ApplyTheme(m, theme.VarsFor(m))
	})
	setting := cfg.Theme
	if opts.Theme != "" {
		setting = opts.Theme
	}
	holder.Initialize(theme.Detector(setting))

	books := booklist.New(c, cfg.PageSize)
	options.Populate(p.Genres(), books.Genres(), "All Genres")
	options.Populate(p.Authors(), books.Authors(), "All Authors")

	criteria := opts.Criteria
	if criteria.Genre == "" {
		criteria.Genre = booklist.Any
	}
	if criteria.Author == "" {
		criteria.Author = booklist.Any
	}
	books.Filter(criteria)
	p.SetCriteria(criteria)

	p.ClearList()
	books.FirstPage(p)
	books.UpdateShowMore(p)
	p.SetNoMatches(books.Empty())
	for i := 1; i < opts.Pages; i++ {
		books.NextPage(p, p)
	}

	if opts.Select != "" {
		d, ok := books.Detail(opts.Select)
		if !ok {
			return fmt.Errorf("no book with id %q", opts.Select)
		}
		p.ShowDetail(d)
	}

	p.AttachElements(holder, log)

	log.WithFields(map[string]any{
		"matches": len(books.Matches()),
		"pages":   books.Page(),
		"theme":   holder.Mode().String(),
	}).Info("page exported")

	return p.Render(w)
}

// ExportFile runs Export into path, or stdout when path is empty or "-".
func ExportFile(ctx context.Context, opts Options, export ExportOptions, path string, stdout, stderr io.Writer) error {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return err
	}
	log, err := stderrLogger(cfg, stderr)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(ctx)
	defer cancel()

	if path == "" || path == "-" {
		return Export(ctx, cfg, export, stdout, log)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := Export(ctx, cfg, export, f, log); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func loadTemplate(path string) (*page.Document, error) {
	if path == "" {
		return page.Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open template: %w", err)
	}
	defer f.Close()
	return page.Load(f)
}
