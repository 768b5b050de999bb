package main

import (
	"github.com/spf13/cobra"

	"github.com/tuannvm/bookshelf/internal/app"
	"github.com/tuannvm/bookshelf/internal/booklist"
)

type exportFlags struct {
	genre    string
	author   string
	title    string
	pages    int
	selectID string
	theme    string
	template string
	output   string
}

func newExportCmd(opts *app.Options) *cobra.Command {
	flags := &exportFlags{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render the catalog into a static HTML page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			export := app.ExportOptions{
				Criteria: booklist.Criteria{
					Genre:  flags.genre,
					Author: flags.author,
					Title:  flags.title,
				},
				Pages:    flags.pages,
				Select:   flags.selectID,
				Theme:    flags.theme,
				Template: flags.template,
			}
			return app.ExportFile(cmd.Context(), *opts, export, flags.output, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&flags.genre, "genre", booklist.Any, "Genre id to filter by")
	cmd.Flags().StringVar(&flags.author, "author", booklist.Any, "Author id to filter by")
	cmd.Flags().StringVar(&flags.title, "title", "", "Case-insensitive title substring")
	cmd.Flags().IntVar(&flags.pages, "pages", 1, "Number of pages to show")
	cmd.Flags().StringVar(&flags.selectID, "select", "", "Open the detail view for this book id")
	cmd.Flags().StringVar(&flags.theme, "theme", "", "Theme: auto, day or night (default from config)")
	cmd.Flags().StringVar(&flags.template, "template", "", "Host page template (default built-in)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "-", "Output file, - for stdout")

	return cmd
}
