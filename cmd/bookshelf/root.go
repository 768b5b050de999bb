package main

import (
	"github.com/spf13/cobra"

	"github.com/tuannvm/bookshelf/internal/app"
)

func newRootCmd() *cobra.Command {
	opts := &app.Options{}

	cmd := &cobra.Command{
		Use:           "bookshelf",
		Short:         "Browse a book catalog in the terminal",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), *opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "Config file (default $UserConfigDir/bookshelf/config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.Catalog, "catalog", "", "Catalog file or http(s) URL (default built-in)")
	cmd.PersistentFlags().BoolVar(&opts.Debug, "debug", false, "Write debug logs")

	cmd.AddCommand(newExportCmd(opts))
	cmd.AddCommand(newVersionCmd())

	return cmd
}
