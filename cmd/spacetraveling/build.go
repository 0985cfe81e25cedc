package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var outDir string

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Render the listing and every post to static HTML",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		res, err := app.Export(cmd.Context(), outDir)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d pages and %d assets to %s\n", res.Pages, res.Assets, outDir)
		return nil
	},
}

func init() {
	buildCmd.Flags().StringVar(&outDir, "out", "dist", "output directory")
}
