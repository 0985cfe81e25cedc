package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	spacetraveling "github.com/marcelafreire/desafio-spacetraveling"
)

var allPages bool

var postsCmd = &cobra.Command{
	Use:   "posts",
	Short: "List posts as the listing page shows them",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		listing, err := app.Listing(cmd.Context())
		if err != nil {
			return err
		}
		for allPages {
			outcome, err := listing.LoadMore(cmd.Context())
			if err != nil {
				return err
			}
			if outcome != spacetraveling.LoadSucceeded {
				break
			}
		}
		state := listing.State()
		if err := printPosts(cmd.OutOrStdout(), state.Results); err != nil {
			return err
		}
		if state.HasMore() {
			fmt.Fprintln(cmd.OutOrStdout(), "\nMore posts available; run with --all to load every page.")
		}
		return nil
	},
}

func init() {
	postsCmd.Flags().BoolVar(&allPages, "all", false, "keep loading pages until the listing is exhausted")
}

func printPosts(w io.Writer, posts []spacetraveling.Post) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tUID\tTITLE\tAUTHOR")
	for _, p := range posts {
		date := "-"
		if p.FirstPublicationDate != nil {
			date = p.FirstPublicationDate.Format("2006-01-02")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", date, p.UID, p.Data.Title, p.Data.Author)
	}
	return tw.Flush()
}
