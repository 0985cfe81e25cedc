package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	spacetraveling "github.com/marcelafreire/desafio-spacetraveling"
)

var (
	envFile string
	cfg     spacetraveling.SiteConfig
)

var rootCmd = &cobra.Command{
	Use:   "spacetraveling",
	Short: "spacetraveling - a server-rendered blog for a headless content repository",
	Long: `spacetraveling renders a paginated post listing and article pages from a
Prismic-compatible content repository. Configuration comes from environment
variables, optionally loaded from a .env file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := loadConfig(envFile)
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	rootCmd.AddCommand(serveCmd, buildCmd, postsCmd, versionCmd)
}

func newApp() (*spacetraveling.App, error) {
	if cfg.PrismicEndpoint == "" {
		return nil, errors.New("PRISMIC_API_ENDPOINT is required")
	}
	return spacetraveling.New(cfg, spacetraveling.WithStaticDir(staticDir))
}
