package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	spacetraveling "github.com/marcelafreire/desafio-spacetraveling"
)

// loadConfig reads the site configuration from the environment after loading
// envFile, if it exists. Variables already set in the environment win over
// the file.
func loadConfig(envFile string) (spacetraveling.SiteConfig, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return spacetraveling.SiteConfig{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	v := viper.New()

	v.SetDefault("PRISMIC_API_ENDPOINT", "")
	v.SetDefault("PRISMIC_ACCESS_TOKEN", "")
	v.SetDefault("SITE_NAME", "spacetraveling")
	v.SetDefault("SITE_URL", "http://localhost:3000")
	v.SetDefault("SITE_DESCRIPTION", "")
	v.SetDefault("SITE_LOCALE", "pt-BR")
	v.SetDefault("ADDR", ":3000")
	v.SetDefault("SNAPSHOT_DATABASE_PATH", "data/pages.db")
	v.SetDefault("POSTS_PAGE_SIZE", 2)
	v.SetDefault("PAGE_REVALIDATE", "30m")
	v.SetDefault("CONTENT_TIMEOUT", "10s")
	v.SetDefault("LOAD_MORE_POLICY", "surface")
	v.SetDefault("LOAD_MORE_RETRIES", 2)
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")

	v.AutomaticEnv()

	var c spacetraveling.SiteConfig
	if err := v.Unmarshal(&c); err != nil {
		return spacetraveling.SiteConfig{}, fmt.Errorf("unable to decode config: %w", err)
	}
	return c, nil
}
