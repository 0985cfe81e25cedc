package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	spacetraveling "github.com/marcelafreire/desafio-spacetraveling"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PRISMIC_API_ENDPOINT", "https://repo.example.com/api/v2")

	c, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "https://repo.example.com/api/v2", c.PrismicEndpoint)
	assert.Equal(t, "spacetraveling", c.Name)
	assert.Equal(t, "pt-BR", c.Locale)
	assert.Equal(t, ":3000", c.Addr)
	assert.Equal(t, 2, c.PageSize)
	assert.Equal(t, 30*time.Minute, c.Revalidate)
	assert.Equal(t, 10*time.Second, c.ContentTimeout)
	assert.Equal(t, "surface", c.LoadMorePolicy)
	assert.Equal(t, 2, c.LoadMoreRetries)
	assert.Equal(t, "data/pages.db", c.DatabasePath)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("POSTS_PAGE_SIZE", "5")
	t.Setenv("PAGE_REVALIDATE", "1h")
	t.Setenv("LOAD_MORE_POLICY", "retry")
	t.Setenv("SITE_LOCALE", "en")

	c, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 5, c.PageSize)
	assert.Equal(t, time.Hour, c.Revalidate)
	assert.Equal(t, "retry", c.LoadMorePolicy)
	assert.Equal(t, "en", c.Locale)
}

func TestLoadConfigReadsEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("SITE_NAME=from-dotenv\nADDR=:4000\n"), 0o600))
	t.Setenv("ADDR", ":5000")
	t.Cleanup(func() { os.Unsetenv("SITE_NAME") })

	c, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", c.Name)
	assert.Equal(t, ":5000", c.Addr, "the environment wins over the file")
}

func TestLoadConfigMissingEnvFileIsFine(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, err)
}

func TestPrintPosts(t *testing.T) {
	date := time.Date(2021, 3, 25, 0, 0, 0, 0, time.UTC)
	var buf bytes.Buffer
	err := printPosts(&buf, []spacetraveling.Post{
		{UID: "hooks", FirstPublicationDate: &date, Data: spacetraveling.PostData{Title: "Hooks", Author: "Ana"}},
		{UID: "undated", Data: spacetraveling.PostData{Title: "Undated", Author: "Bia"}},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "DATE"))
	assert.Contains(t, lines[1], "2021-03-25")
	assert.Contains(t, lines[1], "hooks")
	assert.True(t, strings.HasPrefix(lines[2], "-"))
}
