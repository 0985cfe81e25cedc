package spacetraveling

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/marcelafreire/desafio-spacetraveling/views"
)

// ExportResult summarizes a static export.
type ExportResult struct {
	Pages  int
	Assets int
}

// Export renders the listing and every article into outDir as index.html
// files and copies the embedded assets to outDir/public. A malformed
// document aborts the export.
func (a *App) Export(ctx context.Context, outDir string) (ExportResult, error) {
	var res ExportResult
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return res, fmt.Errorf("create output directory %q: %w", outDir, err)
	}

	home, err := a.Repo.HomePage(ctx)
	if err != nil {
		return res, fmt.Errorf("render home: %w", err)
	}
	html, err := RenderBytes(ctx, views.Home(a.site(), a.summaries(home.Results), home.NextPage))
	if err != nil {
		return res, err
	}
	if err := writePage(outDir, "index.html", html); err != nil {
		return res, err
	}
	res.Pages++

	uids, err := a.Repo.StaticPaths(ctx)
	if err != nil {
		return res, err
	}
	for _, uid := range uids {
		html, err := a.renderPost(ctx, uid)
		if errors.Is(err, ErrNotFound) {
			a.Logger.WarnContext(ctx, "post disappeared during export", "uid", uid)
			continue
		}
		if err != nil {
			return res, fmt.Errorf("render %s: %w", PostPath(uid), err)
		}
		if err := writePage(outDir, filepath.Join("post", uid, "index.html"), html); err != nil {
			return res, err
		}
		res.Pages++
	}

	n, err := copyAssets(filepath.Join(outDir, "public"))
	if err != nil {
		return res, fmt.Errorf("copy assets: %w", err)
	}
	res.Assets = n
	return res, nil
}

func writePage(outDir, rel string, html []byte) error {
	target := filepath.Join(outDir, rel)
	if !filepath.IsLocal(rel) {
		return fmt.Errorf("refusing to write outside %q: %s", outDir, rel)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	return os.WriteFile(target, html, 0o644)
}

func copyAssets(dst string) (int, error) {
	assets, err := fs.Sub(EmbeddedAssets, "embedded")
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return 0, err
	}
	n := 0
	err = fs.WalkDir(assets, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fs.ReadFile(assets, path)
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(dst, filepath.FromSlash(path)), data, 0o644); err != nil {
			return err
		}
		n++
		return nil
	})
	return n, err
}
