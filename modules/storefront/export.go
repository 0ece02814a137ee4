package storefront

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cannacraft/storefront/site"
)

// ExportFileName is the name of the standalone page written by ExportFile.
const ExportFileName = "index.html"

// Export writes the standalone page (styles and script inlined) to w.
func Export(ctx context.Context, w io.Writer) error {
	page, err := renderPage(site.NewNavigator(site.Home), RenderOptions{Standalone: true})
	if err != nil {
		return err
	}
	return page.Render(ctx, w)
}

// ExportFile writes the standalone page into dir and returns its absolute path.
func ExportFile(ctx context.Context, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating export dir: %w", err)
	}

	path, err := filepath.Abs(filepath.Join(dir, ExportFileName))
	if err != nil {
		return "", err
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	if err := Export(ctx, f); err != nil {
		f.Close()
		return "", fmt.Errorf("rendering standalone page: %w", err)
	}
	return path, f.Close()
}
