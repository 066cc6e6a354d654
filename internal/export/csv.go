package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"go-vacancy-collector/internal/scraper"
)

// CSV writes the result set to Path as UTF-8 with a byte order mark,
// replacing any previous file.
type CSV struct {
	Path string
}

func (c CSV) Name() string {
	return "csv"
}

func (c CSV) Export(_ context.Context, rs *scraper.ResultSet, meta Meta) error {
	if dir := filepath.Dir(c.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("export: create dir for %s: %w", c.Path, err)
		}
	}

	f, err := os.Create(c.Path)
	if err != nil {
		return fmt.Errorf("export: create %s: %w", c.Path, err)
	}

	if err := WriteCSV(f, rs, sentinelOf(meta)); err != nil {
		_ = f.Close()
		return fmt.Errorf("export: write %s: %w", c.Path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("export: close %s: %w", c.Path, err)
	}
	return nil
}

// WriteCSV renders the header and one row per vacancy.
func WriteCSV(w io.Writer, rs *scraper.ResultSet, sentinel string) error {
	bom := transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())
	cw := csv.NewWriter(bom)

	if err := cw.Write(rs.Header()); err != nil {
		return err
	}
	if err := cw.WriteAll(rs.Rows(sentinel)); err != nil {
		return err
	}
	return bom.Close()
}
