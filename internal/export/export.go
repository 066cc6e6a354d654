// Sinks for a finished ResultSet. CSV is the primary output; the others
// mirror it when configured.

package export

import (
	"context"
	"time"

	"github.com/google/uuid"

	"go-vacancy-collector/internal/scraper"
)

// Meta describes the run being exported.
type Meta struct {
	RunID       uuid.UUID
	CollectedAt time.Time
	Sentinel    string
}

type Exporter interface {
	Name() string
	Export(ctx context.Context, rs *scraper.ResultSet, meta Meta) error
}

func sentinelOf(meta Meta) string {
	if meta.Sentinel == "" {
		return scraper.DefaultSentinel
	}
	return meta.Sentinel
}
