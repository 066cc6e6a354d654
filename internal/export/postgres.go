package export

import (
	"context"
	"encoding/json"
	"fmt"

	"go-vacancy-collector/internal/database"
	"go-vacancy-collector/internal/scraper"
)

// BatchSaver is the part of the repository the exporter uses.
type BatchSaver interface {
	SaveBatch(ctx context.Context, b database.Batch) (int64, error)
}

// Postgres stores each vacancy as a jsonb row keyed by run and position.
type Postgres struct {
	Repo BatchSaver
}

func (p Postgres) Name() string {
	return "postgres"
}

func (p Postgres) Export(ctx context.Context, rs *scraper.ResultSet, meta Meta) error {
	batch, err := BuildBatch(rs, meta)
	if err != nil {
		return err
	}
	if _, err := p.Repo.SaveBatch(ctx, batch); err != nil {
		return fmt.Errorf("export: postgres: %w", err)
	}
	return nil
}

// BuildBatch encodes every vacancy as a JSON object of its fields. Absent
// fields are omitted rather than filled with the sentinel.
func BuildBatch(rs *scraper.ResultSet, meta Meta) (database.Batch, error) {
	records := rs.Records()
	batch := database.Batch{
		RunID:       meta.RunID,
		Source:      rs.Source(),
		CollectedAt: meta.CollectedAt,
		Rows:        make([]database.Row, len(records)),
	}
	for i, rec := range records {
		obj := make(map[string]string, len(rec))
		for _, f := range rec {
			obj[f.Name] = f.Value
		}
		data, err := json.Marshal(obj)
		if err != nil {
			return database.Batch{}, fmt.Errorf("export: encode vacancy %d: %w", i, err)
		}
		batch.Rows[i] = database.Row{Position: i, Data: data}
	}
	return batch, nil
}
