package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Row is one stored vacancy: its position within the run and its fields as
// a JSON object.
type Row struct {
	Position int
	Data     []byte
}

// Batch is everything a single run stores.
type Batch struct {
	RunID       uuid.UUID
	Source      string
	CollectedAt time.Time
	Rows        []Row
}

type Repository struct {
	db    *pgxpool.Pool
	table string
}

func ConnectDB(ctx context.Context, connString, table string) (*Repository, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("database: unable to parse database url: %w", err)
	}

	config.MaxConns = 4
	config.MinConns = 1
	config.MaxConnLifetime = time.Hour

	// Transaction-mode poolers cannot hold prepared statements.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("database: unable to connect: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database: unreachable: %w", err)
	}

	return &Repository{db: pool, table: table}, nil
}

func (r *Repository) Close() {
	if r.db != nil {
		r.db.Close()
	}
}

// SchemaSQL returns the DDL for the vacancy table.
func SchemaSQL(table string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	run_id       uuid        NOT NULL,
	source       text        NOT NULL,
	position     integer     NOT NULL,
	data         jsonb       NOT NULL,
	collected_at timestamptz NOT NULL,
	PRIMARY KEY (run_id, source, position)
)`, pgx.Identifier{table}.Sanitize())
}

var columns = []string{"run_id", "source", "position", "data", "collected_at"}

// SaveBatch stores a run in one transaction; either every row lands or none.
func (r *Repository) SaveBatch(ctx context.Context, b Batch) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("database: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, SchemaSQL(r.table)); err != nil {
		return 0, fmt.Errorf("database: ensure schema: %w", err)
	}

	n, err := tx.CopyFrom(ctx, pgx.Identifier{r.table}, columns, pgx.CopyFromRows(CopyRows(b)))
	if err != nil {
		return 0, fmt.Errorf("database: copy vacancies: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("database: commit: %w", err)
	}
	return n, nil
}

// CopyRows lays a batch out in column order.
func CopyRows(b Batch) [][]any {
	rows := make([][]any, len(b.Rows))
	for i, row := range b.Rows {
		rows[i] = []any{b.RunID, b.Source, row.Position, row.Data, b.CollectedAt}
	}
	return rows
}
