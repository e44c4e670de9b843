package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"NavScan/internal/domain/models"
	drepo "NavScan/internal/domain/repository"
	applogger "NavScan/pkg/logger"
)

const insertChunk = 2000

// ClickHouseDatasetStore keeps the flat dataset in a ClickHouse table. The
// seq column carries the insertion order.
type ClickHouseDatasetStore struct {
	db       *sql.DB
	database string
	table    string
	l        *applogger.Logger
}

func NewClickHouseDatasetStore(db *sql.DB, database, table string, l *applogger.Logger) *ClickHouseDatasetStore {
	return &ClickHouseDatasetStore{db: db, database: database, table: table, l: l}
}

var _ drepo.DatasetStore = (*ClickHouseDatasetStore)(nil)

func (s *ClickHouseDatasetStore) fqtn() string {
	if s.database == "" {
		return s.table
	}
	return s.database + "." + s.table
}

func (s *ClickHouseDatasetStore) Location() string {
	return "clickhouse://" + s.fqtn()
}

// SchemaDDL returns the statements that create the dataset table.
func (s *ClickHouseDatasetStore) SchemaDDL() []string {
	stmts := make([]string, 0, 2)
	if s.database != "" {
		stmts = append(stmts, fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", s.database))
	}
	stmts = append(stmts, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    seq    UInt64,
    ticker LowCardinality(String),
    date   Date,
    nav    Float64,
    ret    Nullable(Float64)
) ENGINE = MergeTree
ORDER BY seq`, s.fqtn()))
	return stmts
}

// Save replaces the table contents with records.
func (s *ClickHouseDatasetStore) Save(ctx context.Context, records []models.PriceRecord) error {
	start := time.Now()
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf("TRUNCATE TABLE IF EXISTS %s", s.fqtn())); err != nil {
		return fmt.Errorf("truncate dataset: %w", err)
	}

	for lo := 0; lo < len(records); lo += insertChunk {
		hi := min(lo+insertChunk, len(records))

		values := make([]string, 0, hi-lo)
		args := make([]any, 0, (hi-lo)*5)
		for i := lo; i < hi; i++ {
			r := records[i]
			values = append(values, "(?, ?, ?, ?, ?)")
			args = append(args, uint64(i), r.Ticker, r.Date, r.NAV, r.Return)
		}
		q := fmt.Sprintf("INSERT INTO %s (seq, ticker, date, nav, ret) VALUES %s", s.fqtn(), strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("insert dataset rows %d-%d: %w", lo, hi, err)
		}
	}

	s.l.Info("clickhouse dataset saved",
		applogger.String("table", s.fqtn()),
		applogger.Int("rows", len(records)),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return nil
}

// Load returns every row ordered by seq.
func (s *ClickHouseDatasetStore) Load(ctx context.Context) ([]models.PriceRecord, error) {
	q := fmt.Sprintf("SELECT ticker, date, nav, ret FROM %s ORDER BY seq ASC", s.fqtn())
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query dataset: %w", err)
	}
	defer rows.Close()

	out := make([]models.PriceRecord, 0, 4096)
	for rows.Next() {
		var r models.PriceRecord
		if err := rows.Scan(&r.Ticker, &r.Date, &r.NAV, &r.Return); err != nil {
			return nil, fmt.Errorf("scan dataset row: %w", err)
		}
		r.Date = r.Date.UTC()
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	if len(out) == 0 {
		return nil, drepo.ErrEmptyDataset
	}
	return out, nil
}
