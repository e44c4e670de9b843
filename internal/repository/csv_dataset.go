package repository

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"NavScan/internal/domain/models"
	drepo "NavScan/internal/domain/repository"
	"NavScan/pkg/util"
)

var datasetHeader = []string{"Ticker", "Date", "NAV", "Return"}

// CSVDatasetStore keeps the flat dataset in a single CSV file.
type CSVDatasetStore struct {
	path string
}

func NewCSVDatasetStore(path string) *CSVDatasetStore {
	return &CSVDatasetStore{path: path}
}

var _ drepo.DatasetStore = (*CSVDatasetStore)(nil)

func (s *CSVDatasetStore) Location() string { return s.path }

// Save overwrites the file. The write goes to a sibling temp file first so a
// failed run never leaves a truncated dataset behind.
func (s *CSVDatasetStore) Save(_ context.Context, records []models.PriceRecord) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create dataset dir: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create dataset: %w", err)
	}

	if err := WriteRecords(f, datasetHeader, records, nil); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close dataset: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("rename dataset: %w", err)
	}
	return nil
}

// WriteRecords writes header plus one row per record. extra, when non-nil,
// returns additional cells appended after the four base columns.
func WriteRecords(w io.Writer, header []string, records []models.PriceRecord, extra func(i int) []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, r := range records {
		row := []string{r.Ticker, util.FormatDate(r.Date), FormatFloat(r.NAV), FormatNull(r.Return)}
		if extra != nil {
			row = append(row, extra(i)...)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// Load reads the dataset. Columns are located by header name, so extra or
// reordered columns are tolerated.
func (s *CSVDatasetStore) Load(_ context.Context) ([]models.PriceRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	return ReadRecords(f)
}

// ReadRecords parses a dataset CSV stream.
func ReadRecords(r io.Reader) ([]models.PriceRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, drepo.ErrEmptyDataset
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, col := range datasetHeader {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("dataset missing column %q", col)
		}
	}

	var out []models.PriceRecord
	line := 1
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}
		rec, err := parseRow(row, idx)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, rec)
	}

	if len(out) == 0 {
		return nil, drepo.ErrEmptyDataset
	}
	return out, nil
}

func parseRow(row []string, idx map[string]int) (models.PriceRecord, error) {
	cell := func(col string) string {
		i := idx[col]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var rec models.PriceRecord
	rec.Ticker = cell("Ticker")
	if rec.Ticker == "" {
		return rec, fmt.Errorf("empty ticker")
	}

	d, err := util.ParseDate(cell("Date"))
	if err != nil {
		return rec, err
	}
	rec.Date = d

	nav, err := strconv.ParseFloat(cell("NAV"), 64)
	if err != nil {
		return rec, fmt.Errorf("parse NAV: %w", err)
	}
	rec.NAV = nav

	rec.Return, err = ParseNull(cell("Return"))
	if err != nil {
		return rec, fmt.Errorf("parse Return: %w", err)
	}
	return rec, nil
}

// FormatFloat renders v with the fewest digits that round-trip.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatNull renders an undefined value as an empty cell.
func FormatNull(v sql.NullFloat64) string {
	if !v.Valid {
		return ""
	}
	return FormatFloat(v.Float64)
}

// ParseNull treats empty cells and NaN as undefined.
func ParseNull(s string) (sql.NullFloat64, error) {
	if s == "" || strings.EqualFold(s, "nan") {
		return sql.NullFloat64{}, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return sql.NullFloat64{}, err
	}
	return sql.NullFloat64{Float64: v, Valid: true}, nil
}
