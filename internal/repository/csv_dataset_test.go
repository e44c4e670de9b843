package repository

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NavScan/internal/domain/models"
	drepo "NavScan/internal/domain/repository"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleRecords() []models.PriceRecord {
	return []models.PriceRecord{
		{Ticker: "DSU", Date: date(2024, 1, 2), NAV: 10},
		{Ticker: "DSU", Date: date(2024, 1, 3), NAV: 10.5, Return: sql.NullFloat64{Float64: 0.05, Valid: true}},
		{Ticker: "KIO", Date: date(2024, 1, 2), NAV: 12.25},
	}
}

func TestCSVDatasetStoreSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "all_funds_nav.csv")
	s := NewCSVDatasetStore(path)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, sampleRecords()))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Ticker,Date,NAV,Return", lines[0])
	assert.Equal(t, "DSU,2024-01-02,10,", lines[1])
	assert.Equal(t, "DSU,2024-01-03,10.5,0.05", lines[2])
	assert.Equal(t, "KIO,2024-01-02,12.25,", lines[3])

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleRecords(), got)
	assert.Equal(t, path, s.Location())

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestReadRecordsHeaderDriven(t *testing.T) {
	in := "Date,Return,Ticker,NAV,Extra\n" +
		"2024-01-02 00:00:00,,FRA,13.1,x\n" +
		"2024-01-03T00:00:00Z,NaN,FRA,13.2,y\n"

	got, err := ReadRecords(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "FRA", got[0].Ticker)
	assert.Equal(t, date(2024, 1, 2), got[0].Date)
	assert.False(t, got[0].Return.Valid)
	assert.False(t, got[1].Return.Valid)
	assert.Equal(t, 13.2, got[1].NAV)
}

func TestReadRecordsErrors(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		empty bool
	}{
		{name: "no content", in: "", empty: true},
		{name: "header only", in: "Ticker,Date,NAV,Return\n", empty: true},
		{name: "missing column", in: "Ticker,Date,NAV\nA,2024-01-02,1\n"},
		{name: "bad nav", in: "Ticker,Date,NAV,Return\nA,2024-01-02,abc,\n"},
		{name: "bad date", in: "Ticker,Date,NAV,Return\nA,02/01/2024,1,\n"},
		{name: "empty ticker", in: "Ticker,Date,NAV,Return\n,2024-01-02,1,\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadRecords(strings.NewReader(tt.in))
			require.Error(t, err)
			assert.Equal(t, tt.empty, err == drepo.ErrEmptyDataset)
		})
	}
}

func TestCSVDatasetStoreLoadMissingFile(t *testing.T) {
	s := NewCSVDatasetStore(filepath.Join(t.TempDir(), "missing.csv"))
	_, err := s.Load(context.Background())
	assert.Error(t, err)
}
