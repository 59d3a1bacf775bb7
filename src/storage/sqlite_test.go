package storage

import (
	"path/filepath"
	"testing"
	"time"

	"market-twin/src/logger"
	"market-twin/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -----------------------------------------------------------------------------

func newTestDB(t *testing.T) *SQLiteDB {
	t.Helper()

	cfg := &models.MConfig{}
	cfg.Storage.DBType = "sqlite"
	cfg.Storage.DBPath = filepath.Join(t.TempDir(), "test.db")
	cfg.Storage.DataRetentionDays = 30

	db, err := NewSQLiteDB(cfg, logger.NewLogger("ERROR", "test"))
	require.NoError(t, err)
	require.NoError(t, db.Initialize())
	t.Cleanup(func() { db.Close() })
	return db
}

// -----------------------------------------------------------------------------

func TestSQLiteSaveAndQuery(t *testing.T) {
	db := newTestDB(t)

	records := []models.MSimulationRecord{
		{Ticker: "AAPL", Price: 100, Volume: 10, Timestamp: 1000},
		{Ticker: "AAPL", Price: 110, Volume: 20, Timestamp: 2000},
		{Ticker: "MSFT", Price: 300, Volume: 5, Timestamp: 1500},
	}
	require.NoError(t, db.SaveSimulationRecords(records))

	// All records
	got, err := db.QuerySimulationRecords(nil, nil, nil)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	// Ticker filter
	got, err = db.QuerySimulationRecords([]string{"MSFT"}, nil, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "MSFT", got[0].Ticker)

	// Time range filter (inclusive)
	from := time.Unix(1500, 0)
	to := time.Unix(2000, 0)
	got, err = db.QuerySimulationRecords(nil, &from, &to)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

// -----------------------------------------------------------------------------

func TestSQLiteUpsert(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.SaveSimulationRecords([]models.MSimulationRecord{
		{Ticker: "AAPL", Price: 100, Volume: 10, Timestamp: 1000},
	}))
	require.NoError(t, db.SaveSimulationRecords([]models.MSimulationRecord{
		{Ticker: "AAPL", Price: 105, Volume: 12, Timestamp: 1000},
	}))

	got, err := db.QuerySimulationRecords([]string{"AAPL"}, nil, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.InDelta(t, 105, got[0].Price, 1e-9)
}

// -----------------------------------------------------------------------------

func TestSQLiteCleanupOldData(t *testing.T) {
	db := newTestDB(t)

	old := time.Now().AddDate(0, 0, -60).Unix()
	fresh := time.Now().Unix()
	require.NoError(t, db.SaveSimulationRecords([]models.MSimulationRecord{
		{Ticker: "AAPL", Price: 90, Volume: 1, Timestamp: old},
		{Ticker: "AAPL", Price: 100, Volume: 1, Timestamp: fresh},
	}))

	require.NoError(t, db.CleanupOldData())

	got, err := db.QuerySimulationRecords(nil, nil, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, fresh, got[0].Timestamp)
}

// -----------------------------------------------------------------------------

func TestSQLiteEmptySaveIsNoop(t *testing.T) {
	db := newTestDB(t)
	assert.NoError(t, db.SaveSimulationRecords(nil))
}

// -----------------------------------------------------------------------------

func TestBuildRecordFilterPlaceholders(t *testing.T) {
	from := time.Unix(100, 0)
	to := time.Unix(200, 0)

	where, args := buildRecordFilter([]string{"A", "B"}, &from, &to, "?")
	assert.Equal(t, "ticker IN (?, ?) AND timestamp >= ? AND timestamp <= ?", where)
	assert.Len(t, args, 4)

	where, args = buildRecordFilter([]string{"A"}, nil, &to, "$")
	assert.Equal(t, "ticker IN ($1) AND timestamp <= $2", where)
	assert.Len(t, args, 2)

	where, args = buildRecordFilter(nil, nil, nil, "?")
	assert.Equal(t, "", where)
	assert.Empty(t, args)
}
