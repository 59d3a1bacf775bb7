package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"market-twin/src/logger"
	"market-twin/src/models"

	_ "modernc.org/sqlite"
)

// SQLite batch constants
const (
	sqliteMaxVars   = 32000
	paramsPerRow    = 4
	sqliteBatchSize = sqliteMaxVars / paramsPerRow
)

// -----------------------------------------------------------------------------

type SQLiteDB struct {
	Config *models.MConfig
	DB     *sql.DB
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewSQLiteDB(cfg *models.MConfig, log *logger.Logger) (*SQLiteDB, error) {
	return &SQLiteDB{
		Config: cfg,
		Logger: log,
	}, nil
}

// -----------------------------------------------------------------------------

func (d *SQLiteDB) Initialize() error {
	dsn := d.Config.Storage.DBPath

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return err
	}

	if err := db.Ping(); err != nil {
		return err
	}

	d.DB = db

	// PRAGMA optimizations
	if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		d.Logger.Warning("Failed to set WAL mode: %v", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL;"); err != nil {
		d.Logger.Warning("Failed to set synchronous mode: %v", err)
	}

	return d.createTables()
}

// -----------------------------------------------------------------------------

func (d *SQLiteDB) createTables() error {
	// SQLite types: INTEGER for int64, REAL for float64, TEXT for string
	query := `
		CREATE TABLE IF NOT EXISTS simulation_records (
			ticker TEXT,
			timestamp INTEGER,
			price REAL,
			volume REAL,
			PRIMARY KEY (ticker, timestamp)
		);
	`
	if _, err := d.DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create simulation_records: %w", err)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (d *SQLiteDB) SaveSimulationRecords(records []models.MSimulationRecord) error {
	if len(records) == 0 {
		return nil
	}

	for start := 0; start < len(records); start += sqliteBatchSize {
		end := start + sqliteBatchSize
		if end > len(records) {
			end = len(records)
		}
		if err := d.saveBatch(records[start:end]); err != nil {
			return err
		}
	}
	return nil
}

// -----------------------------------------------------------------------------

func (d *SQLiteDB) saveBatch(records []models.MSimulationRecord) error {
	tx, err := d.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO simulation_records (ticker, timestamp, price, volume)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.Exec(r.Ticker, r.Timestamp, r.Price, r.Volume); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// -----------------------------------------------------------------------------

func (d *SQLiteDB) QuerySimulationRecords(tickers []string, from, to *time.Time) ([]models.MSimulationRecord, error) {
	query := "SELECT ticker, timestamp, price, volume FROM simulation_records"
	where, args := buildRecordFilter(tickers, from, to, "?")
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY ticker, timestamp"

	rows, err := d.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRecords(rows)
}

// -----------------------------------------------------------------------------

func (d *SQLiteDB) CleanupOldData() error {
	cutoff := time.Now().AddDate(0, 0, -d.Config.Storage.DataRetentionDays).Unix()
	res, err := d.DB.Exec("DELETE FROM simulation_records WHERE timestamp < ?", cutoff)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		d.Logger.Info("Cleanup removed %d simulation records older than %d days", n, d.Config.Storage.DataRetentionDays)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (d *SQLiteDB) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}

// -----------------------------------------------------------------------------
// Shared query helpers
// -----------------------------------------------------------------------------

// buildRecordFilter assembles the WHERE clause shared by both backends.
// placeholder is "?" for sqlite; postgres numbers its own parameters.
func buildRecordFilter(tickers []string, from, to *time.Time, placeholder string) (string, []interface{}) {
	var conds []string
	var args []interface{}

	nextPlaceholder := func() string {
		if placeholder == "?" {
			return "?"
		}
		return fmt.Sprintf("$%d", len(args))
	}

	if len(tickers) > 0 {
		marks := make([]string, len(tickers))
		for i, t := range tickers {
			args = append(args, t)
			marks[i] = nextPlaceholder()
		}
		conds = append(conds, fmt.Sprintf("ticker IN (%s)", strings.Join(marks, ", ")))
	}
	if from != nil {
		args = append(args, from.Unix())
		conds = append(conds, fmt.Sprintf("timestamp >= %s", nextPlaceholder()))
	}
	if to != nil {
		args = append(args, to.Unix())
		conds = append(conds, fmt.Sprintf("timestamp <= %s", nextPlaceholder()))
	}

	return strings.Join(conds, " AND "), args
}

// -----------------------------------------------------------------------------

func scanRecords(rows *sql.Rows) ([]models.MSimulationRecord, error) {
	var records []models.MSimulationRecord
	for rows.Next() {
		var r models.MSimulationRecord
		if err := rows.Scan(&r.Ticker, &r.Timestamp, &r.Price, &r.Volume); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
