package loader

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "modernc.org/sqlite"

	"FuturesBacktest/internal/model"
)

// SQLiteSource reads bars from a SQLite database. The table needs the
// columns timestamp (unix seconds or milliseconds), open, high, low, close,
// volume and instrument.
type SQLiteSource struct {
	db    *sql.DB
	table string
}

// NewSQLiteSource opens the database read-only.
func NewSQLiteSource(dbPath, table string) (*SQLiteSource, error) {
	db, err := sql.Open("sqlite", "file:"+dbPath+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if table == "" {
		table = "bars"
	}
	log.Printf("[INFO] sqlite bar source opened: %s", dbPath)
	return &SQLiteSource{db: db, table: table}, nil
}

func (s *SQLiteSource) Name() string { return "sqlite:" + s.table }

// Load reads all bars for the instrument, ordered by timestamp.
func (s *SQLiteSource) Load(instrument string) ([]model.Bar, error) {
	q := fmt.Sprintf(`SELECT timestamp, open, high, low, close, volume
		FROM %s WHERE instrument = ? ORDER BY timestamp`, s.table)
	rows, err := s.db.Query(q, instrument)
	if err != nil {
		return nil, fmt.Errorf("query bars: %w", err)
	}
	defer rows.Close()

	var bars []model.Bar
	for rows.Next() {
		var ts int64
		var b model.Bar
		if err := rows.Scan(&ts, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		// Heuristic: values past the year 2262 in seconds are milliseconds.
		if ts > 1e12 {
			b.Time = time.UnixMilli(ts).UTC()
		} else {
			b.Time = time.Unix(ts, 0).UTC()
		}
		bars = append(bars, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bars: %w", err)
	}
	return Clean(bars), nil
}

// Close releases the database handle.
func (s *SQLiteSource) Close() error {
	return s.db.Close()
}
