package journal

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore keeps the ledger in a SQLite table. Save replaces the table
// contents in one transaction, matching the rewrite-everything semantics of
// the CSV store.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

const selectTrades = `
	SELECT date, side, symbol, strike, expiry, entry_price, exit_price, pnl
	FROM trades`

func (s *SQLiteStore) Load() (*Ledger, error) {
	trades, err := s.query(selectTrades + ` ORDER BY seq ASC`)
	if err != nil {
		return nil, err
	}
	return NewLedger(trades...), nil
}

func (s *SQLiteStore) Save(l *Ledger) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM trades`); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO trades
		(seq, date, side, symbol, strike, expiry, entry_price, exit_price, pnl)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, t := range l.trades {
		r := record(t)
		if _, err := stmt.Exec(i, r[0], r[1], r[2], r[3], r[4], r[5], r[6], r[7]); err != nil {
			return fmt.Errorf("insert %s: %w", t.Key(), err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) query(q string, args ...any) ([]Trade, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Trade
	for rows.Next() {
		fields := make([]string, len(Columns))
		dest := make([]any, len(fields))
		for i := range fields {
			dest[i] = &fields[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		t, err := parseRecord(fields)
		if err != nil {
			return nil, fmt.Errorf("trade %s: %w", fields[0], err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
