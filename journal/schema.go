// journal/schema.go
package journal

// Decimals are stored as TEXT so values survive the round trip exactly.
// date is not unique here: ledgers written before the one-trade-per-day
// check may hold duplicates, and the Ledger enforces it for new trades.
const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	seq INTEGER PRIMARY KEY,
	date TEXT NOT NULL,
	side TEXT NOT NULL,
	symbol TEXT NOT NULL,
	strike TEXT NOT NULL,
	expiry TEXT NOT NULL,
	entry_price TEXT NOT NULL,
	exit_price TEXT NOT NULL DEFAULT '',
	pnl TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_trades_date ON trades(date);
`
