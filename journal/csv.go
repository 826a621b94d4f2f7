package journal

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// CSVStore keeps the ledger in a single CSV file that is rewritten in full
// on every save.
type CSVStore struct {
	path string
}

func NewCSV(path string) *CSVStore {
	return &CSVStore{path: path}
}

func (s *CSVStore) Path() string { return s.path }

// Load reads the whole file. A missing file is an empty ledger.
func (s *CSVStore) Load() (*Ledger, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewLedger(), nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadCSV(f)
}

// Save writes the ledger to a temp file next to the target and renames it
// into place.
func (s *CSVStore) Save(l *Ledger) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".trades-*.csv")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := WriteCSV(tmp, l); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

func (s *CSVStore) Close() error { return nil }

// WriteCSV writes the header and one row per trade.
func WriteCSV(w io.Writer, l *Ledger) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, t := range l.trades {
		if err := cw.Write(record(t)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// requiredColumns must be present in every ledger file. exit_price and pnl
// may be absent, which loads every trade as open.
var requiredColumns = Columns[:6]

// ReadCSV parses a ledger. Columns are matched by header name so files with
// reordered or extra columns (a saved cumulative_pnl, say) still load.
func ReadCSV(r io.Reader) (*Ledger, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return NewLedger(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[strings.TrimSpace(h)] = i
	}
	for _, c := range requiredColumns {
		if _, ok := pos[c]; !ok {
			return nil, fmt.Errorf("missing column %q", c)
		}
	}

	var trades []Trade
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		fields := make([]string, len(Columns))
		for i, c := range Columns {
			if p, ok := pos[c]; ok && p < len(row) {
				fields[i] = strings.TrimSpace(row[p])
			}
		}
		t, err := parseRecord(fields)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		trades = append(trades, t)
	}
	return NewLedger(trades...), nil
}
