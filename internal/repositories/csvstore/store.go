// Package csvstore persists the raffle state as flat files in a data
// directory, in the same formats the event staff already exchange: the
// connpass participant export, the prize catalog sheet, a bare-ID
// cancellation list and the winner CSV. It is the default storage driver.
package csvstore

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// File names inside the data directory.
const (
	rosterFile        = "parts.csv"
	cancellationsFile = "cancels.txt"
	catalogFile       = "prizes.csv"
	mappingsFile      = "winners.csv"
)

// Store holds the data directory shared by the four repositories.
type Store struct {
	dataDir string
}

// NewStore creates the data directory if needed and returns a Store rooted
// there.
func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory %s: %w", dataDir, err)
	}
	return &Store{dataDir: dataDir}, nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dataDir, name)
}

// writeCSV replaces the file at path with a header row plus the given rows,
// flushing and closing the handle on every path.
func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			f.Close()
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return f.Close()
}
