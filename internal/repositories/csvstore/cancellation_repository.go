package csvstore

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/tenkey-events/raffle-backend/internal/repositories"
)

// CancellationRepository persists the day-of cancellation list as cancels.txt,
// one registration ID per line.
type CancellationRepository struct {
	store *Store
}

// NewCancellationRepository creates a CancellationRepository backed by the
// given store.
func NewCancellationRepository(store *Store) *CancellationRepository {
	return &CancellationRepository{store: store}
}

func isNumericID(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// Load reads cancels.txt. Blank lines are skipped; registration IDs are
// numeric, so any other content is corrupt state.
func (r *CancellationRepository) Load(ctx context.Context) ([]string, error) {
	f, err := os.Open(r.store.path(cancellationsFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cancellationsFile, err)
	}
	defer f.Close()

	var ids []string
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !isNumericID(line) {
			return nil, fmt.Errorf("%s line %d: %w: %q is not a registration id",
				cancellationsFile, lineNum, repositories.ErrCorruptState, line)
		}
		ids = append(ids, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", cancellationsFile, err)
	}
	return ids, nil
}

// Save rewrites cancels.txt with the given IDs.
func (r *CancellationRepository) Save(ctx context.Context, ids []string) error {
	path := r.store.path(cancellationsFile)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	w := bufio.NewWriter(f)
	for _, id := range ids {
		if _, err := fmt.Fprintln(w, id); err != nil {
			f.Close()
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return f.Close()
}
