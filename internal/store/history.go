package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/i474232898/weather-lookup/internal/common"
	"github.com/i474232898/weather-lookup/internal/logger"
)

const defaultLockRetry = 25 * time.Millisecond

// HistoryStore is the search history backed by a single JSON file. The file
// is the only state; nothing is cached between calls.
//
// Mutations hold an in-process mutex plus an advisory lock on "<path>.lock"
// so concurrent writers in this or other processes cannot lose updates.
// Writes replace the file by rename, so readers never see a partial document.
type HistoryStore struct {
	mu   sync.RWMutex
	path string
	lock *flock.Flock

	lockRetry time.Duration
	now       func() time.Time
	newID     func() string
	log       logger.Logger
}

// NewHistoryStore creates a store for path, creating its directory if needed.
func NewHistoryStore(path string, log logger.Logger) (*HistoryStore, error) {
	if log == nil {
		log = logger.Discard()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, &PersistenceError{Op: OpWrite, Path: path, Err: err}
	}

	return &HistoryStore{
		path:      path,
		lock:      flock.New(path + ".lock"),
		lockRetry: defaultLockRetry,
		now:       time.Now,
		newID:     uuid.NewString,
		log:       log.WithField("component", "history_store"),
	}, nil
}

// Path returns the backing file.
func (s *HistoryStore) Path() string {
	return s.path
}

// Load reads and parses the history file without applying the read policy.
// Entries are decoded one at a time: an entry that is not a record, or has
// no city, is skipped, and a record without an id gets one derived from its position
// and content, so it stays addressable until the next write persists it.
func Load(path string) ([]HistoryRecord, error) {
	records, _, err := load(path)
	return records, err
}

func load(path string) ([]HistoryRecord, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, &PersistenceError{Op: OpRead, Path: path, Err: err}
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, 0, &PersistenceError{Op: OpRead, Path: path, Err: err}
	}

	records := make([]HistoryRecord, 0, len(entries))
	skipped := 0
	for i, raw := range entries {
		var r HistoryRecord
		if err := json.Unmarshal(raw, &r); err != nil || common.CleanCity(r.City) == "" {
			skipped++
			continue
		}
		if r.ID == "" {
			r.ID = uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("%d:%s", i, raw))).String()
		}
		records = append(records, r)
	}
	return records, skipped, nil
}

// List returns every record, oldest first. A missing or unreadable file is
// reported as an empty history.
func (s *HistoryStore) List(ctx context.Context) []HistoryRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read()
}

// Add records city unless a record with the same name (ignoring case) exists,
// in which case that record is returned unchanged.
func (s *HistoryStore) Add(ctx context.Context, city string) (HistoryRecord, error) {
	city = common.CleanCity(city)
	if city == "" {
		return HistoryRecord{}, ErrEmptyCity
	}

	unlock, err := s.lockForWrite(ctx)
	if err != nil {
		return HistoryRecord{}, err
	}
	defer unlock()

	records := s.read()
	for _, r := range records {
		if common.SameCity(r.City, city) {
			return r, nil
		}
	}

	rec := HistoryRecord{
		ID:        s.newID(),
		City:      city,
		Timestamp: s.now().UTC().Format(time.RFC3339),
	}
	if err := s.write(append(records, rec)); err != nil {
		return HistoryRecord{}, err
	}

	s.log.Debugf("added %q to history as %s", city, rec.ID)
	return rec, nil
}

// Remove deletes the record with the given id. It returns false, and leaves
// the file untouched, when no record matches.
func (s *HistoryStore) Remove(ctx context.Context, id string) (bool, error) {
	unlock, err := s.lockForWrite(ctx)
	if err != nil {
		return false, err
	}
	defer unlock()

	records := s.read()
	kept := make([]HistoryRecord, 0, len(records))
	for _, r := range records {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(records) {
		return false, nil
	}

	if err := s.write(kept); err != nil {
		return false, err
	}
	s.log.Debugf("removed history record %s", id)
	return true, nil
}

// Prune enforces retention: records older than maxAge go first, then the
// oldest records beyond maxEntries. A zero limit disables that rule. Records
// without a timestamp are never dropped by age. It returns how many records
// were removed.
func (s *HistoryStore) Prune(ctx context.Context, maxEntries int, maxAge time.Duration) (int, error) {
	unlock, err := s.lockForWrite(ctx)
	if err != nil {
		return 0, err
	}
	defer unlock()

	records := s.read()
	kept := records

	if maxAge > 0 {
		cutoff := s.now().Add(-maxAge)
		kept = make([]HistoryRecord, 0, len(records))
		for _, r := range records {
			if ts, ok := r.CreatedAt(); ok && ts.Before(cutoff) {
				continue
			}
			kept = append(kept, r)
		}
	}

	if maxEntries > 0 && len(kept) > maxEntries {
		kept = kept[len(kept)-maxEntries:]
	}

	removed := len(records) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := s.write(kept); err != nil {
		return 0, err
	}
	return removed, nil
}

// read applies the read policy: any PersistenceError{Op: OpRead} yields an
// empty history. Callers hold s.mu.
func (s *HistoryStore) read() []HistoryRecord {
	records, skipped, err := load(s.path)
	if skipped > 0 {
		s.log.Warnf("skipped %d malformed entries in %s", skipped, s.path)
	}
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.log.Debugf("history file %s does not exist yet", s.path)
		} else {
			s.log.Warnf("treating history as empty: %v", err)
		}
		return []HistoryRecord{}
	}
	if records == nil {
		records = []HistoryRecord{}
	}
	return records
}

func (s *HistoryStore) write(records []HistoryRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return &PersistenceError{Op: OpWrite, Path: s.path, Err: err}
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return &PersistenceError{Op: OpWrite, Path: s.path, Err: err}
	}
	tmpName := tmp.Name()

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &PersistenceError{Op: OpWrite, Path: s.path, Err: err}
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &PersistenceError{Op: OpWrite, Path: s.path, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &PersistenceError{Op: OpWrite, Path: s.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &PersistenceError{Op: OpWrite, Path: s.path, Err: err}
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return &PersistenceError{Op: OpWrite, Path: s.path, Err: err}
	}
	return nil
}

func (s *HistoryStore) lockForWrite(ctx context.Context) (func(), error) {
	s.mu.Lock()

	locked, err := s.lock.TryLockContext(ctx, s.lockRetry)
	if err == nil && !locked {
		err = errors.New("file lock not acquired")
	}
	if err != nil {
		s.mu.Unlock()
		return nil, &PersistenceError{Op: OpLock, Path: s.lock.Path(), Err: err}
	}

	return func() {
		if err := s.lock.Unlock(); err != nil {
			s.log.Warnf("failed to release %s: %v", s.lock.Path(), err)
		}
		s.mu.Unlock()
	}, nil
}
