package record

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

// ErrInvalidRecord is wrapped by every InvalidRecordError
var ErrInvalidRecord = errors.New("invalid record")

// InvalidRecordError reports the record that made a Load fail
type InvalidRecordError struct {
	Index  int
	ID     string
	Reason string
}

func (e *InvalidRecordError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s at index %d: %s", ErrInvalidRecord, e.Index, e.Reason)
	}
	return fmt.Sprintf("%s %q at index %d: %s", ErrInvalidRecord, e.ID, e.Index, e.Reason)
}

func (e *InvalidRecordError) Unwrap() error { return ErrInvalidRecord }

// Snapshot is one complete, immutable generation of the store contents
type Snapshot struct {
	records  []Record
	index    map[string]int
	version  uint64
	loadedAt time.Time
}

var emptySnapshot = &Snapshot{index: map[string]int{}}

// All returns the records in insertion order
func (s *Snapshot) All() []Record {
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Get returns the record with the given id
func (s *Snapshot) Get(id string) (Record, bool) {
	i, ok := s.index[id]
	if !ok {
		return Record{}, false
	}
	return s.records[i], true
}

// Len returns the number of records
func (s *Snapshot) Len() int { return len(s.records) }

// Version increments on every successful load; 0 means never loaded
func (s *Snapshot) Version() uint64 { return s.version }

// LoadedAt returns when the snapshot was published
func (s *Snapshot) LoadedAt() time.Time { return s.loadedAt }

// Store owns the catalog records for the process lifetime.
// Load replaces the contents with a single pointer swap, so readers observe
// either the previous snapshot or the new one.
type Store struct {
	current atomic.Pointer[Snapshot]
	loads   atomic.Uint64
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{}
}

// Load validates records and publishes them as the new snapshot.
// On failure the previous snapshot stays active.
func (s *Store) Load(records []Record) (*Snapshot, error) {
	index := make(map[string]int, len(records))
	stamped := make([]Record, len(records))

	for i, r := range records {
		if strings.TrimSpace(r.id) == "" {
			return nil, &InvalidRecordError{Index: i, Reason: "missing id"}
		}
		if first, dup := index[r.id]; dup {
			return nil, &InvalidRecordError{
				Index:  i,
				ID:     r.id,
				Reason: fmt.Sprintf("duplicate id (first seen at index %d)", first),
			}
		}
		index[r.id] = i
		stamped[i] = r.withSeq(i)
	}

	snap := &Snapshot{
		records:  stamped,
		index:    index,
		version:  s.loads.Add(1),
		loadedAt: time.Now(),
	}
	s.current.Store(snap)
	return snap, nil
}

// Current returns the active snapshot
func (s *Store) Current() *Snapshot {
	if snap := s.current.Load(); snap != nil {
		return snap
	}
	return emptySnapshot
}

// All returns the active records in insertion order
func (s *Store) All() []Record {
	return s.Current().All()
}
