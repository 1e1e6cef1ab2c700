// Package memory is a process-local record.Store used for tests and for
// running the PDV without persistence.
package memory

import (
	"context"
	"encoding/json"
	"maps"
	"slices"
	"strconv"
	"sync"

	"github.com/MrJamesThe3rd/pdv/internal/record"
)

type Store struct {
	mu   sync.RWMutex
	data map[record.Collection]map[string]json.RawMessage
	seq  map[record.Collection]int64
}

func New() *Store {
	s := &Store{
		data: make(map[record.Collection]map[string]json.RawMessage, len(record.Collections)),
		seq:  make(map[record.Collection]int64, len(record.Collections)),
	}

	for _, c := range record.Collections {
		s.data[c] = make(map[string]json.RawMessage)
	}

	return s
}

// Init is a no-op; the collections exist from New.
func (s *Store) Init(_ context.Context) error {
	return nil
}

func (s *Store) GetAll(_ context.Context, c record.Collection) ([]record.Record, error) {
	if err := record.Check(c); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := slices.Sorted(maps.Keys(s.data[c]))

	out := make([]record.Record, 0, len(keys))
	for _, k := range keys {
		out = append(out, record.Record{Key: k, Data: clone(s.data[c][k])})
	}

	return out, nil
}

func (s *Store) Get(_ context.Context, c record.Collection, key string) (*record.Record, error) {
	if err := record.Check(c); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.data[c][key]
	if !ok {
		return nil, nil
	}

	return &record.Record{Key: key, Data: clone(data)}, nil
}

func (s *Store) Add(_ context.Context, c record.Collection, data json.RawMessage) (string, error) {
	if err := record.Check(c); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq[c]++
	key := strconv.FormatInt(s.seq[c], 10)
	s.data[c][key] = clone(data)

	return key, nil
}

func (s *Store) Put(_ context.Context, c record.Collection, key string, data json.RawMessage) error {
	if err := record.Check(c); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Keep Add from reusing a numeric key that was written with Put.
	if n, err := strconv.ParseInt(key, 10, 64); err == nil && n > s.seq[c] {
		s.seq[c] = n
	}

	s.data[c][key] = clone(data)

	return nil
}

func (s *Store) Delete(_ context.Context, c record.Collection, key string) error {
	if err := record.Check(c); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data[c], key)

	return nil
}

func (s *Store) Close() error {
	return nil
}

func clone(b json.RawMessage) json.RawMessage {
	return slices.Clone(b)
}
