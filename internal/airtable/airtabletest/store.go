// Package airtabletest provides an in-memory RecordStore for tests.
package airtabletest

import (
	"context"
	"fmt"
	"sync"

	"github.com/maheshrc27/contentdesk/internal/models"
	"github.com/maheshrc27/contentdesk/pkg/apperror"
)

// Store keeps records per table in insertion order. OnUpdate, when set,
// rewrites a record after every update the way store-side automations do.
type Store struct {
	mu       sync.Mutex
	tables   map[string]map[string]models.Record
	order    map[string][]string
	nextID   int
	OnUpdate func(table string, r models.Record) models.Record
	Fail     map[string]error
	Calls    []string
}

func NewStore() *Store {
	return &Store{
		tables: map[string]map[string]models.Record{},
		order:  map[string][]string{},
		Fail:   map[string]error{},
	}
}

// Put seeds a record without counting as a call.
func (s *Store) Put(table string, r models.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(table, r.Clone())
}

func (s *Store) put(table string, r models.Record) {
	if s.tables[table] == nil {
		s.tables[table] = map[string]models.Record{}
	}
	if _, ok := s.tables[table][r.ID]; !ok {
		s.order[table] = append(s.order[table], r.ID)
	}
	s.tables[table][r.ID] = r
}

// Peek returns the stored record as the store sees it.
func (s *Store) Peek(table, id string) (models.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.tables[table][id]
	return r.Clone(), ok
}

func (s *Store) CallCount(prefix string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.Calls {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

func (s *Store) failure(op, id string) error {
	if err, ok := s.Fail[op+" "+id]; ok {
		return err
	}
	return s.Fail[op]
}

func (s *Store) List(ctx context.Context, table string) ([]models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, "list "+table)
	if err := s.failure("list", table); err != nil {
		return nil, err
	}
	out := make([]models.Record, 0, len(s.order[table]))
	for _, id := range s.order[table] {
		if r, ok := s.tables[table][id]; ok {
			out = append(out, r.Clone())
		}
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, table, id string) (models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, "get "+id)
	if err := s.failure("get", id); err != nil {
		return models.Record{}, err
	}
	r, ok := s.tables[table][id]
	if !ok {
		return models.Record{}, &apperror.RemoteError{Status: 404, Body: `{"error":"NOT_FOUND"}`}
	}
	return r.Clone(), nil
}

func (s *Store) Create(ctx context.Context, table string, fields models.Fields) (models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, "create "+table)
	if err := s.failure("create", table); err != nil {
		return models.Record{}, err
	}
	s.nextID++
	r := models.Record{ID: fmt.Sprintf("rec%03d", s.nextID), Fields: fields.Clone()}
	s.put(table, r)
	return r.Clone(), nil
}

func (s *Store) Update(ctx context.Context, table, id string, fields models.Fields) (models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, "update "+id)
	if err := s.failure("update", id); err != nil {
		return models.Record{}, err
	}
	r, ok := s.tables[table][id]
	if !ok {
		return models.Record{}, &apperror.RemoteError{Status: 404, Body: `{"error":"NOT_FOUND"}`}
	}
	r = r.Clone()
	for k, v := range fields {
		r.Fields[k] = v
	}
	if s.OnUpdate != nil {
		r = s.OnUpdate(table, r)
	}
	s.tables[table][id] = r
	return r.Clone(), nil
}

func (s *Store) Delete(ctx context.Context, table, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, "delete "+id)
	if err := s.failure("delete", id); err != nil {
		return err
	}
	if _, ok := s.tables[table][id]; !ok {
		return &apperror.RemoteError{Status: 404, Body: `{"error":"NOT_FOUND"}`}
	}
	delete(s.tables[table], id)
	ids := s.order[table]
	for i, existing := range ids {
		if existing == id {
			s.order[table] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	return nil
}
