package gorm

import (
	"context"

	"github.com/doodlesbykumbi/admin-in-go/pkg/registry"
	"github.com/doodlesbykumbi/admin-in-go/pkg/server/store"
)

// Ensure RecordsStore implements store.RecordsStore
var _ store.RecordsStore = (*RecordsStore)(nil)

// RecordsStore implements store.RecordsStore using GORM
type RecordsStore struct {
	crud
}

// NewRecordsStore creates a new RecordsStore over the tables in reg
func NewRecordsStore(reg *registry.Registry) *RecordsStore {
	return &RecordsStore{crud{reg: reg}}
}

// List returns every row of table ordered by primary key.
func (s *RecordsStore) List(ctx context.Context, table string) ([]store.Record, error) {
	m, err := s.reg.Lookup(table)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, m)
}

// Get returns one row of table.
func (s *RecordsStore) Get(ctx context.Context, table, id string) (store.Record, error) {
	m, err := s.reg.Lookup(table)
	if err != nil {
		return nil, err
	}
	return s.get(ctx, m, id)
}

// Create inserts a row into table.
func (s *RecordsStore) Create(ctx context.Context, table string, fields map[string]any) (store.Record, error) {
	m, err := s.reg.Lookup(table)
	if err != nil {
		return nil, err
	}
	return s.create(ctx, m, fields)
}

// Update assigns fields onto a row of table.
func (s *RecordsStore) Update(ctx context.Context, table, id string, fields map[string]any) (store.Record, error) {
	m, err := s.reg.Lookup(table)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, m, id, fields)
}

// Delete hard-deletes a row of table.
func (s *RecordsStore) Delete(ctx context.Context, table, id string) (*store.DeleteResult, error) {
	m, err := s.reg.Lookup(table)
	if err != nil {
		return nil, err
	}
	return s.delete(ctx, m, id)
}
