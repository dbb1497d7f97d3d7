package gorm

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/doodlesbykumbi/admin-in-go/pkg/adminerr"
	"github.com/doodlesbykumbi/admin-in-go/pkg/registry"
	"github.com/doodlesbykumbi/admin-in-go/pkg/server/store"
)

// crud holds the table-agnostic operations shared by RecordsStore and
// UsersStore. Every mutation runs in its own transaction and is read back
// from the database before being returned.
type crud struct {
	reg *registry.Registry
}

func (c crud) session(ctx context.Context) *gorm.DB {
	return c.reg.DB().WithContext(ctx)
}

func pkEq(m *registry.Model, key any) clause.Eq {
	return clause.Eq{
		Column: clause.Column{Table: clause.CurrentTable, Name: m.PrimaryKey().DBName},
		Value:  key,
	}
}

// internal wraps storage errors. Errors that already carry a kind pass through.
func internal(err error, format string, args ...any) error {
	var e *adminerr.Error
	if errors.As(err, &e) {
		return err
	}
	return adminerr.Wrap(adminerr.KindInternal, err, format, args...)
}

func (c crud) list(ctx context.Context, m *registry.Model) ([]store.Record, error) {
	dest := m.NewSlice()
	order := clause.OrderByColumn{Column: clause.Column{Table: clause.CurrentTable, Name: m.PrimaryKey().DBName}}
	if err := c.session(ctx).Order(order).Find(dest.Interface()).Error; err != nil {
		return nil, internal(err, "failed to list %q", m.Table)
	}

	rows := dest.Elem()
	records := make([]store.Record, 0, rows.Len())
	for i := 0; i < rows.Len(); i++ {
		records = append(records, store.Record(m.Values(ctx, rows.Index(i))))
	}
	return records, nil
}

func (c crud) fetch(tx *gorm.DB, m *registry.Model, key any, id string) (reflect.Value, error) {
	v := m.New()
	err := tx.Where(pkEq(m, key)).Take(v.Interface()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return reflect.Value{}, adminerr.NotFound(m.Table, id)
	}
	if err != nil {
		return reflect.Value{}, internal(err, "failed to fetch record %s from %q", id, m.Table)
	}
	return v, nil
}

// refresh re-reads v by primary key so database defaults and triggers are
// reflected in the returned record.
func (c crud) refresh(ctx context.Context, tx *gorm.DB, m *registry.Model, v reflect.Value) (reflect.Value, error) {
	key, _ := m.PrimaryKey().ValueOf(ctx, v)
	fresh := m.New()
	if err := tx.Where(pkEq(m, key)).Take(fresh.Interface()).Error; err != nil {
		return reflect.Value{}, err
	}
	return fresh, nil
}

func (c crud) get(ctx context.Context, m *registry.Model, id string) (store.Record, error) {
	key, err := m.ParseID(id)
	if err != nil {
		return nil, err
	}
	v, err := c.fetch(c.session(ctx), m, key, id)
	if err != nil {
		return nil, err
	}
	return store.Record(m.Values(ctx, v)), nil
}

func (c crud) create(ctx context.Context, m *registry.Model, fields map[string]any) (store.Record, error) {
	v := m.New()
	if err := m.Assign(ctx, v, fields, true); err != nil {
		return nil, err
	}

	var created reflect.Value
	err := c.session(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(v.Interface()).Error; err != nil {
			return err
		}
		var err error
		created, err = c.refresh(ctx, tx, m, v)
		return err
	})
	if err != nil {
		return nil, internal(err, "failed to create record in %q", m.Table)
	}
	return store.Record(m.Values(ctx, created)), nil
}

func (c crud) update(ctx context.Context, m *registry.Model, id string, fields map[string]any) (store.Record, error) {
	key, err := m.ParseID(id)
	if err != nil {
		return nil, err
	}

	var updated reflect.Value
	err = c.session(ctx).Transaction(func(tx *gorm.DB) error {
		v, err := c.fetch(tx, m, key, id)
		if err != nil {
			return err
		}
		if err := m.Assign(ctx, v, fields, false); err != nil {
			return err
		}
		if err := tx.Save(v.Interface()).Error; err != nil {
			return err
		}
		updated, err = c.refresh(ctx, tx, m, v)
		return err
	})
	if err != nil {
		return nil, internal(err, "failed to update record %s in %q", id, m.Table)
	}
	return store.Record(m.Values(ctx, updated)), nil
}

func (c crud) delete(ctx context.Context, m *registry.Model, id string) (*store.DeleteResult, error) {
	key, err := m.ParseID(id)
	if err != nil {
		return nil, err
	}

	err = c.session(ctx).Transaction(func(tx *gorm.DB) error {
		v, err := c.fetch(tx, m, key, id)
		if err != nil {
			return err
		}
		return tx.Unscoped().Delete(v.Interface()).Error
	})
	if err != nil {
		return nil, internal(err, "failed to delete record %s from %q", id, m.Table)
	}

	return &store.DeleteResult{
		Table:   m.Table,
		ID:      id,
		Message: fmt.Sprintf("record %s deleted from table %q", id, m.Table),
	}, nil
}
