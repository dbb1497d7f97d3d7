package gorm

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/doodlesbykumbi/admin-in-go/pkg/adminerr"
	"github.com/doodlesbykumbi/admin-in-go/pkg/auth"
	"github.com/doodlesbykumbi/admin-in-go/pkg/registry"
	"github.com/doodlesbykumbi/admin-in-go/pkg/server/store"
)

// Ensure UsersStore implements store.UsersStore
var _ store.UsersStore = (*UsersStore)(nil)

// UsersStore implements store.UsersStore using GORM
type UsersStore struct {
	crud
}

// NewUsersStore creates a new UsersStore for the user model of reg
func NewUsersStore(reg *registry.Registry) *UsersStore {
	return &UsersStore{crud{reg: reg}}
}

// List returns every user ordered by primary key.
func (s *UsersStore) List(ctx context.Context) ([]store.Record, error) {
	return s.list(ctx, s.reg.UserModel())
}

// Get returns one user.
func (s *UsersStore) Get(ctx context.Context, id string) (store.Record, error) {
	return s.get(ctx, s.reg.UserModel(), id)
}

// Create inserts a user, hashing any plaintext password.
func (s *UsersStore) Create(ctx context.Context, fields map[string]any) (store.Record, error) {
	fields, err := s.hashPassword(fields)
	if err != nil {
		return nil, err
	}
	return s.create(ctx, s.reg.UserModel(), fields)
}

// Update modifies a user, hashing any plaintext password.
func (s *UsersStore) Update(ctx context.Context, id string, fields map[string]any) (store.Record, error) {
	fields, err := s.hashPassword(fields)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, s.reg.UserModel(), id, fields)
}

// Delete hard-deletes a user.
func (s *UsersStore) Delete(ctx context.Context, id string) (*store.DeleteResult, error) {
	return s.delete(ctx, s.reg.UserModel(), id)
}

// Credentials looks a user up by the configured login column.
func (s *UsersStore) Credentials(ctx context.Context, login string) (*store.Credentials, error) {
	m := s.reg.UserModel()
	v := m.New()

	err := s.session(ctx).
		Where(clause.Eq{Column: clause.Column{Table: clause.CurrentTable, Name: s.reg.LoginField()}, Value: login}).
		Take(v.Interface()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, adminerr.NotFound(m.Table, login)
	}
	if err != nil {
		return nil, internal(err, "failed to look up user %q", login)
	}

	values := m.Values(ctx, v)
	creds := &store.Credentials{ID: m.PrimaryKeyValue(ctx, v)}
	switch hashed := values[s.reg.PasswordField()].(type) {
	case string:
		creds.HashedPassword = hashed
	case *string:
		if hashed != nil {
			creds.HashedPassword = *hashed
		}
	}
	switch super := values[s.reg.SuperuserField()].(type) {
	case bool:
		creds.Superuser = super
	case *bool:
		creds.Superuser = super != nil && *super
	}
	return creds, nil
}

// hashPassword returns a copy of fields with the plaintext password replaced
// by its digest under the configured password column.
func (s *UsersStore) hashPassword(fields map[string]any) (map[string]any, error) {
	raw, ok := fields[store.PasswordKey]
	if !ok {
		return fields, nil
	}

	password, ok := raw.(string)
	if !ok || password == "" {
		return nil, adminerr.New(adminerr.KindInvalidPayload, "password must be a non-empty string")
	}

	digest, err := auth.HashPassword(password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, adminerr.Wrap(adminerr.KindInvalidPayload, err, "invalid password")
		}
		return nil, adminerr.Wrap(adminerr.KindInternal, err, "failed to hash password")
	}

	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if k != store.PasswordKey {
			out[k] = v
		}
	}
	out[s.reg.PasswordField()] = digest
	return out, nil
}

