package endpoints

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/doodlesbykumbi/admin-in-go/pkg/server/store"
)

// MockRecordsStore implements store.RecordsStore for testing using testify/mock
type MockRecordsStore struct {
	mock.Mock
}

func (m *MockRecordsStore) List(ctx context.Context, table string) ([]store.Record, error) {
	args := m.Called(ctx, table)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.Record), args.Error(1)
}

func (m *MockRecordsStore) Get(ctx context.Context, table, id string) (store.Record, error) {
	args := m.Called(ctx, table, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(store.Record), args.Error(1)
}

func (m *MockRecordsStore) Create(ctx context.Context, table string, fields map[string]any) (store.Record, error) {
	args := m.Called(ctx, table, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(store.Record), args.Error(1)
}

func (m *MockRecordsStore) Update(ctx context.Context, table, id string, fields map[string]any) (store.Record, error) {
	args := m.Called(ctx, table, id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(store.Record), args.Error(1)
}

func (m *MockRecordsStore) Delete(ctx context.Context, table, id string) (*store.DeleteResult, error) {
	args := m.Called(ctx, table, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.DeleteResult), args.Error(1)
}

// MockUsersStore implements store.UsersStore for testing using testify/mock
type MockUsersStore struct {
	mock.Mock
}

func (m *MockUsersStore) List(ctx context.Context) ([]store.Record, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.Record), args.Error(1)
}

func (m *MockUsersStore) Get(ctx context.Context, id string) (store.Record, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(store.Record), args.Error(1)
}

func (m *MockUsersStore) Create(ctx context.Context, fields map[string]any) (store.Record, error) {
	args := m.Called(ctx, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(store.Record), args.Error(1)
}

func (m *MockUsersStore) Update(ctx context.Context, id string, fields map[string]any) (store.Record, error) {
	args := m.Called(ctx, id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(store.Record), args.Error(1)
}

func (m *MockUsersStore) Delete(ctx context.Context, id string) (*store.DeleteResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.DeleteResult), args.Error(1)
}

func (m *MockUsersStore) Credentials(ctx context.Context, login string) (*store.Credentials, error) {
	args := m.Called(ctx, login)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Credentials), args.Error(1)
}

// MockHealthStore implements store.HealthStore for testing using testify/mock
type MockHealthStore struct {
	mock.Mock
}

func (m *MockHealthStore) CheckConnectivity(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
