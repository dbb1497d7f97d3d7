package endpoints

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/doodlesbykumbi/admin-in-go/pkg/registry"
	"github.com/doodlesbykumbi/admin-in-go/pkg/server"
)

type testUser struct {
	ID             uint `gorm:"primaryKey"`
	Username       string
	HashedPassword string
	IsSuperuser    bool
}

func (testUser) TableName() string { return "users" }

type testOrder struct {
	ID       uint `gorm:"primaryKey"`
	Customer string
	Total    float64
}

func (testOrder) TableName() string { return "orders" }

// mockServer is a server whose stores are testify mocks.
type mockServer struct {
	*server.Server
	Records *MockRecordsStore
	Users   *MockUsersStore
	Health  *MockHealthStore
	handler http.Handler
}

// newMockTestServer creates a server over a sqlmock database with mocked
// stores and every endpoint registered.
func newMockTestServer(t *testing.T, basePath string) *mockServer {
	t.Helper()

	mockDB, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{
			Conn:                 mockDB,
			PreferSimpleProtocol: true,
		}),
		&gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		},
	)
	require.NoError(t, err)

	reg, err := registry.New(gormDB, registry.Options{
		UserModel: &testUser{},
		SecretKey: "endpoint-test-secret",
		TokenTTL:  time.Hour,
	})
	require.NoError(t, err)
	require.NoError(t, reg.Register(&testOrder{}))

	quiet := logrus.New()
	quiet.SetOutput(io.Discard)

	s := server.NewServer(reg, server.Options{Host: "127.0.0.1", Port: "0", BasePath: basePath, Logger: quiet})
	ms := &mockServer{
		Server:  s,
		Records: &MockRecordsStore{},
		Users:   &MockUsersStore{},
		Health:  &MockHealthStore{},
	}
	s.RecordsStore = ms.Records
	s.UsersStore = ms.Users
	s.HealthStore = ms.Health

	RegisterAll(s)
	ms.handler = s.Handler()

	t.Cleanup(func() {
		ms.Records.AssertExpectations(t)
		ms.Users.AssertExpectations(t)
		ms.Health.AssertExpectations(t)
	})
	return ms
}

func (ms *mockServer) token(t *testing.T, superuser bool) string {
	t.Helper()
	token, _, err := ms.Issuer.Issue("1", superuser)
	require.NoError(t, err)
	return token
}

func (ms *mockServer) do(method, path, body, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	ms.handler.ServeHTTP(rr, req)
	return rr
}
