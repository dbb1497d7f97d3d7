package admin

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/doodlesbykumbi/admin-in-go/pkg/config"
	"github.com/doodlesbykumbi/admin-in-go/pkg/registry"
)

type account struct {
	ID          uint `gorm:"primaryKey"`
	Email       string
	Digest      string
	IsStaff     bool
	DisplayName string
}

type invoice struct {
	ID     uint `gorm:"primaryKey"`
	Amount int64
}

func newMockDB(t *testing.T) *gorm.DB {
	t.Helper()
	mockDB, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 mockDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	return gormDB
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:              "admin-test-secret",
		TokenExpirationMinutes: 30,
	}
}

func TestNew(t *testing.T) {
	t.Run("custom user columns", func(t *testing.T) {
		a, err := New(newMockDB(t), testConfig(), &account{},
			WithLoginField("email"),
			WithPasswordField("digest"),
			WithSuperuserField("is_staff"),
			WithLogger(quietLogger()),
		)
		require.NoError(t, err)
		assert.Equal(t, "email", a.Server().Registry.LoginField())
		assert.Equal(t, "accounts", a.Server().Registry.UserModel().Table)
	})

	t.Run("user model without the default columns", func(t *testing.T) {
		_, err := New(newMockDB(t), testConfig(), &account{})
		assert.Error(t, err)
	})

	t.Run("nil configuration", func(t *testing.T) {
		_, err := New(newMockDB(t), nil, &account{})
		assert.ErrorIs(t, err, config.ErrMissingSetting)
	})

	t.Run("empty secret", func(t *testing.T) {
		cfg := testConfig()
		cfg.SecretKey = ""
		_, err := New(newMockDB(t), cfg, &account{}, WithLoginField("email"), WithPasswordField("digest"), WithSuperuserField("is_staff"))
		assert.Error(t, err)
	})

	t.Run("listen address", func(t *testing.T) {
		a, err := New(newMockDB(t), testConfig(), &account{},
			WithLoginField("email"),
			WithPasswordField("digest"),
			WithSuperuserField("is_staff"),
			WithListenAddress("0.0.0.0", "9000"),
		)
		require.NoError(t, err)
		assert.Equal(t, "0.0.0.0:9000", a.Server().Addr())
	})
}

func TestRegisterAndHandler(t *testing.T) {
	a, err := New(newMockDB(t), testConfig(), &account{},
		WithLoginField("email"),
		WithPasswordField("digest"),
		WithSuperuserField("is_staff"),
		WithLogger(quietLogger()),
	)
	require.NoError(t, err)

	assert.ErrorIs(t, a.Register(&account{}), registry.ErrUserModel)
	require.NoError(t, a.Register(&invoice{}))
	assert.Equal(t, []string{"invoices"}, a.Tables())

	h := a.Handler()

	assert.ErrorIs(t, a.Register(&struct {
		ID uint `gorm:"primaryKey"`
	}{}), registry.ErrFrozen)

	req := httptest.NewRequest("GET", "/?format=json", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"tables":["invoices"],"user_table":"accounts"}`, rr.Body.String())

	req = httptest.NewRequest("GET", "/invoices/", nil)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
