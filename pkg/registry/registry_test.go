package registry

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/doodlesbykumbi/admin-in-go/pkg/adminerr"
)

type testUser struct {
	ID             uint   `gorm:"primaryKey"`
	Username       string `gorm:"uniqueIndex"`
	HashedPassword string
	IsSuperuser    bool
}

func (testUser) TableName() string { return "users" }

type testOrder struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	Customer string  `json:"customer"`
	Total    float64 `json:"amount"`
	Note     string  `json:"-"`
}

func (testOrder) TableName() string { return "orders" }

type lineItem struct {
	ID    int64 `gorm:"primaryKey"`
	Qty   int
	Ref   int64
	Small int8
	Price float32
	Label string
	Paid  sql.NullInt64
}

type otherOrder struct {
	ID uint `gorm:"primaryKey"`
}

func (otherOrder) TableName() string { return "orders" }

type product struct {
	SKU  string `gorm:"primaryKey"`
	Name string
}

type noTable struct {
	ID uint `gorm:"primaryKey"`
}

func (noTable) TableName() string { return "" }

type noKey struct {
	Name string
}

func setupTestDB(t *testing.T) *gorm.DB {
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
	return gormDB
}

func newTestRegistry(t *testing.T) *Registry {
	r, err := New(setupTestDB(t), Options{
		UserModel: &testUser{},
		SecretKey: "secret",
		TokenTTL:  time.Hour,
	})
	require.NoError(t, err)
	return r
}

func TestNew(t *testing.T) {
	r := newTestRegistry(t)

	assert.Equal(t, "users", r.UserModel().Table)
	assert.Equal(t, "secret", r.SecretKey())
	assert.Equal(t, time.Hour, r.TokenTTL())
	assert.Equal(t, DefaultLoginField, r.LoginField())
	assert.Equal(t, DefaultPasswordField, r.PasswordField())
	assert.Equal(t, DefaultSuperuserField, r.SuperuserField())
	assert.NotNil(t, r.DB())
	assert.Empty(t, r.Tables())
}

func TestNew_Validation(t *testing.T) {
	db := setupTestDB(t)

	tests := []struct {
		name string
		db   *gorm.DB
		opts Options
	}{
		{name: "no db", opts: Options{UserModel: &testUser{}, SecretKey: "s", TokenTTL: time.Minute}},
		{name: "no secret", db: db, opts: Options{UserModel: &testUser{}, TokenTTL: time.Minute}},
		{name: "no ttl", db: db, opts: Options{UserModel: &testUser{}, SecretKey: "s"}},
		{name: "no user model", db: db, opts: Options{SecretKey: "s", TokenTTL: time.Minute}},
		{name: "missing login column", db: db, opts: Options{UserModel: &testUser{}, SecretKey: "s", TokenTTL: time.Minute, LoginField: "email"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.db, tt.opts)
			assert.Error(t, err)
		})
	}
}

func TestRegister(t *testing.T) {
	r := newTestRegistry(t)

	require.NoError(t, r.Register(&testOrder{}, product{}))
	assert.Equal(t, []string{"orders", "products"}, r.Tables())

	m, err := r.Lookup("orders")
	require.NoError(t, err)
	assert.Equal(t, "orders", m.Table)
	assert.Equal(t, "id", m.PrimaryKey().DBName)
}

func TestRegister_Errors(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.Register(&testOrder{}))

	tests := []struct {
		name  string
		model any
		want  error
	}{
		{name: "not a struct", model: "orders", want: ErrNotModel},
		{name: "nil", model: nil, want: ErrNotModel},
		{name: "no primary key", model: &noKey{}, want: ErrNotModel},
		{name: "empty table name", model: &noTable{}, want: ErrNoTableName},
		{name: "duplicate table", model: &otherOrder{}, want: ErrDuplicateTable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.Register(tt.model)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	assert.Equal(t, []string{"orders"}, r.Tables())
}

func TestRegister_AllOrNothing(t *testing.T) {
	r := newTestRegistry(t)

	assert.ErrorIs(t, r.Register(&product{}, &noKey{}), ErrNotModel)
	assert.ErrorIs(t, r.Register(&testOrder{}, &otherOrder{}), ErrDuplicateTable)
	assert.Empty(t, r.Tables())

	_, err := r.Lookup("products")
	assert.ErrorIs(t, err, adminerr.ErrModelNotFound)
}

type shadowUser struct {
	ID       uint `gorm:"primaryKey"`
	Username string
}

func (shadowUser) TableName() string { return "users" }

func TestRegister_RejectsUserModel(t *testing.T) {
	r := newTestRegistry(t)

	assert.ErrorIs(t, r.Register(&testUser{}), ErrUserModel)
	assert.ErrorIs(t, r.Register(&testOrder{}, &shadowUser{}), ErrUserModel)
	assert.Empty(t, r.Tables())
}

func TestRegister_NilRegistry(t *testing.T) {
	var r *Registry
	assert.ErrorIs(t, r.Register(&testOrder{}), ErrNotInitialized)
}

func TestRegister_Frozen(t *testing.T) {
	r := newTestRegistry(t)
	r.Freeze()

	assert.True(t, r.Frozen())
	assert.ErrorIs(t, r.Register(&testOrder{}), ErrFrozen)
}

func TestLookup_ModelNotFound(t *testing.T) {
	r := newTestRegistry(t)

	_, err := r.Lookup("widgets")
	require.Error(t, err)
	assert.True(t, errors.Is(err, adminerr.ErrModelNotFound))
}

func TestModels_ReturnsCopy(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.Register(&testOrder{}))

	models := r.Models()
	delete(models, "orders")

	_, err := r.Lookup("orders")
	assert.NoError(t, err)
}

func TestConcurrentLookup(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.Register(&testOrder{}))
	r.Freeze()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.Lookup("orders")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}

func TestModelField(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.Register(&testOrder{}))
	m, err := r.Lookup("orders")
	require.NoError(t, err)

	f, ok := m.Field("total")
	require.True(t, ok)
	assert.Equal(t, "Total", f.Name)

	f, ok = m.Field("amount")
	require.True(t, ok)
	assert.Equal(t, "total", f.DBName)

	_, ok = m.Field("colour")
	assert.False(t, ok)

	_, ok = m.Field("-")
	assert.False(t, ok)

	assert.Equal(t, []string{"customer", "id", "note", "total"}, m.Keys())
}

func TestModelAssign(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.Register(&testOrder{}))
	m, err := r.Lookup("orders")
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("create assigns known keys", func(t *testing.T) {
		v := m.New()
		err := m.Assign(ctx, v, map[string]any{"customer": "ann", "amount": float64(12.5), "id": float64(9)}, true)
		require.NoError(t, err)

		order := v.Interface().(*testOrder)
		assert.Equal(t, "ann", order.Customer)
		assert.Equal(t, 12.5, order.Total)
		assert.Equal(t, uint(9), order.ID)
	})

	t.Run("unknown key", func(t *testing.T) {
		err := m.Assign(ctx, m.New(), map[string]any{"customer": "ann", "colour": "red"}, true)
		require.Error(t, err)
		assert.ErrorIs(t, err, adminerr.ErrUnknownField)
		assert.Contains(t, err.Error(), "colour")
	})

	t.Run("primary key not updatable", func(t *testing.T) {
		err := m.Assign(ctx, m.New(), map[string]any{"id": float64(3)}, false)
		assert.ErrorIs(t, err, adminerr.ErrUnknownField)
	})

	t.Run("wrong type", func(t *testing.T) {
		err := m.Assign(ctx, m.New(), map[string]any{"total": map[string]any{"x": 1}}, true)
		assert.ErrorIs(t, err, adminerr.ErrInvalidPayload)
	})
}

func TestModelValues(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.Register(&testOrder{}))
	m, err := r.Lookup("orders")
	require.NoError(t, err)

	v := m.New()
	order := v.Interface().(*testOrder)
	order.ID = 7
	order.Customer = "bob"
	order.Total = 3

	values := m.Values(context.Background(), v)
	assert.Equal(t, uint(7), values["id"])
	assert.Equal(t, "bob", values["customer"])
	assert.Equal(t, float64(3), values["total"])
	assert.Equal(t, "7", m.PrimaryKeyValue(context.Background(), v))
}

func TestModelParseID(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.Register(&testOrder{}, &product{}))

	orders, err := r.Lookup("orders")
	require.NoError(t, err)
	products, err := r.Lookup("products")
	require.NoError(t, err)

	id, err := orders.ParseID("42")
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	for _, raw := range []string{"", "abc", "-1", "4.2"} {
		_, err = orders.ParseID(raw)
		assert.ErrorIs(t, err, adminerr.ErrInvalidID, raw)
	}

	sku, err := products.ParseID("ABC-1")
	require.NoError(t, err)
	assert.Equal(t, "ABC-1", sku)
}

func TestModelAssign_Numbers(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.Register(&lineItem{}))
	m, err := r.Lookup("line_items")
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("large integers keep every digit", func(t *testing.T) {
		v := m.New()
		err := m.Assign(ctx, v, map[string]any{
			"qty":   json.Number("3"),
			"ref":   json.Number("9007199254740993"),
			"price": json.Number("2.5"),
			"paid":  json.Number("7"),
		}, true)
		require.NoError(t, err)

		item := v.Interface().(*lineItem)
		assert.Equal(t, 3, item.Qty)
		assert.Equal(t, int64(9007199254740993), item.Ref)
		assert.Equal(t, float32(2.5), item.Price)
		assert.Equal(t, sql.NullInt64{Int64: 7, Valid: true}, item.Paid)
	})

	t.Run("whole floats still fit integer columns", func(t *testing.T) {
		v := m.New()
		require.NoError(t, m.Assign(ctx, v, map[string]any{"qty": float64(4)}, true))
		assert.Equal(t, 4, v.Interface().(*lineItem).Qty)
	})

	tests := []struct {
		name  string
		key   string
		value any
	}{
		{name: "fraction into int", key: "qty", value: json.Number("3.7")},
		{name: "fraction float64 into int", key: "qty", value: float64(3.7)},
		{name: "overflow int8", key: "small", value: json.Number("300")},
		{name: "overflow int64", key: "ref", value: json.Number("9223372036854775808")},
		{name: "number into string", key: "label", value: json.Number("12")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := m.New()
			err := m.Assign(ctx, v, map[string]any{tt.key: tt.value}, true)
			require.Error(t, err)
			assert.ErrorIs(t, err, adminerr.ErrInvalidPayload)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}
