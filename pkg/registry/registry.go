package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"github.com/doodlesbykumbi/admin-in-go/pkg/adminerr"
)

var (
	// ErrNotInitialized is returned when registering on a nil registry.
	ErrNotInitialized = errors.New("registry not initialized")
	// ErrNotModel is returned for values GORM cannot map to a table.
	ErrNotModel = errors.New("not a model")
	// ErrNoTableName is returned for models that resolve to an empty table name.
	ErrNoTableName = errors.New("model has no table name")
	// ErrDuplicateTable is returned when a table name is registered twice.
	ErrDuplicateTable = errors.New("table already registered")
	// ErrFrozen is returned when registering after the server started.
	ErrFrozen = errors.New("registry is frozen")
	// ErrUserModel is returned when the user model is registered as a table.
	ErrUserModel = errors.New("user model is served by the user routes")
)

const (
	DefaultLoginField     = "username"
	DefaultPasswordField  = "hashed_password"
	DefaultSuperuserField = "is_superuser"
)

// Options configures a Registry.
type Options struct {
	// UserModel is the designated user model, e.g. &User{}
	UserModel any
	// SecretKey signs bearer tokens
	SecretKey string
	// TokenTTL is the bearer token lifetime
	TokenTTL time.Duration

	LoginField     string
	PasswordField  string
	SuperuserField string
}

// Registry maps table names to model descriptors. It is populated during
// startup and frozen before the first request is served.
type Registry struct {
	mu     sync.RWMutex
	db     *gorm.DB
	cache  *sync.Map
	models map[string]*Model
	frozen bool

	user           *Model
	secretKey      string
	tokenTTL       time.Duration
	loginField     string
	passwordField  string
	superuserField string
}

// New creates a registry bound to db with the given user model.
func New(db *gorm.DB, opts Options) (*Registry, error) {
	if db == nil {
		return nil, errors.New("registry: database is required")
	}
	if opts.SecretKey == "" {
		return nil, errors.New("registry: secret key is required")
	}
	if opts.TokenTTL <= 0 {
		return nil, errors.New("registry: token lifetime must be positive")
	}
	if opts.LoginField == "" {
		opts.LoginField = DefaultLoginField
	}
	if opts.PasswordField == "" {
		opts.PasswordField = DefaultPasswordField
	}
	if opts.SuperuserField == "" {
		opts.SuperuserField = DefaultSuperuserField
	}

	r := &Registry{
		db:             db,
		cache:          &sync.Map{},
		models:         make(map[string]*Model),
		secretKey:      opts.SecretKey,
		tokenTTL:       opts.TokenTTL,
		loginField:     opts.LoginField,
		passwordField:  opts.PasswordField,
		superuserField: opts.SuperuserField,
	}

	user, err := r.parse(opts.UserModel)
	if err != nil {
		return nil, fmt.Errorf("user model: %w", err)
	}
	for _, column := range []string{opts.LoginField, opts.PasswordField, opts.SuperuserField} {
		if _, ok := user.Schema.FieldsByDBName[column]; !ok {
			return nil, fmt.Errorf("user model %s has no column %q", user.Type, column)
		}
	}
	r.user = user

	return r, nil
}

func (r *Registry) parse(value any) (*Model, error) {
	if value == nil {
		return nil, fmt.Errorf("%w: nil", ErrNotModel)
	}
	sch, err := schema.Parse(value, r.cache, r.db.NamingStrategy)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotModel, err)
	}
	if len(sch.PrimaryFields) == 0 {
		return nil, fmt.Errorf("%w: %s has no primary key", ErrNotModel, sch.ModelType)
	}
	if sch.Table == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoTableName, sch.ModelType)
	}
	return newModel(sch), nil
}

// Register adds models to the registry. Either every model is added or, on
// the first failing model, none are.
func (r *Registry) Register(models ...any) error {
	if r == nil {
		return ErrNotInitialized
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return ErrFrozen
	}

	batch := make(map[string]*Model, len(models))
	for _, value := range models {
		m, err := r.parse(value)
		if err != nil {
			return err
		}
		if m.Table == r.user.Table || m.Type == r.user.Type {
			return fmt.Errorf("%w: %s", ErrUserModel, m.Type)
		}
		if existing, ok := r.models[m.Table]; ok {
			return fmt.Errorf("%w: %q maps to %s", ErrDuplicateTable, m.Table, existing.Type)
		}
		if existing, ok := batch[m.Table]; ok {
			return fmt.Errorf("%w: %q maps to %s", ErrDuplicateTable, m.Table, existing.Type)
		}
		batch[m.Table] = m
	}

	for table, m := range batch {
		r.models[table] = m
	}
	return nil
}

// Freeze makes the registry immutable.
func (r *Registry) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

// Frozen reports whether Freeze has been called.
func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

// Lookup returns the model registered under table.
func (r *Registry) Lookup(table string) (*Model, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.models[table]
	if !ok {
		return nil, adminerr.ModelNotFound(table)
	}
	return m, nil
}

// Models returns a copy of the table map.
func (r *Registry) Models() map[string]*Model {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]*Model, len(r.models))
	for k, v := range r.models {
		out[k] = v
	}
	return out
}

// Tables returns the registered table names, sorted.
func (r *Registry) Tables() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tables := make([]string, 0, len(r.models))
	for t := range r.models {
		tables = append(tables, t)
	}
	sort.Strings(tables)
	return tables
}

func (r *Registry) DB() *gorm.DB { return r.db }
func (r *Registry) UserModel() *Model { return r.user }
func (r *Registry) SecretKey() string { return r.secretKey }
func (r *Registry) TokenTTL() time.Duration { return r.tokenTTL }
func (r *Registry) LoginField() string { return r.loginField }
func (r *Registry) PasswordField() string { return r.passwordField }
func (r *Registry) SuperuserField() string { return r.superuserField }
