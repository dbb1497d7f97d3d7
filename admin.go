package admin

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/admin-in-go/pkg/config"
	"github.com/doodlesbykumbi/admin-in-go/pkg/registry"
	"github.com/doodlesbykumbi/admin-in-go/pkg/server"
	"github.com/doodlesbykumbi/admin-in-go/pkg/server/endpoints"
)

// Admin is a back-office mounted over a host application's GORM models.
type Admin struct {
	registry *registry.Registry
	server   *server.Server
}

type settings struct {
	registry registry.Options
	server   server.Options
}

// Option customizes New.
type Option func(*settings)

// WithLoginField sets the user model column matched on login.
func WithLoginField(column string) Option {
	return func(s *settings) { s.registry.LoginField = column }
}

// WithPasswordField sets the user model column holding the bcrypt digest.
func WithPasswordField(column string) Option {
	return func(s *settings) { s.registry.PasswordField = column }
}

// WithSuperuserField sets the boolean user model column checked on login.
func WithSuperuserField(column string) Option {
	return func(s *settings) { s.registry.SuperuserField = column }
}

// WithLogger replaces the logrus standard logger.
func WithLogger(l *logrus.Logger) Option {
	return func(s *settings) { s.server.Logger = l }
}

// WithListenAddress sets where Start listens.
func WithListenAddress(host, port string) Option {
	return func(s *settings) {
		s.server.Host = host
		s.server.Port = port
	}
}

// New creates an admin over db. userModel is a pointer to the GORM model
// holding the admin users; it is served under /users/ and never under the
// generic table routes.
func New(db *gorm.DB, cfg *config.Config, userModel any, opts ...Option) (*Admin, error) {
	if cfg == nil {
		return nil, fmt.Errorf("admin: %w: configuration", config.ErrMissingSetting)
	}

	s := settings{
		registry: registry.Options{
			UserModel: userModel,
			SecretKey: cfg.SecretKey,
			TokenTTL:  cfg.TokenTTL(),
		},
		server: server.Options{
			Host:        "127.0.0.1",
			Port:        "8000",
			BasePath:    cfg.BasePath,
			CORSOrigins: cfg.CORSOrigins,
		},
	}
	for _, opt := range opts {
		opt(&s)
	}

	reg, err := registry.New(db, s.registry)
	if err != nil {
		return nil, fmt.Errorf("admin: %w", err)
	}

	srv := server.NewServer(reg, s.server)
	endpoints.RegisterAll(srv)

	return &Admin{registry: reg, server: srv}, nil
}

// Register adds models to the admin. It fails once Handler or Start has
// been called, and for the user model, which only the user routes serve.
func (a *Admin) Register(models ...any) error {
	return a.registry.Register(models...)
}

// Tables returns the registered table names.
func (a *Admin) Tables() []string {
	return a.registry.Tables()
}

// Handler freezes the registry and returns the admin's HTTP handler for
// mounting in the host's own server.
func (a *Admin) Handler() http.Handler {
	return a.server.Handler()
}

// Server exposes the underlying server, mainly for tests.
func (a *Admin) Server() *server.Server {
	return a.server
}

// Start serves on the configured address until Shutdown.
func (a *Admin) Start() error {
	return a.server.Start()
}

// Shutdown gracefully stops a server started with Start.
func (a *Admin) Shutdown(ctx context.Context) error {
	return a.server.Shutdown(ctx)
}
