package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/doodlesbykumbi/admin-in-go/pkg/auth"
	"github.com/doodlesbykumbi/admin-in-go/pkg/logging"
	"github.com/doodlesbykumbi/admin-in-go/pkg/registry"
	"github.com/doodlesbykumbi/admin-in-go/pkg/server/middleware"
	"github.com/doodlesbykumbi/admin-in-go/pkg/server/store"
	storegorm "github.com/doodlesbykumbi/admin-in-go/pkg/server/store/gorm"
)

// Options configures the HTTP server.
type Options struct {
	Host        string
	Port        string
	BasePath    string
	CORSOrigins []string
	Logger      *logrus.Logger
}

type Server struct {
	Registry      *registry.Registry
	Issuer        *auth.Issuer
	JWTMiddleware *middleware.JWTAuthenticator

	RecordsStore store.RecordsStore
	UsersStore   store.UsersStore
	HealthStore  store.HealthStore

	// Router serves paths below BasePath; endpoints register on it.
	Router   *mux.Router
	BasePath string

	root   *mux.Router
	logger *logrus.Logger
	access io.Writer
	srv    *http.Server
}

func NewServer(reg *registry.Registry, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	issuer := auth.NewIssuer([]byte(reg.SecretKey()), reg.TokenTTL())

	root := mux.NewRouter().UseEncodedPath()
	logging.AddRequestID(root)

	basePath := strings.TrimRight(opts.BasePath, "/")
	router := root
	if basePath != "" {
		router = root.PathPrefix(basePath).Subrouter()
	}

	s := &Server{
		Registry:      reg,
		Issuer:        issuer,
		JWTMiddleware: middleware.NewJWTAuthenticator(issuer),
		RecordsStore:  storegorm.NewRecordsStore(reg),
		UsersStore:    storegorm.NewUsersStore(reg),
		HealthStore:   storegorm.NewHealthStore(reg.DB()),
		Router:        router,
		BasePath:      basePath,
		root:          root,
		logger:        logger,
		access:        logger.WriterLevel(logrus.InfoLevel),
	}

	var handler http.Handler = root
	if len(opts.CORSOrigins) > 0 {
		handler = handlers.CORS(
			handlers.AllowedOrigins(opts.CORSOrigins),
			handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
			handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
		)(handler)
	}
	handler = handlers.LoggingHandler(s.access, handler)
	handler = handlers.RecoveryHandler(handlers.RecoveryLogger(logger), handlers.PrintRecoveryStack(true))(handler)

	s.srv = &http.Server{
		Handler: handler,
		Addr:    net.JoinHostPort(opts.Host, opts.Port),
		// Good practice: enforce timeouts for servers you create!
		WriteTimeout:      15 * time.Second,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s
}

// Handler freezes the registry and returns the fully wrapped handler, for
// mounting inside a host application's own server.
func (s *Server) Handler() http.Handler {
	s.Registry.Freeze()
	return s.srv.Handler
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.srv.Addr
}

// Start freezes the registry and serves until Shutdown is called.
func (s *Server) Start() error {
	s.Registry.Freeze()
	s.logger.WithFields(logrus.Fields{
		"addr":   s.srv.Addr,
		"tables": s.Registry.Tables(),
	}).Info("Admin server listening")

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.srv.Shutdown(ctx)
	if c, ok := s.access.(io.Closer); ok {
		_ = c.Close()
	}
	return err
}
