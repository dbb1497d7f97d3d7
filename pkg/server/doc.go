// Package server provides the HTTP server for the admin.
//
// This package wires the registry to the GORM stores, the token issuer and
// the bearer-token middleware, and wraps a gorilla/mux router with access
// logging, panic recovery and optional CORS.
//
// # Server Setup
//
//	srv := server.NewServer(reg, server.Options{Host: "0.0.0.0", Port: "8000"})
//	endpoints.RegisterAll(srv)
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
//
// Start and Handler freeze the registry; models must be registered first.
//
// # Components
//
// The Server struct holds:
//
//   - Registry: Table name to model mapping
//   - Issuer: Bearer token signing and verification
//   - JWTMiddleware: Superuser token requirement
//   - RecordsStore, UsersStore, HealthStore: Storage
//   - Router: HTTP request router below the base path
//
// # Endpoints
//
// Endpoints are registered via the endpoints subpackage:
//
//   - GET / - Landing page
//   - GET /status - Health check
//   - POST /login - Token issuance
//   - /users/ and /users/{id} - User management
//   - /{table}/ and /{table}/{id} - Generic CRUD
package server
