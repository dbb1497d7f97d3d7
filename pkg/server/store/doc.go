// Package store provides storage abstractions for the admin server.
//
// This package defines interfaces for database operations, allowing the
// server endpoints to be decoupled from the specific database implementation.
// Endpoint tests use testify mocks of these interfaces; the GORM
// implementations live in the gorm subpackage.
//
// # Available Stores
//
//   - RecordsStore: CRUD over any registered table
//   - UsersStore: CRUD over the user model with password hashing, plus login lookup
//   - HealthStore: Database connectivity check
//
// # Usage
//
//	records := gorm.NewRecordsStore(reg)
//	rec, err := records.Get(ctx, "orders", "42")
//	if err != nil {
//	    if errors.Is(err, adminerr.ErrNotFound) {
//	        // Handle not found
//	    }
//	}
package store
