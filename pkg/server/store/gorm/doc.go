// Package gorm provides GORM-based implementations of the store interfaces
// defined in the parent store package.
//
// Every request works on a context-scoped session taken from the registry's
// database handle. Create, Update and Delete each run inside one
// db.Transaction, so any error rolls the whole operation back. Rows are read
// back by primary key after a write and returned as store.Record values
// keyed by column name.
package gorm
