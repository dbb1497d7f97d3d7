package store

import "context"

// Record is one row of a registered table keyed by column name. The same
// keys are accepted on input and produced on output.
type Record map[string]any

// DeleteResult describes a completed hard delete.
type DeleteResult struct {
	Table   string `json:"table"`
	ID      string `json:"id"`
	Message string `json:"message"`
}

// RecordsStore performs CRUD on any registered table.
//
// Errors carry adminerr kinds: ModelNotFound for an unregistered table,
// NotFound for a missing row, InvalidID for an id that does not fit the
// primary key, UnknownField or InvalidPayload for bad input, and Internal
// for storage failures after rollback.
type RecordsStore interface {
	// List returns every row of table ordered by primary key.
	List(ctx context.Context, table string) ([]Record, error)

	// Get returns the row of table whose primary key is id.
	Get(ctx context.Context, table, id string) (Record, error)

	// Create inserts a row built from fields and returns it as stored.
	Create(ctx context.Context, table string, fields map[string]any) (Record, error)

	// Update assigns fields onto the row and returns it as stored.
	Update(ctx context.Context, table, id string, fields map[string]any) (Record, error)

	// Delete removes the row permanently.
	Delete(ctx context.Context, table, id string) (*DeleteResult, error)
}
