package store

import "context"

// PasswordKey is the plaintext payload key replaced by the password digest.
const PasswordKey = "password"

// Credentials are what login needs to know about a user.
type Credentials struct {
	ID             string
	HashedPassword string
	Superuser      bool
}

// UsersStore performs CRUD on the designated user model. A "password" key
// in create and update payloads is hashed into the password column and never
// stored verbatim.
type UsersStore interface {
	List(ctx context.Context) ([]Record, error)
	Get(ctx context.Context, id string) (Record, error)
	Create(ctx context.Context, fields map[string]any) (Record, error)
	Update(ctx context.Context, id string, fields map[string]any) (Record, error)
	Delete(ctx context.Context, id string) (*DeleteResult, error)

	// Credentials looks a user up by login name.
	// Returns an adminerr NotFound error when no user matches.
	Credentials(ctx context.Context, login string) (*Credentials, error)
}
