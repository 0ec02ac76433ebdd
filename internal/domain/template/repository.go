package template

import "context"

// Repository persists the template collection as a single versioned envelope
type Repository interface {
	// Load returns every stored template that still validates. Entries that no
	// longer match the schema are dropped.
	Load(ctx context.Context) ([]*Template, error)

	// Save replaces the stored collection
	Save(ctx context.Context, templates []*Template) error
}
