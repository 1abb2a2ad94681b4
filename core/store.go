package core

import "context"

// Store persists opaque blobs under fixed keys.
// Load returns nil data (and no error) for a key that was never saved.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}

// Ordering is a single sort field. Field names match the JSON names of the sorted type.
type Ordering struct {
	Field     string
	Ascending bool
}

func (ord Ordering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}
