package repository

import (
	"context"

	"github.com/sevillaa/Travel-bros/internal/model"
)

// TripStore is the whole-document persistence contract: every operation
// reads the full dataset, mutates an in-memory copy and writes the full
// dataset back. There is no per-trip access and no cross-request locking;
// concurrent writers race with last-writer-wins semantics. Implementations
// only guarantee that a single Save is not observed half-written.
type TripStore interface {
	Load(ctx context.Context) (*model.Document, error)
	Save(ctx context.Context, doc *model.Document) error
	Close() error
}
