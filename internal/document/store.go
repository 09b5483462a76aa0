package document

import "context"

// Store persists documents. Implementations must be safe for concurrent use.
type Store interface {
	// Create inserts doc. doc.ID must be set.
	Create(ctx context.Context, doc *Document) error

	// Get returns the document with id or [ErrNotFound].
	Get(ctx context.Context, id string) (*Document, error)

	// Update replaces an existing document. Returns [ErrNotFound] if absent.
	Update(ctx context.Context, doc *Document) error

	// Delete removes a document. Deleting a missing document is not an error.
	Delete(ctx context.Context, id string) error

	// List returns every document, newest first.
	List(ctx context.Context) ([]Document, error)
}
