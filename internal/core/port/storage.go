package port

import "context"

// ObjectStorage is an interface to define object storage interactions used by
// the finalize verification pipeline.
type ObjectStorage interface {
	// ObjectSize probes the object (HEAD) and returns its content length.
	// Returns domain.ErrObjectNotFound when the key does not exist.
	ObjectSize(ctx context.Context, fileKey string) (int64, error)
	// GetHeaderBytes fetches the first n bytes of the object.
	GetHeaderBytes(ctx context.Context, fileKey string, n int64) ([]byte, error)
	// GetObject fetches the entire object.
	GetObject(ctx context.Context, fileKey string) ([]byte, error)
}
