package storage

// KV is the local key-value storage the task list is kept in
type KV interface {
	// Get returns the value stored under key. ok is false when the key
	// has never been set.
	Get(key string) (value string, ok bool, err error)

	// Set overwrites the value stored under key
	Set(key, value string) error

	// Close releases the underlying storage
	Close() error
}

// BackendFactory opens a KV backend. path is backend-specific and may be
// ignored (the memory backend does).
type BackendFactory func(path string) (KV, error)
