package indexer

// IterRange bounds a forward iteration over one index: keys in [Gte, Lt),
// at most Limit entries. A nil Lt means "to the end of the index", a Limit
// of zero means unbounded.
type IterRange struct {
	Gte   []byte
	Lt    []byte
	Limit int
}

// DBTransactionWriter accumulates key mutations and applies them atomically
// on Execute. Execute is all-or-nothing and ordered after prior commits on
// the same store.
type DBTransactionWriter interface {
	Put(index Index, key []byte, value []byte) DBTransactionWriter
	Delete(index Index, key []byte) DBTransactionWriter
	Execute() error
}

// Database is the ordered key-value contract the indexer runs against.
// Anything providing point lookups, atomic batches and forward range
// iteration over typed indexes is acceptable.
type Database interface {
	Init(filePath string) error
	Close() error

	// Get returns the value stored under (index, key), or nil when absent.
	// Absence is a normal result, not an error.
	Get(index Index, key []byte) ([]byte, error)

	OpenTx() DBTransactionWriter

	// Iterate walks keys of one index inside rng in ascending byte order,
	// observing at least every commit that happened before the call.
	// The handler returns false to stop early.
	Iterate(index Index, rng IterRange, handler func(key []byte, value []byte) bool) error
}
