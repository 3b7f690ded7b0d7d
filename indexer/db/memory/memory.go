package indexermemory

import (
	"sort"
	"sync"

	core "github.com/Ethernal-Tech/utxo-indexer/indexer"
)

// MemDatabase is an in-process backend with the same ordering semantics as
// the persistent ones. Intended for tests and tooling.
type MemDatabase struct {
	mutex   sync.RWMutex
	indexes map[core.Index]map[string][]byte
}

var _ core.Database = (*MemDatabase)(nil)

func (md *MemDatabase) Init(filePath string) error {
	md.indexes = make(map[core.Index]map[string][]byte, len(core.Indexes()))
	for _, index := range core.Indexes() {
		md.indexes[index] = map[string][]byte{}
	}

	return nil
}

func (md *MemDatabase) Close() error {
	return nil
}

func (md *MemDatabase) Get(index core.Index, key []byte) ([]byte, error) {
	md.mutex.RLock()
	defer md.mutex.RUnlock()

	data, exists := md.indexes[index][string(key)]
	if !exists {
		return nil, nil
	}

	return append([]byte(nil), data...), nil
}

func (md *MemDatabase) Iterate(
	index core.Index, rng core.IterRange, handler func(key []byte, value []byte) bool,
) error {
	md.mutex.RLock()

	keys := make([]string, 0, len(md.indexes[index]))

	for key := range md.indexes[index] {
		if key < string(rng.Gte) {
			continue
		}

		if rng.Lt != nil && key >= string(rng.Lt) {
			continue
		}

		keys = append(keys, key)
	}

	sort.Strings(keys)

	entries := make([][2][]byte, len(keys))
	for i, key := range keys {
		entries[i] = [2][]byte{[]byte(key), append([]byte(nil), md.indexes[index][key]...)}
	}

	md.mutex.RUnlock()

	count := 0

	for _, entry := range entries {
		if !handler(entry[0], entry[1]) {
			break
		}

		count++
		if rng.Limit > 0 && count == rng.Limit {
			break
		}
	}

	return nil
}

func (md *MemDatabase) OpenTx() core.DBTransactionWriter {
	return &MemTransactionWriter{db: md}
}

type memOperation struct {
	index  core.Index
	key    []byte
	value  []byte
	remove bool
}

type MemTransactionWriter struct {
	db         *MemDatabase
	operations []memOperation
}

var _ core.DBTransactionWriter = (*MemTransactionWriter)(nil)

func (tw *MemTransactionWriter) Put(index core.Index, key []byte, value []byte) core.DBTransactionWriter {
	tw.operations = append(tw.operations, memOperation{
		index: index,
		key:   append([]byte(nil), key...),
		value: append([]byte(nil), value...),
	})

	return tw
}

func (tw *MemTransactionWriter) Delete(index core.Index, key []byte) core.DBTransactionWriter {
	tw.operations = append(tw.operations, memOperation{
		index:  index,
		key:    append([]byte(nil), key...),
		remove: true,
	})

	return tw
}

func (tw *MemTransactionWriter) Execute() error {
	defer func() {
		tw.operations = nil
	}()

	tw.db.mutex.Lock()
	defer tw.db.mutex.Unlock()

	for _, op := range tw.operations {
		if op.remove {
			delete(tw.db.indexes[op.index], string(op.key))
		} else {
			tw.db.indexes[op.index][string(op.key)] = op.value
		}
	}

	return nil
}
