package indexerleveldb

import (
	"errors"
	"fmt"

	core "github.com/Ethernal-Tech/utxo-indexer/indexer"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// LevelDBDatabase keeps every typed index in one keyspace: the index tag is
// the first key byte, so each index occupies a contiguous range and range
// scans never cross indexes.
type LevelDBDatabase struct {
	db *leveldb.DB
}

var _ core.Database = (*LevelDBDatabase)(nil)

func (lvldb *LevelDBDatabase) Init(filePath string) error {
	db, err := leveldb.OpenFile(filePath, nil)
	if err != nil {
		return fmt.Errorf("could not open db: %w", err)
	}

	lvldb.db = db

	return nil
}

func (lvldb *LevelDBDatabase) Close() error {
	return lvldb.db.Close()
}

func (lvldb *LevelDBDatabase) Get(index core.Index, key []byte) ([]byte, error) {
	data, err := lvldb.db.Get(indexKey(index, key), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return data, nil
}

func (lvldb *LevelDBDatabase) Iterate(
	index core.Index, rng core.IterRange, handler func(key []byte, value []byte) bool,
) error {
	iterRange := &util.Range{
		Start: indexKey(index, rng.Gte),
		Limit: indexUpperBound(index, rng.Lt),
	}

	iter := lvldb.db.NewIterator(iterRange, nil)
	defer iter.Release()

	count := 0

	for iter.Next() {
		if !handler(iter.Key()[1:], iter.Value()) {
			break
		}

		count++
		if rng.Limit > 0 && count == rng.Limit {
			break
		}
	}

	return iter.Error()
}

func (lvldb *LevelDBDatabase) OpenTx() core.DBTransactionWriter {
	return NewLevelDBTransactionWriter(lvldb.db)
}

func indexKey(index core.Index, key []byte) []byte {
	outputKey := make([]byte, 1+len(key))
	outputKey[0] = byte(index)
	copy(outputKey[1:], key)

	return outputKey
}

// indexUpperBound returns the exclusive bound for an iteration: the encoded
// lt key when given, otherwise the first key of the next index.
func indexUpperBound(index core.Index, lt []byte) []byte {
	if lt != nil {
		return indexKey(index, lt)
	}

	return []byte{byte(index) + 1}
}
