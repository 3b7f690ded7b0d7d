package indexerleveldb

import (
	core "github.com/Ethernal-Tech/utxo-indexer/indexer"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

type LevelDBTransactionWriter struct {
	db    *leveldb.DB
	batch *leveldb.Batch
}

var _ core.DBTransactionWriter = (*LevelDBTransactionWriter)(nil)

func NewLevelDBTransactionWriter(db *leveldb.DB) *LevelDBTransactionWriter {
	return &LevelDBTransactionWriter{
		db:    db,
		batch: new(leveldb.Batch),
	}
}

func (tw *LevelDBTransactionWriter) Put(index core.Index, key []byte, value []byte) core.DBTransactionWriter {
	tw.batch.Put(indexKey(index, key), value)

	return tw
}

func (tw *LevelDBTransactionWriter) Delete(index core.Index, key []byte) core.DBTransactionWriter {
	tw.batch.Delete(indexKey(index, key))

	return tw
}

func (tw *LevelDBTransactionWriter) Execute() error {
	defer tw.batch.Reset()

	return tw.db.Write(tw.batch, &opt.WriteOptions{
		NoWriteMerge: false,
		Sync:         true,
	})
}
