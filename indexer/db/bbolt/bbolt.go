package indexerbbolt

import (
	"bytes"
	"fmt"

	core "github.com/Ethernal-Tech/utxo-indexer/indexer"
	"go.etcd.io/bbolt"
)

// BBoltDatabase maps every typed index to its own bucket. Bucket cursors
// iterate keys in ascending byte order, which together with the core key
// codec gives the range-scan ordering the indexer relies on.
type BBoltDatabase struct {
	db *bbolt.DB
}

var _ core.Database = (*BBoltDatabase)(nil)

func (bd *BBoltDatabase) Init(filePath string) error {
	db, err := bbolt.Open(filePath, 0600, nil)
	if err != nil {
		return fmt.Errorf("could not open db: %w", err)
	}

	bd.db = db

	return db.Update(func(tx *bbolt.Tx) error {
		for _, index := range core.Indexes() {
			_, err := tx.CreateBucketIfNotExists(bucketName(index))
			if err != nil {
				return fmt.Errorf("could not create bucket %s: %w", index, err)
			}
		}

		return nil
	})
}

func (bd *BBoltDatabase) Close() error {
	return bd.db.Close()
}

func (bd *BBoltDatabase) Get(index core.Index, key []byte) (result []byte, err error) {
	err = bd.db.View(func(tx *bbolt.Tx) error {
		if data := tx.Bucket(bucketName(index)).Get(key); data != nil {
			result = append([]byte(nil), data...)
		}

		return nil
	})

	return result, err
}

func (bd *BBoltDatabase) Iterate(
	index core.Index, rng core.IterRange, handler func(key []byte, value []byte) bool,
) error {
	return bd.db.View(func(tx *bbolt.Tx) error {
		cursor := tx.Bucket(bucketName(index)).Cursor()
		count := 0

		for k, v := cursor.Seek(rng.Gte); k != nil; k, v = cursor.Next() {
			if rng.Lt != nil && bytes.Compare(k, rng.Lt) >= 0 {
				break
			}

			if !handler(k, v) {
				break
			}

			count++
			if rng.Limit > 0 && count == rng.Limit {
				break
			}
		}

		return nil
	})
}

func (bd *BBoltDatabase) OpenTx() core.DBTransactionWriter {
	return &BBoltTransactionWriter{
		db: bd.db,
	}
}

func bucketName(index core.Index) []byte {
	return []byte(index.String())
}
