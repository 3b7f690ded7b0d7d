package indexerbbolt

import (
	"fmt"

	core "github.com/Ethernal-Tech/utxo-indexer/indexer"

	"go.etcd.io/bbolt"
)

type txOperation func(tx *bbolt.Tx) error

type BBoltTransactionWriter struct {
	db         *bbolt.DB
	operations []txOperation
}

var _ core.DBTransactionWriter = (*BBoltTransactionWriter)(nil)

func (tw *BBoltTransactionWriter) Put(index core.Index, key []byte, value []byte) core.DBTransactionWriter {
	tw.operations = append(tw.operations, func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketName(index)).Put(key, value); err != nil {
			return fmt.Errorf("%s write error: %w", index, err)
		}

		return nil
	})

	return tw
}

func (tw *BBoltTransactionWriter) Delete(index core.Index, key []byte) core.DBTransactionWriter {
	tw.operations = append(tw.operations, func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketName(index)).Delete(key); err != nil {
			return fmt.Errorf("%s delete error: %w", index, err)
		}

		return nil
	})

	return tw
}

func (tw *BBoltTransactionWriter) Execute() error {
	defer func() {
		tw.operations = nil
	}()

	return tw.db.Update(func(tx *bbolt.Tx) error {
		for _, op := range tw.operations {
			if err := op(tx); err != nil {
				return err
			}
		}

		return nil
	})
}
