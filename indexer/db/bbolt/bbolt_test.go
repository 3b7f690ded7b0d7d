package indexerbbolt

import (
	"path/filepath"
	"testing"

	core "github.com/Ethernal-Tech/utxo-indexer/indexer"
	"github.com/stretchr/testify/require"
)

func newTestDatabase(t *testing.T) *BBoltDatabase {
	t.Helper()

	db := &BBoltDatabase{}
	require.NoError(t, db.Init(filepath.Join(t.TempDir(), "test.db")))

	t.Cleanup(func() { db.Close() })

	return db
}

func TestDatabase(t *testing.T) {
	t.Run("InitDatabase", func(t *testing.T) {
		db := &BBoltDatabase{}
		err := db.Init(filepath.Join(t.TempDir(), "test.db"))
		require.NoError(t, err)
		require.NotNil(t, db.db)
		require.NoError(t, db.Close())
	})

	t.Run("GetAbsent", func(t *testing.T) {
		db := newTestDatabase(t)

		value, err := db.Get(core.TxIndex, []byte{1, 2, 3})
		require.NoError(t, err)
		require.Nil(t, value)
	})

	t.Run("PutGetDelete", func(t *testing.T) {
		db := newTestDatabase(t)

		err := db.OpenTx().
			Put(core.TxIndex, []byte{1}, []byte("a")).
			Put(core.TxoIndex, []byte{1}, []byte("b")).
			Execute()
		require.NoError(t, err)

		value, err := db.Get(core.TxIndex, []byte{1})
		require.NoError(t, err)
		require.Equal(t, []byte("a"), value)

		require.NoError(t, db.OpenTx().Delete(core.TxIndex, []byte{1}).Execute())

		value, err = db.Get(core.TxIndex, []byte{1})
		require.NoError(t, err)
		require.Nil(t, value)

		value, err = db.Get(core.TxoIndex, []byte{1})
		require.NoError(t, err)
		require.Equal(t, []byte("b"), value)
	})

	t.Run("IterateRange", func(t *testing.T) {
		db := newTestDatabase(t)

		dbTx := db.OpenTx()
		for _, key := range [][]byte{{3}, {1}, {2}, {4}} {
			dbTx.Put(core.FeeIndex, key, []byte{key[0] * 10})
		}

		require.NoError(t, dbTx.Execute())

		var keys [][]byte

		err := db.Iterate(core.FeeIndex, core.IterRange{Gte: []byte{2}, Lt: []byte{4}},
			func(key []byte, value []byte) bool {
				keys = append(keys, append([]byte(nil), key...))

				return true
			})
		require.NoError(t, err)
		require.Equal(t, [][]byte{{2}, {3}}, keys)
	})

	t.Run("IterateLimit", func(t *testing.T) {
		db := newTestDatabase(t)

		dbTx := db.OpenTx()
		for _, key := range [][]byte{{1}, {2}, {3}} {
			dbTx.Put(core.FeeIndex, key, nil)
		}

		require.NoError(t, dbTx.Execute())

		count := 0

		err := db.Iterate(core.FeeIndex, core.IterRange{Limit: 2},
			func(key []byte, value []byte) bool {
				count++

				return true
			})
		require.NoError(t, err)
		require.Equal(t, 2, count)
	})

	t.Run("TransactionWriterReuse", func(t *testing.T) {
		db := newTestDatabase(t)

		dbTx := db.OpenTx()
		require.NoError(t, dbTx.Put(core.TxIndex, []byte{1}, []byte("a")).Execute())

		// operations are consumed by Execute
		require.NoError(t, dbTx.Execute())

		value, err := db.Get(core.TxIndex, []byte{1})
		require.NoError(t, err)
		require.Equal(t, []byte("a"), value)
	})
}
