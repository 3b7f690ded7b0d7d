package db

import (
	"fmt"

	"github.com/Ethernal-Tech/utxo-indexer/indexer"
	indexerbbolt "github.com/Ethernal-Tech/utxo-indexer/indexer/db/bbolt"
	indexerleveldb "github.com/Ethernal-Tech/utxo-indexer/indexer/db/leveldb"
	indexermemory "github.com/Ethernal-Tech/utxo-indexer/indexer/db/memory"
)

// NewDatabaseInit creates and initializes a database backend by name.
// Supported names are "leveldb", "bbolt" and "memory"; an empty name picks
// leveldb.
func NewDatabaseInit(name string, filePath string) (indexer.Database, error) {
	var db indexer.Database

	switch name {
	case "", "leveldb":
		db = &indexerleveldb.LevelDBDatabase{}
	case "bbolt":
		db = &indexerbbolt.BBoltDatabase{}
	case "memory":
		db = &indexermemory.MemDatabase{}
	default:
		return nil, fmt.Errorf("unknown database backend: %s", name)
	}

	if err := db.Init(filePath); err != nil {
		return nil, err
	}

	return db, nil
}
