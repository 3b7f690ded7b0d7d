package indexer

import "github.com/btcsuite/btcd/chaincfg/chainhash"

type Closable interface {
	Close() error
}

type Service interface {
	Closable
	Start()
}

// ChainRPC supplies validated block bodies from the chain node. The source
// is trusted; the indexer performs no header or transaction validation.
type ChainRPC interface {
	Block(blockHash chainhash.Hash) (*Block, error)
	BlockHashAtHeight(height uint32) (*chainhash.Hash, error)
}

// EventSink receives the ordered event batch of one connected block.
// Delivery is fire-and-forget, at most once per successful connect.
type EventSink interface {
	Publish(events []Event)
}

// ChainSyncHandler is the write surface driven by a single logical writer.
type ChainSyncHandler interface {
	ConnectBlock(blockHash chainhash.Hash, expectedHeight uint32) (*chainhash.Hash, error)
	DisconnectBlock(blockHash chainhash.Hash) error
}
