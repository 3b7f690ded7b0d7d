package indexer

import "errors"

var (
	// ErrIndexerFatal marks errors the follower cannot recover from without
	// operator intervention: stored-data corruption or an index that no
	// longer agrees with the chain.
	ErrIndexerFatal = errors.New("indexer fatal error")

	// ErrHeightMismatch is returned when the block body fetched for connect
	// carries a different height than the follower expected.
	ErrHeightMismatch = errors.New("block height mismatch")

	// ErrMissingTxo is returned by the fee pass when an input's outpoint is
	// not present in the txo index.
	ErrMissingTxo = errors.New("missing txo")
)
