package indexer

import (
	"encoding/binary"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// Index selects one of the typed key ranges of the store. Each index owns a
// disjoint contiguous range; backends map the index to a prefix byte or a
// bucket so that lexicographic byte order within an index follows the tuple
// order of its keys.
type Index byte

const (
	TipIndex Index = iota + 1
	TxIndex
	TxoIndex
	SpentIndex
	ScriptIndex
	FeeIndex
	LabelIndex
)

func (i Index) String() string {
	switch i {
	case TipIndex:
		return "tip"
	case TxIndex:
		return "tx"
	case TxoIndex:
		return "txo"
	case SpentIndex:
		return "spent"
	case ScriptIndex:
		return "script"
	case FeeIndex:
		return "fee"
	case LabelIndex:
		return "label"
	default:
		return fmt.Sprintf("index(%d)", byte(i))
	}
}

// Indexes lists every typed key range, in tag order.
func Indexes() []Index {
	return []Index{TipIndex, TxIndex, TxoIndex, SpentIndex, ScriptIndex, FeeIndex, LabelIndex}
}

// tipKey is the singleton key of the TipIndex.
var tipKey = []byte("tip")

// All integer key components are big-endian so byte order equals numeric
// order. Hashes and script ids are fixed width, so the only variable-width
// component (a label) can appear solely as the trailing component.

func TipKey() []byte {
	return tipKey
}

func TxKey(txHash chainhash.Hash) []byte {
	return txHash[:]
}

func DecodeTxKey(key []byte) (chainhash.Hash, error) {
	if len(key) != chainhash.HashSize {
		return chainhash.Hash{}, fmt.Errorf("%w: invalid tx key length %d", ErrIndexerFatal, len(key))
	}

	return chainhash.Hash(key), nil
}

func TxoKey(ref TxoRef) []byte {
	key := make([]byte, chainhash.HashSize+4)
	copy(key, ref.TxHash[:])
	binary.BigEndian.PutUint32(key[chainhash.HashSize:], ref.Index)

	return key
}

func DecodeTxoKey(key []byte) (TxoRef, error) {
	if len(key) != chainhash.HashSize+4 {
		return TxoRef{}, fmt.Errorf("%w: invalid txo key length %d", ErrIndexerFatal, len(key))
	}

	return TxoRef{
		TxHash: chainhash.Hash(key[:chainhash.HashSize]),
		Index:  binary.BigEndian.Uint32(key[chainhash.HashSize:]),
	}, nil
}

func ScriptTxoKey(txo ScriptTxo) []byte {
	key := make([]byte, ScriptIDSize+4+chainhash.HashSize+4)
	copy(key, txo.ScriptID[:])
	binary.BigEndian.PutUint32(key[ScriptIDSize:], txo.Height)
	copy(key[ScriptIDSize+4:], txo.TxHash[:])
	binary.BigEndian.PutUint32(key[ScriptIDSize+4+chainhash.HashSize:], txo.Index)

	return key
}

func DecodeScriptTxoKey(key []byte) (ScriptTxo, error) {
	if len(key) != ScriptIDSize+4+chainhash.HashSize+4 {
		return ScriptTxo{}, fmt.Errorf("%w: invalid script txo key length %d", ErrIndexerFatal, len(key))
	}

	return ScriptTxo{
		ScriptID: ScriptID(key[:ScriptIDSize]),
		Height:   binary.BigEndian.Uint32(key[ScriptIDSize:]),
		TxHash:   chainhash.Hash(key[ScriptIDSize+4 : ScriptIDSize+4+chainhash.HashSize]),
		Index:    binary.BigEndian.Uint32(key[ScriptIDSize+4+chainhash.HashSize:]),
	}, nil
}

// ScriptRangeFrom is the inclusive lower bound for scanning one script id
// starting at fromHeight.
func ScriptRangeFrom(scriptID ScriptID, fromHeight uint32) []byte {
	key := make([]byte, ScriptIDSize+4)
	copy(key, scriptID[:])
	binary.BigEndian.PutUint32(key[ScriptIDSize:], fromHeight)

	return key
}

// ScriptRangeUpperBound is the exclusive upper bound covering every key of
// one script id: the shortest key greater than all of them.
func ScriptRangeUpperBound(scriptID ScriptID) []byte {
	return prefixUpperBound(scriptID[:])
}

func FeeKey(height uint32) []byte {
	key := make([]byte, 4)
	binary.BigEndian.PutUint32(key, height)

	return key
}

func DecodeFeeKey(key []byte) (uint32, error) {
	if len(key) != 4 {
		return 0, fmt.Errorf("%w: invalid fee key length %d", ErrIndexerFatal, len(key))
	}

	return binary.BigEndian.Uint32(key), nil
}

func LabelKey(scriptID ScriptID, label []byte) []byte {
	key := make([]byte, ScriptIDSize+len(label))
	copy(key, scriptID[:])
	copy(key[ScriptIDSize:], label)

	return key
}

func DecodeLabelKey(key []byte) (ScriptID, []byte, error) {
	if len(key) < ScriptIDSize {
		return ScriptID{}, nil, fmt.Errorf("%w: invalid label key length %d", ErrIndexerFatal, len(key))
	}

	return ScriptID(key[:ScriptIDSize]), key[ScriptIDSize:], nil
}

// LabelRangeUpperBound is the exclusive upper bound covering every label of
// one script id.
func LabelRangeUpperBound(scriptID ScriptID) []byte {
	return prefixUpperBound(scriptID[:])
}

// prefixUpperBound returns the smallest byte string greater than every key
// starting with prefix, or nil when no such bound exists (all 0xff).
func prefixUpperBound(prefix []byte) []byte {
	bound := make([]byte, len(prefix))
	copy(bound, prefix)

	for i := len(bound) - 1; i >= 0; i-- {
		if bound[i] < 0xff {
			bound[i]++

			return bound[:i+1]
		}
	}

	return nil
}
