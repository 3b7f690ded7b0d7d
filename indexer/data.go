package indexer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"golang.org/x/crypto/blake2b"
)

const ScriptIDSize = 32

// ScriptID is a fixed-width commitment to an output script, used as the key
// prefix for address-style lookups.
type ScriptID [ScriptIDSize]byte

// NewScriptID derives the commitment for a raw output script.
func NewScriptID(script []byte) ScriptID {
	return ScriptID(blake2b.Sum256(script))
}

func (s ScriptID) String() string {
	return fmt.Sprintf("%x", s[:])
}

// Tip identifies the most recently applied block.
type Tip struct {
	BlockHash chainhash.Hash `cbor:"hash"`
	Height    uint32         `cbor:"height"`
}

func (t Tip) String() string {
	return fmt.Sprintf("height = %d, hash = %s", t.Height, t.BlockHash)
}

// TxoRef is the (txId, vout) pair identifying a transaction output.
type TxoRef struct {
	TxHash chainhash.Hash
	Index  uint32
}

func (r TxoRef) String() string {
	return r.TxHash.String() + ":" + strconv.FormatUint(uint64(r.Index), 10)
}

// Block is the pre-parsed block body supplied by the chain RPC.
type Block struct {
	Hash         chainhash.Hash
	Height       uint32
	Size         uint64
	PreviousHash chainhash.Hash
	NextHash     *chainhash.Hash // nil for the chain tip
	Txs          []*Tx
}

type Tx struct {
	Hash    chainhash.Hash
	Raw     []byte
	VSize   uint64
	Inputs  []*TxInput
	Outputs []*TxOutput
}

// IsCoinbase returns true for the block-reward transaction. Such a
// transaction has exactly one input carrying no previous outpoint.
func (tx *Tx) IsCoinbase() bool {
	return len(tx.Inputs) == 1 && tx.Inputs[0].Coinbase
}

type TxInput struct {
	Coinbase bool
	TxHash   chainhash.Hash // previous outpoint tx, zero for coinbase
	Index    uint32
}

func (ti *TxInput) Ref() TxoRef {
	return TxoRef{TxHash: ti.TxHash, Index: ti.Index}
}

type TxOutput struct {
	ScriptID ScriptID
	Script   []byte
	Amount   uint64
	Index    uint32
}

// TxRecord is the persisted TxIndex value.
type TxRecord struct {
	Height uint32 `cbor:"height"`
}

// TxoRecord is the persisted TxoIndex value.
type TxoRecord struct {
	Amount uint64 `cbor:"amount"`
	Script []byte `cbor:"script"`
}

// SpendRecord is the persisted SpentIndex value: the transaction and input
// index that consumed an outpoint.
type SpendRecord struct {
	TxHash chainhash.Hash `cbor:"tx"`
	Vin    uint32         `cbor:"vin"`
}

// FeeBox is the per-block box summary of the fee-rate sample.
type FeeBox struct {
	Q1     int64 `cbor:"q1"`
	Median int64 `cbor:"median"`
	Q3     int64 `cbor:"q3"`
}

// FeeRecord is the persisted FeeIndex value.
type FeeRecord struct {
	Fees FeeBox `cbor:"fees"`
	Size uint64 `cbor:"size"`
}

// FeeEntry pairs a FeeRecord with its block height for the read surface.
type FeeEntry struct {
	Height uint32 `json:"height"`
	Fees   FeeBox `json:"fees"`
	Size   uint64 `json:"size"`
}

// ScriptTxo describes one ScriptIndex entry.
type ScriptTxo struct {
	ScriptID ScriptID
	Height   uint32
	TxHash   chainhash.Hash
	Index    uint32
}

func (st ScriptTxo) Ref() TxoRef {
	return TxoRef{TxHash: st.TxHash, Index: st.Index}
}

func (b Block) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("height = %d, hash = %s, tx count = %d\n", b.Height, b.Hash, len(b.Txs)))

	for _, tx := range b.Txs {
		sb.WriteString(fmt.Sprintf("  tx hash = %s, vsize = %d\n", tx.Hash, tx.VSize))

		for _, inp := range tx.Inputs {
			if inp.Coinbase {
				sb.WriteString("   input = coinbase\n")
			} else {
				sb.WriteString(fmt.Sprintf("   input = %s\n", inp.Ref()))
			}
		}

		for _, out := range tx.Outputs {
			sb.WriteString(fmt.Sprintf("  output = [%d, %s, %d]\n", out.Index, out.ScriptID, out.Amount))
		}
	}

	return sb.String()
}
