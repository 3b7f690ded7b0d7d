package indexer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	infracommon "github.com/Ethernal-Tech/utxo-indexer/common"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/hashicorp/go-hclog"
)

const defaultFeeWorkerCount = 8

type BlockIndexerConfig struct {
	// number of concurrent txo lookups during the fee pass
	FeeWorkerCount int `json:"feeWorkerCount"`
}

// BlockIndexer maintains the secondary indexes over the chain. It is driven
// by a single logical writer issuing ConnectBlock/DisconnectBlock serially;
// reads may run concurrently with the writer.
type BlockIndexer struct {
	config *BlockIndexerConfig

	db   Database
	rpc  ChainRPC
	sink EventSink

	mutex  sync.Mutex
	logger hclog.Logger
}

var _ ChainSyncHandler = (*BlockIndexer)(nil)

func NewBlockIndexer(
	config *BlockIndexerConfig, db Database, rpc ChainRPC, sink EventSink, logger hclog.Logger,
) *BlockIndexer {
	if config.FeeWorkerCount <= 0 {
		config.FeeWorkerCount = defaultFeeWorkerCount
	}

	return &BlockIndexer{
		config: config,
		db:     db,
		rpc:    rpc,
		sink:   sink,
		logger: logger,
	}
}

// ConnectBlock applies the block at the tip. The primary batch (tx, txo,
// spent, script entries and the new tip) commits atomically, then the fee
// pass commits its summary in a second batch, then the queued events are
// handed to the sink. It returns the hash of the block's successor, nil if
// the block is the chain tip.
func (bi *BlockIndexer) ConnectBlock(
	blockHash chainhash.Hash, expectedHeight uint32,
) (*chainhash.Hash, error) {
	bi.mutex.Lock()
	defer bi.mutex.Unlock()

	block, err := bi.rpc.Block(blockHash)
	if err != nil {
		return nil, fmt.Errorf("could not fetch block %s: %w", blockHash, err)
	}

	// guards against a reorg racing the follower
	if block.Height != expectedHeight {
		return nil, fmt.Errorf("%w: block %s has height %d, expected %d",
			ErrHeightMismatch, blockHash, block.Height, expectedHeight)
	}

	events, err := bi.connectBlockTxs(block)
	if err != nil {
		return nil, err
	}

	if err := bi.applyFeeSummary(block); err != nil {
		return nil, err
	}

	bi.logger.Debug("Connected block", "hash", block.Hash, "height", block.Height, "txs", len(block.Txs))

	// the sink's drain loop runs the subscribers on its own goroutine, which
	// may start dispatching before this call returns
	bi.sink.Publish(events)

	return block.NextHash, nil
}

// DisconnectBlock undoes the tip block on a reorg. It deletes every entry
// the block installed and rolls the tip back to the block's parent. No
// events are emitted and the fee summary for the height is retained.
func (bi *BlockIndexer) DisconnectBlock(blockHash chainhash.Hash) error {
	bi.mutex.Lock()
	defer bi.mutex.Unlock()

	block, err := bi.rpc.Block(blockHash)
	if err != nil {
		return fmt.Errorf("could not fetch block %s: %w", blockHash, err)
	}

	dbTx := bi.db.OpenTx()

	for _, tx := range block.Txs {
		for _, inp := range tx.Inputs {
			if inp.Coinbase {
				continue
			}

			dbTx.Delete(SpentIndex, TxoKey(inp.Ref()))
		}

		for _, out := range tx.Outputs {
			// each output is keyed on the enclosing transaction's hash
			dbTx.Delete(ScriptIndex, ScriptTxoKey(ScriptTxo{
				ScriptID: out.ScriptID,
				Height:   block.Height,
				TxHash:   tx.Hash,
				Index:    out.Index,
			}))
			dbTx.Delete(TxoIndex, TxoKey(TxoRef{TxHash: tx.Hash, Index: out.Index}))
		}

		dbTx.Delete(TxIndex, TxKey(tx.Hash))
	}

	newTip := Tip{BlockHash: block.PreviousHash}
	if block.Height > 0 {
		newTip.Height = block.Height - 1
	}

	tipValue, err := MarshalValue(newTip)
	if err != nil {
		return err
	}

	dbTx.Put(TipIndex, TipKey(), tipValue)

	if err := dbTx.Execute(); err != nil {
		return fmt.Errorf("could not commit disconnect batch: %w", err)
	}

	bi.logger.Debug("Disconnected block", "hash", block.Hash, "height", block.Height)

	return nil
}

// AddLabel attaches a label to a script id. Labels are independent of the
// block lifecycle.
func (bi *BlockIndexer) AddLabel(scriptID ScriptID, label []byte) error {
	return bi.db.OpenTx().Put(LabelIndex, LabelKey(scriptID, label), []byte{}).Execute()
}

// connectBlockTxs builds and commits the primary batch, returning the event
// queue in emission order: spent/script/transaction per transaction in
// block order, then the block event.
func (bi *BlockIndexer) connectBlockTxs(block *Block) ([]Event, error) {
	dbTx := bi.db.OpenTx()
	events := make([]Event, 0, len(block.Txs)+1)

	for _, tx := range block.Txs {
		for vin, inp := range tx.Inputs {
			if inp.Coinbase {
				continue
			}

			spendValue, err := MarshalValue(SpendRecord{TxHash: tx.Hash, Vin: uint32(vin)}) //nolint:gosec
			if err != nil {
				return nil, err
			}

			outpoint := inp.Ref()
			dbTx.Put(SpentIndex, TxoKey(outpoint), spendValue)
			events = append(events, Event{Kind: EventSpent, Outpoint: &outpoint, TxHash: tx.Hash})
		}

		for _, out := range tx.Outputs {
			txoValue, err := MarshalValue(TxoRecord{Amount: out.Amount, Script: out.Script})
			if err != nil {
				return nil, err
			}

			dbTx.Put(ScriptIndex, ScriptTxoKey(ScriptTxo{
				ScriptID: out.ScriptID,
				Height:   block.Height,
				TxHash:   tx.Hash,
				Index:    out.Index,
			}), []byte{})
			dbTx.Put(TxoIndex, TxoKey(TxoRef{TxHash: tx.Hash, Index: out.Index}), txoValue)
			events = append(events, Event{Kind: EventScript, ScriptID: out.ScriptID, TxHash: tx.Hash, TxRaw: tx.Raw})
		}

		txValue, err := MarshalValue(TxRecord{Height: block.Height})
		if err != nil {
			return nil, err
		}

		dbTx.Put(TxIndex, TxKey(tx.Hash), txValue)
		events = append(events, Event{
			Kind: EventTransaction, TxHash: tx.Hash, TxRaw: tx.Raw, BlockHash: block.Hash,
		})
	}

	events = append(events, Event{Kind: EventBlock, BlockHash: block.Hash, Height: block.Height})

	tipValue, err := MarshalValue(Tip{BlockHash: block.Hash, Height: block.Height})
	if err != nil {
		return nil, err
	}

	dbTx.Put(TipIndex, TipKey(), tipValue)

	if err := dbTx.Execute(); err != nil {
		return nil, fmt.Errorf("could not commit connect batch: %w", err)
	}

	return events, nil
}

// applyFeeSummary is the second-order pass: it resolves every input's value
// from the txo index, derives the per-transaction fee rates and commits the
// box summary for the block's height. A failure here leaves the primary
// batch committed; the follower is expected to halt.
func (bi *BlockIndexer) applyFeeSummary(block *Block) error {
	feeRates := make([]int64, len(block.Txs))

	err := infracommon.ProcessParallel(
		context.Background(), bi.config.FeeWorkerCount, block.Txs,
		func(_ context.Context, i int, tx *Tx) error {
			rate, err := bi.feeRate(tx)
			if err != nil {
				return err
			}

			feeRates[i] = rate

			return nil
		})
	if err != nil {
		return fmt.Errorf("fee pass failed: %w", err)
	}

	sort.Slice(feeRates, func(i, j int) bool { return feeRates[i] < feeRates[j] })

	q1, median, q3 := boxSummary(feeRates)

	feeValue, err := MarshalValue(FeeRecord{
		Fees: FeeBox{Q1: q1, Median: median, Q3: q3},
		Size: block.Size,
	})
	if err != nil {
		return err
	}

	if err := bi.db.OpenTx().Put(FeeIndex, FeeKey(block.Height), feeValue).Execute(); err != nil {
		return fmt.Errorf("could not commit fee batch: %w", err)
	}

	return nil
}

// feeRate computes floor(fee / vsize) for one transaction. Coinbase
// transactions contribute zero.
func (bi *BlockIndexer) feeRate(tx *Tx) (int64, error) {
	if tx.IsCoinbase() {
		return 0, nil
	}

	var inAccum, outAccum uint64

	for _, inp := range tx.Inputs {
		if inp.Coinbase {
			continue
		}

		data, err := bi.db.Get(TxoIndex, TxoKey(inp.Ref()))
		if err != nil {
			return 0, err
		}

		if data == nil {
			// the index no longer agrees with the chain
			return 0, errors.Join(ErrIndexerFatal,
				fmt.Errorf("%w: outpoint %s consumed by %s", ErrMissingTxo, inp.Ref(), tx.Hash))
		}

		var txo TxoRecord
		if err := UnmarshalValue(data, &txo); err != nil {
			return 0, err
		}

		inAccum += txo.Amount
	}

	for _, out := range tx.Outputs {
		outAccum += out.Amount
	}

	fee := int64(inAccum) - int64(outAccum) //nolint:gosec
	if tx.VSize == 0 {
		return 0, nil
	}

	return fee / int64(tx.VSize), nil //nolint:gosec
}
