package rpc

import (
	"encoding/hex"
	"fmt"
	"math"

	"github.com/Ethernal-Tech/utxo-indexer/indexer"
	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// BtcToSatoshis converts a BTC amount into satoshis with overflow checks.
func BtcToSatoshis(value float64) (uint64, error) {
	amount, err := btcutil.NewAmount(value)
	if err != nil {
		return 0, err
	}

	if amount < 0 {
		return 0, fmt.Errorf("negative amount: %d", amount)
	}

	return uint64(amount), nil
}

// BlockFromVerbose maps a verbose block result into the indexer model.
func BlockFromVerbose(src *btcjson.GetBlockVerboseTxResult) (*indexer.Block, error) {
	hash, err := chainhash.NewHashFromStr(src.Hash)
	if err != nil {
		return nil, fmt.Errorf("block hash parse: %w", err)
	}

	if src.Height < 0 || src.Height > math.MaxUint32 {
		return nil, fmt.Errorf("block height %d out of range", src.Height)
	}

	block := &indexer.Block{
		Hash:   *hash,
		Height: uint32(src.Height),
		Size:   uint64(src.Size), //nolint:gosec
		Txs:    make([]*indexer.Tx, len(src.Tx)),
	}

	// the genesis block has no previous hash
	if src.PreviousHash != "" {
		prevHash, err := chainhash.NewHashFromStr(src.PreviousHash)
		if err != nil {
			return nil, fmt.Errorf("block %d previous hash parse: %w", src.Height, err)
		}

		block.PreviousHash = *prevHash
	}

	// the chain tip has no next hash
	if src.NextHash != "" {
		nextHash, err := chainhash.NewHashFromStr(src.NextHash)
		if err != nil {
			return nil, fmt.Errorf("block %d next hash parse: %w", src.Height, err)
		}

		block.NextHash = nextHash
	}

	for i, tx := range src.Tx {
		converted, err := txFromVerbose(tx)
		if err != nil {
			return nil, fmt.Errorf("block %d tx %s: %w", src.Height, tx.Txid, err)
		}

		block.Txs[i] = converted
	}

	return block, nil
}

func txFromVerbose(src btcjson.TxRawResult) (*indexer.Tx, error) {
	txHash, err := chainhash.NewHashFromStr(src.Txid)
	if err != nil {
		return nil, fmt.Errorf("txid parse: %w", err)
	}

	raw, err := hex.DecodeString(src.Hex)
	if err != nil {
		return nil, fmt.Errorf("raw tx decode: %w", err)
	}

	tx := &indexer.Tx{
		Hash:    *txHash,
		Raw:     raw,
		VSize:   uint64(src.Vsize), //nolint:gosec
		Inputs:  make([]*indexer.TxInput, len(src.Vin)),
		Outputs: make([]*indexer.TxOutput, len(src.Vout)),
	}

	for i, vin := range src.Vin {
		inp := &indexer.TxInput{}

		if vin.IsCoinBase() {
			inp.Coinbase = true
		} else {
			prevHash, err := chainhash.NewHashFromStr(vin.Txid)
			if err != nil {
				return nil, fmt.Errorf("input %d txid parse: %w", i, err)
			}

			inp.TxHash = *prevHash
			inp.Index = vin.Vout
		}

		tx.Inputs[i] = inp
	}

	for i, vout := range src.Vout {
		script, err := hex.DecodeString(vout.ScriptPubKey.Hex)
		if err != nil {
			return nil, fmt.Errorf("output %d script decode: %w", i, err)
		}

		amount, err := BtcToSatoshis(vout.Value)
		if err != nil {
			return nil, fmt.Errorf("output %d amount: %w", i, err)
		}

		tx.Outputs[i] = &indexer.TxOutput{
			ScriptID: indexer.NewScriptID(script),
			Script:   script,
			Amount:   amount,
			Index:    vout.N,
		}
	}

	return tx, nil
}
