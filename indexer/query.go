package indexer

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

const defaultTxosLimit = 10_000

// PageRange is the (offset, end) slicing convention of the script txo
// walks: entries with ordinal in [Offset, End) are returned. The first
// Offset entries are walked and discarded, an O(offset) operation.
type PageRange struct {
	Offset int
	End    int
}

// LimitRange is the single-limit form of PageRange.
func LimitRange(limit int) PageRange {
	return PageRange{Offset: 0, End: limit}
}

// Position reports how far a script txo walk got, enabling paged
// continuation: Height is the maximum height seen, Offset the number of
// entries walked.
type Position struct {
	Height uint32 `json:"height"`
	Offset int    `json:"offset"`
}

// QueryService is the read surface over the indexes. All methods observe a
// consistent store snapshot per call and may run concurrently with the
// writer.
type QueryService struct {
	db  Database
	rpc ChainRPC
}

func NewQueryService(db Database, rpc ChainRPC) *QueryService {
	return &QueryService{db: db, rpc: rpc}
}

// Tip returns the most recently applied block, nil when nothing has been
// connected yet.
func (qs *QueryService) Tip() (*Tip, error) {
	data, err := qs.db.Get(TipIndex, TipKey())
	if err != nil || data == nil {
		return nil, err
	}

	tip := &Tip{}
	if err := UnmarshalValue(data, tip); err != nil {
		return nil, err
	}

	return tip, nil
}

// TipHeight returns the height of the tip, nil when there is no tip.
func (qs *QueryService) TipHeight() (*uint32, error) {
	tip, err := qs.Tip()
	if err != nil || tip == nil {
		return nil, err
	}

	return &tip.Height, nil
}

// BlockHeightByTxHash resolves the height of the block containing a
// transaction, nil when the transaction is unknown.
func (qs *QueryService) BlockHeightByTxHash(txHash chainhash.Hash) (*uint32, error) {
	data, err := qs.db.Get(TxIndex, TxKey(txHash))
	if err != nil || data == nil {
		return nil, err
	}

	record := &TxRecord{}
	if err := UnmarshalValue(data, record); err != nil {
		return nil, err
	}

	return &record.Height, nil
}

// BlockHashByTxHash resolves the hash of the block containing a
// transaction via the height index and the rpc height mapping.
func (qs *QueryService) BlockHashByTxHash(txHash chainhash.Hash) (*chainhash.Hash, error) {
	height, err := qs.BlockHeightByTxHash(txHash)
	if err != nil || height == nil {
		return nil, err
	}

	blockHash, err := qs.rpc.BlockHashAtHeight(*height)
	if err != nil {
		return nil, fmt.Errorf("could not resolve block hash at height %d: %w", *height, err)
	}

	return blockHash, nil
}

// Txo returns the output stored under an outpoint, nil when absent.
func (qs *QueryService) Txo(ref TxoRef) (*TxoRecord, error) {
	data, err := qs.db.Get(TxoIndex, TxoKey(ref))
	if err != nil || data == nil {
		return nil, err
	}

	record := &TxoRecord{}
	if err := UnmarshalValue(data, record); err != nil {
		return nil, err
	}

	return record, nil
}

// SpentFrom returns the spend record for an outpoint, nil when the
// outpoint is unspent or unknown.
func (qs *QueryService) SpentFrom(ref TxoRef) (*SpendRecord, error) {
	data, err := qs.db.Get(SpentIndex, TxoKey(ref))
	if err != nil || data == nil {
		return nil, err
	}

	record := &SpendRecord{}
	if err := UnmarshalValue(data, record); err != nil {
		return nil, err
	}

	return record, nil
}

// SeenScriptID reports whether any output ever committed to the script id.
func (qs *QueryService) SeenScriptID(scriptID ScriptID) (bool, error) {
	seen := false

	err := qs.db.Iterate(ScriptIndex, IterRange{
		Gte:   ScriptRangeFrom(scriptID, 0),
		Lt:    ScriptRangeUpperBound(scriptID),
		Limit: 1,
	}, func(key []byte, value []byte) bool {
		seen = true

		return false
	})

	return seen, err
}

// TxosByScriptID returns the outputs committing to a script id from
// fromHeight on, keyed "txid:vout" and deduplicated by outpoint. A
// non-positive limit applies the default of 10000 entries.
func (qs *QueryService) TxosByScriptID(
	scriptID ScriptID, fromHeight uint32, limit int,
) (map[string]ScriptTxo, error) {
	if limit <= 0 {
		limit = defaultTxosLimit
	}

	var err error

	result := make(map[string]ScriptTxo)

	iterErr := qs.db.Iterate(ScriptIndex, IterRange{
		Gte:   ScriptRangeFrom(scriptID, fromHeight),
		Lt:    ScriptRangeUpperBound(scriptID),
		Limit: limit,
	}, func(key []byte, value []byte) bool {
		txo, decodeErr := DecodeScriptTxoKey(key)
		if decodeErr != nil {
			err = decodeErr

			return false
		}

		result[txo.Ref().String()] = txo

		return true
	})

	if err == nil {
		err = iterErr
	}

	if err != nil {
		return nil, err
	}

	return result, nil
}

// TransactionsByScriptID returns the set of transactions that produced to
// or spent from a script id inside the height window: producing tx hashes
// joined with the spenders found through the spent index. The returned
// position allows paged continuation.
func (qs *QueryService) TransactionsByScriptID(
	scriptID ScriptID, fromHeight uint32, rng PageRange,
) (map[chainhash.Hash]struct{}, Position, error) {
	txos, position, err := qs.txosListByScriptID(scriptID, fromHeight, rng)
	if err != nil {
		return nil, Position{}, err
	}

	result := make(map[chainhash.Hash]struct{}, len(txos))

	for _, txo := range txos {
		result[txo.TxHash] = struct{}{}

		spend, err := qs.SpentFrom(txo.Ref())
		if err != nil {
			return nil, Position{}, err
		}

		if spend != nil {
			result[spend.TxHash] = struct{}{}
		}
	}

	return result, position, nil
}

// txosListByScriptID walks ScriptIndex entries for one script id inside the
// height window, honoring the (offset, end) slicing convention. The first
// rng.Offset entries are walked and discarded.
func (qs *QueryService) txosListByScriptID(
	scriptID ScriptID, fromHeight uint32, rng PageRange,
) ([]ScriptTxo, Position, error) {
	var (
		result   []ScriptTxo
		position Position
		err      error
	)

	iterErr := qs.db.Iterate(ScriptIndex, IterRange{
		Gte: ScriptRangeFrom(scriptID, fromHeight),
		Lt:  ScriptRangeUpperBound(scriptID),
	}, func(key []byte, value []byte) bool {
		txo, decodeErr := DecodeScriptTxoKey(key)
		if decodeErr != nil {
			err = decodeErr

			return false
		}

		if position.Offset >= rng.Offset {
			result = append(result, txo)
		}

		position.Offset++

		if txo.Height > position.Height {
			position.Height = txo.Height
		}

		return rng.End <= 0 || position.Offset < rng.End
	})

	if err == nil {
		err = iterErr
	}

	if err != nil {
		return nil, Position{}, err
	}

	return result, position, nil
}

// Fees returns the fee summaries of the n most recent blocks, oldest
// first. An empty store yields an empty slice.
func (qs *QueryService) Fees(n int) ([]FeeEntry, error) {
	if n <= 0 {
		return nil, nil
	}

	tipHeight, err := qs.TipHeight()
	if err != nil || tipHeight == nil {
		return nil, err
	}

	fromHeight := uint32(0)
	if *tipHeight >= uint32(n-1) { //nolint:gosec
		fromHeight = *tipHeight - uint32(n-1) //nolint:gosec
	}

	var result []FeeEntry

	iterErr := qs.db.Iterate(FeeIndex, IterRange{
		Gte:   FeeKey(fromHeight),
		Limit: n,
	}, func(key []byte, value []byte) bool {
		height, decodeErr := DecodeFeeKey(key)
		if decodeErr != nil {
			err = decodeErr

			return false
		}

		record := FeeRecord{}
		if decodeErr := UnmarshalValue(value, &record); decodeErr != nil {
			err = decodeErr

			return false
		}

		result = append(result, FeeEntry{Height: height, Fees: record.Fees, Size: record.Size})

		return true
	})

	if err == nil {
		err = iterErr
	}

	if err != nil {
		return nil, err
	}

	return result, nil
}

// LabelsByScriptID returns every label attached to a script id.
func (qs *QueryService) LabelsByScriptID(scriptID ScriptID) ([][]byte, error) {
	var (
		result [][]byte
		err    error
	)

	iterErr := qs.db.Iterate(LabelIndex, IterRange{
		Gte: LabelKey(scriptID, nil),
		Lt:  LabelRangeUpperBound(scriptID),
	}, func(key []byte, value []byte) bool {
		_, label, decodeErr := DecodeLabelKey(key)
		if decodeErr != nil {
			err = decodeErr

			return false
		}

		result = append(result, append([]byte(nil), label...))

		return true
	})

	if err == nil {
		err = iterErr
	}

	if err != nil {
		return nil, err
	}

	return result, nil
}
