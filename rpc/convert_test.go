package rpc

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/Ethernal-Tech/utxo-indexer/indexer"
	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/require"
)

func TestBtcToSatoshis(t *testing.T) {
	t.Parallel()

	amount, err := BtcToSatoshis(0)
	require.NoError(t, err)
	require.Equal(t, uint64(0), amount)

	amount, err = BtcToSatoshis(50)
	require.NoError(t, err)
	require.Equal(t, uint64(5_000_000_000), amount)

	amount, err = BtcToSatoshis(0.00000001)
	require.NoError(t, err)
	require.Equal(t, uint64(1), amount)

	_, err = BtcToSatoshis(-1)
	require.Error(t, err)
}

func TestBlockFromVerbose(t *testing.T) {
	t.Parallel()

	blockHashStr := strings.Repeat("1", 64)
	prevHashStr := strings.Repeat("2", 64)
	nextHashStr := strings.Repeat("3", 64)
	coinbaseTxID := strings.Repeat("4", 64)
	spendTxID := strings.Repeat("5", 64)

	src := &btcjson.GetBlockVerboseTxResult{
		Hash:         blockHashStr,
		Height:       100,
		Size:         1234,
		PreviousHash: prevHashStr,
		NextHash:     nextHashStr,
		Tx: []btcjson.TxRawResult{
			{
				Txid:  coinbaseTxID,
				Hex:   "cafe",
				Vsize: 120,
				Vin: []btcjson.Vin{
					{Coinbase: "0401"},
				},
				Vout: []btcjson.Vout{
					{
						Value: 50,
						N:     0,
						ScriptPubKey: btcjson.ScriptPubKeyResult{
							Hex: "51",
						},
					},
				},
			},
			{
				Txid:  spendTxID,
				Hex:   "beef",
				Vsize: 250,
				Vin: []btcjson.Vin{
					{Txid: coinbaseTxID, Vout: 0},
				},
				Vout: []btcjson.Vout{
					{
						Value: 49.9999,
						N:     0,
						ScriptPubKey: btcjson.ScriptPubKeyResult{
							Hex: "52",
						},
					},
				},
			},
		},
	}

	block, err := BlockFromVerbose(src)
	require.NoError(t, err)

	expectedHash, err := chainhash.NewHashFromStr(blockHashStr)
	require.NoError(t, err)
	require.Equal(t, *expectedHash, block.Hash)
	require.Equal(t, uint32(100), block.Height)
	require.Equal(t, uint64(1234), block.Size)

	expectedPrev, err := chainhash.NewHashFromStr(prevHashStr)
	require.NoError(t, err)
	require.Equal(t, *expectedPrev, block.PreviousHash)
	require.NotNil(t, block.NextHash)

	require.Len(t, block.Txs, 2)

	coinbase := block.Txs[0]
	require.True(t, coinbase.IsCoinbase())
	require.Equal(t, []byte{0xca, 0xfe}, coinbase.Raw)
	require.Equal(t, uint64(120), coinbase.VSize)
	require.Len(t, coinbase.Outputs, 1)
	require.Equal(t, uint64(5_000_000_000), coinbase.Outputs[0].Amount)

	script, err := hex.DecodeString("51")
	require.NoError(t, err)
	require.Equal(t, script, coinbase.Outputs[0].Script)
	require.Equal(t, indexer.NewScriptID(script), coinbase.Outputs[0].ScriptID)

	spend := block.Txs[1]
	require.False(t, spend.IsCoinbase())

	expectedPrevTx, err := chainhash.NewHashFromStr(coinbaseTxID)
	require.NoError(t, err)
	require.Equal(t, *expectedPrevTx, spend.Inputs[0].TxHash)
	require.Equal(t, uint32(0), spend.Inputs[0].Index)
	require.Equal(t, uint64(4_999_990_000), spend.Outputs[0].Amount)
}

func TestBlockFromVerbose_GenesisAndTip(t *testing.T) {
	t.Parallel()

	src := &btcjson.GetBlockVerboseTxResult{
		Hash:   strings.Repeat("1", 64),
		Height: 0,
		Size:   285,
	}

	block, err := BlockFromVerbose(src)
	require.NoError(t, err)
	require.Equal(t, chainhash.Hash{}, block.PreviousHash)
	require.Nil(t, block.NextHash)
	require.Empty(t, block.Txs)
}

func TestBlockFromVerbose_Invalid(t *testing.T) {
	t.Parallel()

	_, err := BlockFromVerbose(&btcjson.GetBlockVerboseTxResult{Hash: "zz"})
	require.Error(t, err)

	_, err = BlockFromVerbose(&btcjson.GetBlockVerboseTxResult{
		Hash:   strings.Repeat("1", 64),
		Height: -1,
	})
	require.Error(t, err)
}
