// Package rpc implements the chain node collaborator over the bitcoind
// JSON-RPC surface.
package rpc

import (
	"fmt"

	"github.com/Ethernal-Tech/utxo-indexer/indexer"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/rpcclient"
	"github.com/hashicorp/go-hclog"
)

type Config struct {
	Host       string `json:"host"`
	User       string `json:"user"`
	Pass       string `json:"pass"`
	DisableTLS bool   `json:"disableTls"`
}

// Client adapts the node RPC to the block model the indexer consumes.
type Client struct {
	client *rpcclient.Client
	logger hclog.Logger
}

var _ indexer.ChainRPC = (*Client)(nil)

func NewClient(config *Config, logger hclog.Logger) (*Client, error) {
	client, err := rpcclient.New(&rpcclient.ConnConfig{
		Host:         config.Host,
		User:         config.User,
		Pass:         config.Pass,
		HTTPPostMode: true,
		DisableTLS:   config.DisableTLS,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("could not create rpc client: %w", err)
	}

	return &Client{
		client: client,
		logger: logger,
	}, nil
}

// Block fetches a block body with full transactions and converts it into
// the indexer model.
func (c *Client) Block(blockHash chainhash.Hash) (*indexer.Block, error) {
	result, err := c.client.GetBlockVerboseTx(&blockHash)
	if err != nil {
		return nil, fmt.Errorf("could not fetch block %s: %w", blockHash, err)
	}

	block, err := BlockFromVerbose(result)
	if err != nil {
		return nil, err
	}

	return block, nil
}

// BlockHashAtHeight maps a height to the hash of the block at that height
// on the node's active chain.
func (c *Client) BlockHashAtHeight(height uint32) (*chainhash.Hash, error) {
	hash, err := c.client.GetBlockHash(int64(height))
	if err != nil {
		return nil, fmt.Errorf("could not fetch block hash at height %d: %w", height, err)
	}

	return hash, nil
}

func (c *Client) Close() error {
	c.client.Shutdown()

	return nil
}
