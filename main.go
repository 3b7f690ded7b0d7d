package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/Ethernal-Tech/utxo-indexer/common"
	"github.com/Ethernal-Tech/utxo-indexer/indexer"
	"github.com/Ethernal-Tech/utxo-indexer/indexer/db"
	"github.com/Ethernal-Tech/utxo-indexer/logger"
	"github.com/Ethernal-Tech/utxo-indexer/rpc"
	secretshelper "github.com/Ethernal-Tech/utxo-indexer/secrets/helper"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/hashicorp/go-hclog"
)

func startIndexer(ctx context.Context, baseDirectory string) error {
	lg, err := logger.NewLogger(logger.LoggerConfig{
		LogLevel:            hclog.Debug,
		JSONLogFormat:       false,
		RotatingLogsEnabled: true,
		LogFilePath:         filepath.Join(baseDirectory, "logs", "indexer.log"),
		Name:                "utxo-indexer",
	})
	if err != nil {
		return err
	}

	dbs, err := db.NewDatabaseInit("", filepath.Join(baseDirectory, "indexer.db"))
	if err != nil {
		return err
	}

	defer dbs.Close()

	secretsManager, err := secretshelper.SetupLocalSecretsManager(filepath.Join(baseDirectory, "secrets"))
	if err != nil {
		return err
	}

	rpcUser, rpcPass, err := secretshelper.GetRPCCredentials(secretsManager)
	if err != nil {
		return err
	}

	rpcClient, err := rpc.NewClient(&rpc.Config{
		Host:       "localhost:8332",
		User:       rpcUser,
		Pass:       rpcPass,
		DisableTLS: true,
	}, lg.Named("rpc"))
	if err != nil {
		return err
	}

	defer rpcClient.Close()

	hub := indexer.NewEventHub(16, lg.Named("event_hub"))
	hub.Subscribe(indexer.EventBlock, func(event indexer.Event) {
		lg.Info("Block indexed", "hash", event.BlockHash, "height", event.Height)
	})
	hub.Start()

	defer hub.Close()

	indexerObj := indexer.NewBlockIndexer(
		&indexer.BlockIndexerConfig{}, dbs, rpcClient, hub, lg.Named("block_indexer"))
	queries := indexer.NewQueryService(dbs, rpcClient)

	runner := indexer.NewChainSyncRunner(indexerObj, &indexer.ChainSyncRunnerConfig{
		QueueChannelSize: 64,
		RetryDelay:       time.Second * 2,
	}, lg.Named("chain_sync_runner"))
	runner.Start()

	defer runner.Close()

	// resume after the last applied block, or from genesis
	nextHeight := uint32(0)

	if tip, err := queries.Tip(); err != nil {
		return err
	} else if tip != nil {
		nextHeight = tip.Height + 1
	}

	go func() {
		for {
			// the block at nextHeight may not exist yet; keep polling the node
			blockHash, err := common.ExecuteWithRetry(ctx,
				func(_ context.Context) (*chainhash.Hash, error) {
					return rpcClient.BlockHashAtHeight(nextHeight)
				},
				common.WithRetryWaitTime(time.Second*10),
				common.WithIsRetryableError(func(error) bool { return true }),
				common.WithLogger(lg.Named("retry")))
			if err != nil {
				if common.IsContextDoneErr(err) {
					return
				}

				continue
			}

			runner.Connect(*blockHash, nextHeight)
			nextHeight++
		}
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-runner.ErrorCh():
		lg.Error("runner fatal err", "err", err)

		return err
	}
}

func main() {
	baseDirectory, err := os.MkdirTemp("", "utxo-indexer")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	defer os.RemoveAll(baseDirectory)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signalChannel := make(chan os.Signal, 1)
	// Notify the signalChannel when the interrupt signal is received (Ctrl+C)
	signal.Notify(signalChannel, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-signalChannel
		cancel()
	}()

	if err := startIndexer(ctx, baseDirectory); err != nil {
		fmt.Println("indexer error", err)
		os.Exit(1)
	}
}
