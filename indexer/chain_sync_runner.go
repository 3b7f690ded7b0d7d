package indexer

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/hashicorp/go-hclog"
)

type chainSyncRunnerQueueItem struct {
	BlockHash  chainhash.Hash
	Height     uint32
	Disconnect bool
}

func (qi chainSyncRunnerQueueItem) String() string {
	if qi.Disconnect {
		return fmt.Sprintf("disconnect %s", qi.BlockHash)
	}

	return fmt.Sprintf("connect (%d, %s)", qi.Height, qi.BlockHash)
}

type ChainSyncRunnerConfig struct {
	QueueChannelSize int           `json:"queueChannelSize"`
	RetryDelay       time.Duration `json:"retryDelay"`
}

// ChainSyncRunner serializes connect/disconnect requests into a single
// writer loop. Each item is processed to completion before the next one;
// non-fatal failures are retried after a delay, fatal ones stop the loop
// and surface on the error channel.
type ChainSyncRunner struct {
	handler  ChainSyncHandler
	config   *ChainSyncRunnerConfig
	isClosed uint32
	errorCh  chan error
	closeCh  chan struct{}
	queueCh  chan chainSyncRunnerQueueItem
	logger   hclog.Logger
}

var _ Service = (*ChainSyncRunner)(nil)

func NewChainSyncRunner(
	handler ChainSyncHandler, config *ChainSyncRunnerConfig, logger hclog.Logger,
) *ChainSyncRunner {
	return &ChainSyncRunner{
		handler: handler,
		config:  config,
		errorCh: make(chan error, 1),
		closeCh: make(chan struct{}),
		queueCh: make(chan chainSyncRunnerQueueItem, config.QueueChannelSize),
		logger:  logger,
	}
}

func (cr *ChainSyncRunner) Close() error {
	if atomic.CompareAndSwapUint32(&cr.isClosed, 0, 1) {
		cr.logger.Info("Closing chain sync runner")

		close(cr.closeCh)
	}

	return nil
}

// Connect enqueues a connect of the block expected at height.
func (cr *ChainSyncRunner) Connect(blockHash chainhash.Hash, height uint32) {
	select {
	case cr.queueCh <- chainSyncRunnerQueueItem{BlockHash: blockHash, Height: height}:
	case <-cr.closeCh:
	}
}

// Disconnect enqueues an undo of the tip block.
func (cr *ChainSyncRunner) Disconnect(blockHash chainhash.Hash) {
	select {
	case cr.queueCh <- chainSyncRunnerQueueItem{BlockHash: blockHash, Disconnect: true}:
	case <-cr.closeCh:
	}
}

// ErrorCh delivers the fatal error that stopped the loop.
func (cr *ChainSyncRunner) ErrorCh() <-chan error {
	return cr.errorCh
}

func (cr *ChainSyncRunner) Start() {
	go func() {
		cr.logger.Info("Chain sync runner has been started")

		defer cr.logger.Info("Chain sync runner has been stopped")

		for {
			select {
			case <-cr.closeCh:
				return
			case item := <-cr.queueCh:
				if cr.execute(item) {
					return
				}
			}
		}
	}()
}

func (cr *ChainSyncRunner) execute(item chainSyncRunnerQueueItem) (breakLoop bool) {
	// each item from the queue must be processed before moving to the next
	// the loop is infinite if the item cannot be processed and the error is non-fatal
	for {
		var err error

		if item.Disconnect {
			err = cr.handler.DisconnectBlock(item.BlockHash)
		} else {
			_, err = cr.handler.ConnectBlock(item.BlockHash, item.Height)
		}

		if err == nil {
			return false // item processed successfully
		}

		cr.logger.Error("Runner failed", "item", item, "error", err)

		if errors.Is(err, ErrIndexerFatal) {
			cr.errorCh <- err // send fatal error to error channel

			return true
		}

		select {
		case <-cr.closeCh:
			return true
		case <-time.After(cr.config.RetryDelay):
		}
	}
}
