package indexer

import (
	"sync"
	"sync/atomic"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/hashicorp/go-hclog"
)

type EventKind int

const (
	EventSpent EventKind = iota
	EventScript
	EventTransaction
	EventBlock
)

func (k EventKind) String() string {
	switch k {
	case EventSpent:
		return "spent"
	case EventScript:
		return "script"
	case EventTransaction:
		return "transaction"
	case EventBlock:
		return "block"
	default:
		return "unknown"
	}
}

// Event is one semantic notification queued during connect. Which fields
// are set depends on Kind:
//
//	spent:       Outpoint (consumed), TxHash (spender)
//	script:      ScriptID, TxHash, TxRaw
//	transaction: TxHash, TxRaw, BlockHash
//	block:       BlockHash, Height
type Event struct {
	Kind      EventKind
	BlockHash chainhash.Hash
	Height    uint32
	TxHash    chainhash.Hash
	TxRaw     []byte
	ScriptID  ScriptID
	Outpoint  *TxoRef
}

type EventHandler func(event Event)

// EventHub is the single-publisher, multi-subscriber sink for semantic
// events. Batches are drained by a dedicated goroutine in publish order. A
// batch is published only after the block's batches have committed, so
// subscribers never observe a partially committed block; dispatch may begin
// before the connect call that published the batch has returned.
type EventHub struct {
	mutex       sync.RWMutex
	subscribers map[EventKind][]EventHandler

	queueCh   chan []Event
	closeCh   chan struct{}
	doneCh    chan struct{}
	isClosed  uint32
	isStarted uint32

	logger hclog.Logger
}

var _ EventSink = (*EventHub)(nil)
var _ Service = (*EventHub)(nil)

func NewEventHub(queueSize int, logger hclog.Logger) *EventHub {
	return &EventHub{
		subscribers: map[EventKind][]EventHandler{},
		queueCh:     make(chan []Event, queueSize),
		closeCh:     make(chan struct{}),
		doneCh:      make(chan struct{}),
		logger:      logger,
	}
}

// Subscribe registers a handler for one event kind. Handlers must not call
// back into the indexer write path.
func (eh *EventHub) Subscribe(kind EventKind, handler EventHandler) {
	eh.mutex.Lock()
	defer eh.mutex.Unlock()

	eh.subscribers[kind] = append(eh.subscribers[kind], handler)
}

// Publish hands over one block's event batch in insertion order. After the
// hub is closed the batch is dropped.
func (eh *EventHub) Publish(events []Event) {
	if len(events) == 0 {
		return
	}

	select {
	case eh.queueCh <- events:
	case <-eh.closeCh:
	}
}

func (eh *EventHub) Start() {
	if !atomic.CompareAndSwapUint32(&eh.isStarted, 0, 1) {
		return
	}

	go func() {
		defer close(eh.doneCh)

		eh.logger.Info("Event hub has been started")

		for {
			select {
			case <-eh.closeCh:
				return
			case events := <-eh.queueCh:
				for _, event := range events {
					eh.dispatch(event)
				}
			}
		}
	}()
}

func (eh *EventHub) Close() error {
	if atomic.CompareAndSwapUint32(&eh.isClosed, 0, 1) {
		eh.logger.Info("Closing event hub")

		close(eh.closeCh)

		if atomic.LoadUint32(&eh.isStarted) == 1 {
			<-eh.doneCh
		}
	}

	return nil
}

func (eh *EventHub) dispatch(event Event) {
	eh.mutex.RLock()
	handlers := eh.subscribers[event.Kind]
	eh.mutex.RUnlock()

	for _, handler := range handlers {
		handler(event)
	}
}
