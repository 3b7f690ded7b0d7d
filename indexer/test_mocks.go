package indexer

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/mock"
)

type ChainRPCMock struct {
	mock.Mock
	BlockFn             func(blockHash chainhash.Hash) (*Block, error)
	BlockHashAtHeightFn func(height uint32) (*chainhash.Hash, error)
}

// Block implements ChainRPC.
func (m *ChainRPCMock) Block(blockHash chainhash.Hash) (*Block, error) {
	args := m.Called(blockHash)

	if m.BlockFn != nil {
		return m.BlockFn(blockHash)
	}

	return args.Get(0).(*Block), args.Error(1) //nolint:forcetypeassert
}

// BlockHashAtHeight implements ChainRPC.
func (m *ChainRPCMock) BlockHashAtHeight(height uint32) (*chainhash.Hash, error) {
	args := m.Called(height)

	if m.BlockHashAtHeightFn != nil {
		return m.BlockHashAtHeightFn(height)
	}

	return args.Get(0).(*chainhash.Hash), args.Error(1) //nolint:forcetypeassert
}

var _ ChainRPC = (*ChainRPCMock)(nil)

type DatabaseMock struct {
	mock.Mock
	Writer    *DBTransactionWriterMock
	GetFn     func(index Index, key []byte) ([]byte, error)
	IterateFn func(index Index, rng IterRange, handler func(key []byte, value []byte) bool) error
	InitFn    func(filePath string) error
}

// Init implements Database.
func (m *DatabaseMock) Init(filePath string) error {
	args := m.Called(filePath)

	if m.InitFn != nil {
		return m.InitFn(filePath)
	}

	return args.Error(0)
}

// Close implements Database.
func (m *DatabaseMock) Close() error {
	return m.Called().Error(0)
}

// Get implements Database.
func (m *DatabaseMock) Get(index Index, key []byte) ([]byte, error) {
	args := m.Called(index, key)

	if m.GetFn != nil {
		return m.GetFn(index, key)
	}

	return args.Get(0).([]byte), args.Error(1) //nolint:forcetypeassert
}

// Iterate implements Database.
func (m *DatabaseMock) Iterate(
	index Index, rng IterRange, handler func(key []byte, value []byte) bool,
) error {
	args := m.Called(index, rng, handler)

	if m.IterateFn != nil {
		return m.IterateFn(index, rng, handler)
	}

	return args.Error(0)
}

// OpenTx implements Database.
func (m *DatabaseMock) OpenTx() DBTransactionWriter {
	args := m.Called()

	if m.Writer != nil {
		return m.Writer
	}

	return args.Get(0).(DBTransactionWriter) //nolint:forcetypeassert
}

var _ Database = (*DatabaseMock)(nil)

type DBTransactionWriterMock struct {
	mock.Mock
	PutFn     func(index Index, key []byte, value []byte) DBTransactionWriter
	DeleteFn  func(index Index, key []byte) DBTransactionWriter
	ExecuteFn func() error
}

// Put implements DBTransactionWriter.
func (m *DBTransactionWriterMock) Put(index Index, key []byte, value []byte) DBTransactionWriter {
	m.Called(index, key, value)

	if m.PutFn != nil {
		return m.PutFn(index, key, value)
	}

	return m
}

// Delete implements DBTransactionWriter.
func (m *DBTransactionWriterMock) Delete(index Index, key []byte) DBTransactionWriter {
	m.Called(index, key)

	if m.DeleteFn != nil {
		return m.DeleteFn(index, key)
	}

	return m
}

// Execute implements DBTransactionWriter.
func (m *DBTransactionWriterMock) Execute() error {
	if m.ExecuteFn != nil {
		return m.ExecuteFn()
	}

	return m.Called().Error(0)
}

var _ DBTransactionWriter = (*DBTransactionWriterMock)(nil)

type ChainSyncHandlerMock struct {
	ConnectBlockFn    func(blockHash chainhash.Hash, expectedHeight uint32) (*chainhash.Hash, error)
	DisconnectBlockFn func(blockHash chainhash.Hash) error
}

// ConnectBlock implements ChainSyncHandler.
func (m *ChainSyncHandlerMock) ConnectBlock(
	blockHash chainhash.Hash, expectedHeight uint32,
) (*chainhash.Hash, error) {
	if m.ConnectBlockFn != nil {
		return m.ConnectBlockFn(blockHash, expectedHeight)
	}

	return nil, nil
}

// DisconnectBlock implements ChainSyncHandler.
func (m *ChainSyncHandlerMock) DisconnectBlock(blockHash chainhash.Hash) error {
	if m.DisconnectBlockFn != nil {
		return m.DisconnectBlockFn(blockHash)
	}

	return nil
}

var _ ChainSyncHandler = (*ChainSyncHandlerMock)(nil)

// EventSinkMock records published batches in order.
type EventSinkMock struct {
	mock.Mock
	Batches [][]Event
}

// Publish implements EventSink.
func (m *EventSinkMock) Publish(events []Event) {
	m.Called(events)
	m.Batches = append(m.Batches, events)
}

var _ EventSink = (*EventSinkMock)(nil)
