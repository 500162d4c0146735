package paging

import (
	"context"
	"fmt"

	"github.com/aerospike-community/asreader/app/api"
)

var ErrChannelClosed = fmt.Errorf("transfer channel is closed")

// DataUnit is a single record relayed from the producer to the reader.
type DataUnit struct {
	Key    api.Key
	Record api.Record
}

func NewDataUnit(key *api.Key, record *api.Record) DataUnit {
	var du DataUnit

	du.Key.Set(key)
	du.Record.Set(record)

	return du
}

// TransferChannel is a bounded FIFO between exactly one producer and one consumer.
type TransferChannel interface {
	// Put blocks while the channel is full.
	Put(ctx context.Context, unit DataUnit) error
	// Take blocks while the channel is empty.
	// It returns ErrChannelClosed once the channel is closed and drained.
	Take(ctx context.Context) (DataUnit, error)
	// TryTake never blocks.
	TryTake() (DataUnit, bool, error)
	// Close notifies the consumer that no more units will be put.
	// Only the producer may call it.
	Close()
	// Size is an approximate observation, never use it for correctness
	Size() int
	Capacity() int
}
