package producer

import (
	"context"

	"go.uber.org/zap"

	"github.com/aerospike-community/asreader/app/api"
	"github.com/aerospike-community/asreader/app/reader/datasource"
	"github.com/aerospike-community/asreader/app/reader/paging"
)

// Producer reads records from one remote node in the background
// and pushes them into a transfer channel.
type Producer interface {
	// Start launches the background task and returns immediately.
	// Only the first call has an effect.
	Start(ctx context.Context)
	// Join waits until the background task has released its connection and exited.
	Join(ctx context.Context) error
	State() *paging.ReaderState
	Channel() paging.TransferChannel
	Split() *api.TSplit
}

type emitFunc func(key *api.Key, record *api.Record) error

// variant is the operation specific part of a producer.
type variant interface {
	// read must call markRunning once the remote side accepted the operation
	// and emit for every record received
	read(
		ctx context.Context,
		logger *zap.Logger,
		conn datasource.Connection,
		markRunning func(),
		emit emitFunc,
	) error
}
