package datasource

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/aerospike-community/asreader/app/api"
)

// ScanCallback receives every record of a scan. Returning an error aborts the scan.
type ScanCallback func(key *api.Key, record *api.Record) error

// Statement describes a secondary index query.
type Statement struct {
	Namespace string
	Set       string
	// Restricts the query to a single node when not empty
	Node   string
	Filter *api.TRangeFilter
	// Bins to fetch, all bins when empty
	Bins []string
}

// Cursor iterates over query results the same way sql.Rows does.
type Cursor interface {
	io.Closer
	Next(ctx context.Context) bool
	Record() (*api.Key, *api.Record)
	Err() error
}

type Node struct {
	Name     string
	Endpoint *api.TEndpoint
}

type Connection interface {
	io.Closer
	// ScanNode runs a full scan of namespace/set restricted to a single node.
	// It returns when every record was passed to callback or the scan failed.
	ScanNode(ctx context.Context, node, namespace, set string, callback ScanCallback) error
	// Query starts a query, records are read from the returned cursor.
	Query(ctx context.Context, stmt *Statement) (Cursor, error)
	// ListNodes returns the nodes of the cluster the connection is attached to.
	ListNodes(ctx context.Context) ([]Node, error)
}

type ConnectionManager interface {
	Make(ctx context.Context, logger *zap.Logger, endpoint *api.TEndpoint) (Connection, error)
	Release(logger *zap.Logger, conn Connection)
}
