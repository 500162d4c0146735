package datasource

import (
	"context"
	"fmt"
	"time"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/aerospike-community/asreader/app/api"
)

var _ ConnectionManager = (*ConnectionManagerMock)(nil)

type ConnectionManagerMock struct {
	mock.Mock
}

func (m *ConnectionManagerMock) Make(
	ctx context.Context,
	logger *zap.Logger,
	endpoint *api.TEndpoint,
) (Connection, error) {
	args := m.Called(endpoint)

	conn, _ := args.Get(0).(Connection)

	return conn, args.Error(1)
}

func (m *ConnectionManagerMock) Release(logger *zap.Logger, conn Connection) {
	m.Called(conn)
}

var _ Connection = (*ConnectionMock)(nil)

// ConnectionMock replays PredefinedData to scan callbacks.
type ConnectionMock struct {
	mock.Mock
	PredefinedData []Result
	// ScanErr is returned after all of PredefinedData was delivered
	ScanErr error
	// Delay is applied before every delivered record
	Delay time.Duration
}

// Result is a single record returned by the remote side.
type Result struct {
	Key    *api.Key
	Record *api.Record
}

func (m *ConnectionMock) ScanNode(
	ctx context.Context,
	node, namespace, set string,
	callback ScanCallback,
) error {
	args := m.Called(node, namespace, set)
	if err := args.Error(0); err != nil {
		return err
	}

	for _, res := range m.PredefinedData {
		if m.Delay > 0 {
			select {
			case <-time.After(m.Delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := callback(res.Key, res.Record); err != nil {
			return err
		}
	}

	return m.ScanErr
}

func (m *ConnectionMock) Query(ctx context.Context, stmt *Statement) (Cursor, error) {
	args := m.Called(stmt)

	cursor, _ := args.Get(0).(Cursor)

	return cursor, args.Error(1)
}

func (m *ConnectionMock) ListNodes(ctx context.Context) ([]Node, error) {
	args := m.Called()

	nodes, _ := args.Get(0).([]Node)

	return nodes, args.Error(1)
}

func (m *ConnectionMock) Close() error {
	return m.Called().Error(0)
}

var _ Cursor = (*CursorMock)(nil)

// CursorMock iterates over PredefinedData and then reports IterErr.
type CursorMock struct {
	mock.Mock
	PredefinedData []Result
	IterErr        error
	pos            int
}

func (m *CursorMock) Next(ctx context.Context) bool {
	if m.pos >= len(m.PredefinedData) || ctx.Err() != nil {
		return false
	}

	m.pos++

	return true
}

func (m *CursorMock) Record() (*api.Key, *api.Record) {
	res := m.PredefinedData[m.pos-1]

	return res.Key, res.Record
}

func (m *CursorMock) Err() error {
	return m.IterErr
}

func (m *CursorMock) Close() error {
	return m.Called().Error(0)
}

// MakeTestResults generates n distinct records with a monotonically growing bin value.
func MakeTestResults(n int) []Result {
	out := make([]Result, 0, n)

	for i := 0; i < n; i++ {
		out = append(out, Result{
			Key: &api.Key{
				Namespace: "test",
				SetName:   "demo",
				Digest:    []byte{byte(i >> 8), byte(i), 0xAB, 0xCD},
				UserKey:   int64(i),
			},
			Record: &api.Record{
				Bins:       map[string]any{"value": int64(i), "name": fmt.Sprintf("record_%d", i)},
				Generation: uint32(i%7 + 1),
				Expiration: uint32(3600 + i),
			},
		})
	}

	return out
}
