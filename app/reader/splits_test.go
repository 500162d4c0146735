package reader

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aerospike-community/asreader/app/api"
	"github.com/aerospike-community/asreader/app/reader/datasource"
	"github.com/aerospike-community/asreader/app/reader/utils"
)

func TestListSplits(t *testing.T) {
	seed := &api.TEndpoint{Host: "localhost", Port: 3000}

	nodes := []datasource.Node{
		{Name: "BB9030011AC4202", Endpoint: &api.TEndpoint{Host: "10.0.0.3", Port: 3000}},
		{Name: "BB9010011AC4202", Endpoint: &api.TEndpoint{Host: "10.0.0.1", Port: 3000}},
	}

	t.Run("scan", func(t *testing.T) {
		connection := &datasource.ConnectionMock{}
		connection.On("ListNodes").Return(nodes, nil).Once()

		connectionManager := &datasource.ConnectionManagerMock{}
		connectionManager.On("Make", seed).Return(connection, nil).Once()
		connectionManager.On("Release", connection).Return().Once()

		template := &api.TSplit{Endpoint: seed, Namespace: "test", Set: "demo"}

		splits, err := listSplits(context.Background(), utils.NewTestLogger(t), connectionManager, template)
		require.NoError(t, err)
		require.Equal(t, []*api.TSplit{
			{
				Operation: api.EOperation_SCAN,
				Node:      "BB9010011AC4202",
				Endpoint:  nodes[1].Endpoint,
				Namespace: "test",
				Set:       "demo",
			},
			{
				Operation: api.EOperation_SCAN,
				Node:      "BB9030011AC4202",
				Endpoint:  nodes[0].Endpoint,
				Namespace: "test",
				Set:       "demo",
			},
		}, splits)

		var buf bytes.Buffer
		require.NoError(t, writeSplits(&buf, splits))
		require.Equal(t,
			`{"operation":"scan","node":"BB9010011AC4202","endpoint":{"host":"10.0.0.1","port":3000},"namespace":"test","set":"demo"}`+"\n"+
				`{"operation":"scan","node":"BB9030011AC4202","endpoint":{"host":"10.0.0.3","port":3000},"namespace":"test","set":"demo"}`+"\n",
			buf.String())

		mock.AssertExpectationsForObjects(t, connection, connectionManager)
	})

	t.Run("range query", func(t *testing.T) {
		connection := &datasource.ConnectionMock{}
		connection.On("ListNodes").Return(nodes[:1], nil).Once()

		connectionManager := &datasource.ConnectionManagerMock{}
		connectionManager.On("Make", seed).Return(connection, nil).Once()
		connectionManager.On("Release", connection).Return().Once()

		template := &api.TSplit{
			Endpoint:  seed,
			Namespace: "test",
			Range:     &api.TRangeFilter{Bin: "value", Begin: 1, End: 100},
		}

		splits, err := listSplits(context.Background(), utils.NewTestLogger(t), connectionManager, template)
		require.NoError(t, err)
		require.Len(t, splits, 1)
		require.Equal(t, api.EOperation_RANGE_QUERY, splits[0].Operation)
		require.Equal(t, template.Range, splits[0].Range)

		mock.AssertExpectationsForObjects(t, connection, connectionManager)
	})

	t.Run("missing namespace", func(t *testing.T) {
		connection := &datasource.ConnectionMock{}
		connection.On("ListNodes").Return(nodes, nil).Once()

		connectionManager := &datasource.ConnectionManagerMock{}
		connectionManager.On("Make", seed).Return(connection, nil).Once()
		connectionManager.On("Release", connection).Return().Once()

		_, err := listSplits(context.Background(), utils.NewTestLogger(t), connectionManager, &api.TSplit{Endpoint: seed})
		require.ErrorIs(t, err, utils.ErrInvalidSplit)

		mock.AssertExpectationsForObjects(t, connection, connectionManager)
	})

	t.Run("connection error", func(t *testing.T) {
		makeErr := errors.New("connection refused")

		connectionManager := &datasource.ConnectionManagerMock{}
		connectionManager.On("Make", seed).Return(nil, makeErr).Once()

		_, err := listSplits(context.Background(), utils.NewTestLogger(t), connectionManager, &api.TSplit{Endpoint: seed})
		require.ErrorIs(t, err, makeErr)

		mock.AssertExpectationsForObjects(t, connectionManager)
	})
}
