package reader

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aerospike-community/asreader/app/config"
	"github.com/aerospike-community/asreader/app/reader/datasource"
	"github.com/aerospike-community/asreader/app/reader/utils"
)

func countLines(t *testing.T, data []byte) int {
	scanner := bufio.NewScanner(bytes.NewReader(data))

	var lines int
	for scanner.Scan() {
		lines++
	}

	require.NoError(t, scanner.Err())

	return lines
}

func TestDumpSplit(t *testing.T) {
	split := utils.MakeTestSplit()

	t.Run("positive", func(t *testing.T) {
		connection := &datasource.ConnectionMock{PredefinedData: datasource.MakeTestResults(25)}
		connection.On("ScanNode", split.Node, split.Namespace, split.Set).Return(nil).Once()

		connectionManager := &datasource.ConnectionManagerMock{}
		connectionManager.On("Make", split.Endpoint).Return(connection, nil).Once()
		connectionManager.On("Release", connection).Return().Once()

		var buf bytes.Buffer

		rows, err := dumpSplit(
			context.Background(), utils.NewTestLogger(t), config.NewDefaultConfig(),
			connectionManager, nil, split, &buf)
		require.NoError(t, err)
		require.Equal(t, 25, rows)
		require.Equal(t, 25, countLines(t, buf.Bytes()))

		mock.AssertExpectationsForObjects(t, connection, connectionManager)
	})

	t.Run("records read before the failure are kept", func(t *testing.T) {
		scanErr := errors.New("node went down")

		connection := &datasource.ConnectionMock{
			PredefinedData: datasource.MakeTestResults(7),
			ScanErr:        scanErr,
		}
		connection.On("ScanNode", split.Node, split.Namespace, split.Set).Return(nil).Once()

		connectionManager := &datasource.ConnectionManagerMock{}
		connectionManager.On("Make", split.Endpoint).Return(connection, nil).Once()
		connectionManager.On("Release", connection).Return().Once()

		var buf bytes.Buffer

		rows, err := dumpSplit(
			context.Background(), utils.NewTestLogger(t), config.NewDefaultConfig(),
			connectionManager, nil, split, &buf)
		require.ErrorIs(t, err, utils.ErrProducerFailed)
		require.ErrorIs(t, err, scanErr)
		require.Equal(t, 7, rows)
		require.Equal(t, 7, countLines(t, buf.Bytes()))

		mock.AssertExpectationsForObjects(t, connection, connectionManager)
	})

	t.Run("read limit", func(t *testing.T) {
		connection := &datasource.ConnectionMock{PredefinedData: datasource.MakeTestResults(100)}
		connection.On("ScanNode", split.Node, split.Namespace, split.Set).Return(nil).Once()

		connectionManager := &datasource.ConnectionManagerMock{}
		connectionManager.On("Make", split.Endpoint).Return(connection, nil).Once()
		connectionManager.On("Release", connection).Return().Once()

		cfg := config.NewDefaultConfig()
		cfg.Reader.QueueCapacity = 4
		cfg.ReadLimit = &config.TReadLimit{Rows: 10}

		metrics, err := utils.NewMetrics(prometheus.NewRegistry())
		require.NoError(t, err)

		var buf bytes.Buffer

		rows, err := dumpSplit(
			context.Background(), utils.NewTestLogger(t), cfg,
			connectionManager, metrics, split, &buf)
		require.NoError(t, err)
		require.Equal(t, 10, rows)
		require.Equal(t, 10, countLines(t, buf.Bytes()))

		// no record is pulled past the limit
		require.Equal(t, float64(10), testutil.ToFloat64(metrics.UnitsDelivered.WithLabelValues("scan")))

		// the producer was interrupted and released its connection
		mock.AssertExpectationsForObjects(t, connection, connectionManager)
	})

	t.Run("read limit above split size", func(t *testing.T) {
		connection := &datasource.ConnectionMock{PredefinedData: datasource.MakeTestResults(7)}
		connection.On("ScanNode", split.Node, split.Namespace, split.Set).Return(nil).Once()

		connectionManager := &datasource.ConnectionManagerMock{}
		connectionManager.On("Make", split.Endpoint).Return(connection, nil).Once()
		connectionManager.On("Release", connection).Return().Once()

		cfg := config.NewDefaultConfig()
		cfg.ReadLimit = &config.TReadLimit{Rows: 50}

		var buf bytes.Buffer

		rows, err := dumpSplit(
			context.Background(), utils.NewTestLogger(t), cfg,
			connectionManager, nil, split, &buf)
		require.NoError(t, err)
		require.Equal(t, 7, rows)

		mock.AssertExpectationsForObjects(t, connection, connectionManager)
	})

	t.Run("invalid split", func(t *testing.T) {
		invalid := utils.MakeTestSplit()
		invalid.Namespace = ""

		var buf bytes.Buffer

		rows, err := dumpSplit(
			context.Background(), utils.NewTestLogger(t), config.NewDefaultConfig(),
			&datasource.ConnectionManagerMock{}, nil, invalid, &buf)
		require.ErrorIs(t, err, utils.ErrInvalidSplit)
		require.Zero(t, rows)
	})
}
