package output

import (
	"fmt"
	"io"

	"github.com/apache/arrow/go/v13/arrow"
	"github.com/apache/arrow/go/v13/arrow/array"
	"github.com/apache/arrow/go/v13/arrow/ipc"
	"github.com/apache/arrow/go/v13/arrow/memory"
	"go.uber.org/zap"

	"github.com/aerospike-community/asreader/app/reader/paging"
)

var _ Writer = (*arrowIPCStreamingWriter)(nil)

const (
	columnNamespace = iota
	columnSet
	columnDigest
	columnUserKey
	columnGeneration
	columnExpiration
	columnBins
)

// RecordSchema describes the record batches produced by the Arrow writer.
// User keys and bins are stored as JSON since their types vary from record to record.
func RecordSchema() *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{
		{Name: "namespace", Type: arrow.BinaryTypes.String},
		{Name: "set", Type: arrow.BinaryTypes.String},
		{Name: "digest", Type: arrow.BinaryTypes.Binary},
		{Name: "user_key", Type: arrow.BinaryTypes.String, Nullable: true},
		{Name: "generation", Type: arrow.PrimitiveTypes.Uint32},
		{Name: "expiration", Type: arrow.PrimitiveTypes.Uint32},
		{Name: "bins", Type: arrow.BinaryTypes.String},
	}, nil)
}

// arrowIPCStreamingWriter buffers rows and emits a record batch every rowsPerPage rows
// into a single Arrow IPC stream.
type arrowIPCStreamingWriter struct {
	builder     *array.RecordBuilder
	writer      *ipc.Writer
	rowsPerPage int
	pageRows    int
	totalRows   int
	pages       int
	logger      *zap.Logger
}

func (w *arrowIPCStreamingWriter) Write(unit *paging.DataUnit) error {
	// every column of the row is appended or none
	var (
		userKey    string
		hasUserKey = unit.Key.UserKey != nil
	)

	if hasUserKey {
		var err error

		userKey, err = marshalValue(unit.Key.UserKey)
		if err != nil {
			return fmt.Errorf("user key: %w", err)
		}
	}

	bins, err := marshalValue(unit.Record.Bins)
	if err != nil {
		return fmt.Errorf("bins: %w", err)
	}

	fields := w.builder.Fields()

	fields[columnNamespace].(*array.StringBuilder).Append(unit.Key.Namespace)
	fields[columnSet].(*array.StringBuilder).Append(unit.Key.SetName)
	fields[columnDigest].(*array.BinaryBuilder).Append(unit.Key.Digest)

	if hasUserKey {
		fields[columnUserKey].(*array.StringBuilder).Append(userKey)
	} else {
		fields[columnUserKey].AppendNull()
	}

	fields[columnGeneration].(*array.Uint32Builder).Append(unit.Record.Generation)
	fields[columnExpiration].(*array.Uint32Builder).Append(unit.Record.Expiration)
	fields[columnBins].(*array.StringBuilder).Append(bins)

	w.pageRows++
	w.totalRows++

	if w.pageRows >= w.rowsPerPage {
		if err := w.flush(); err != nil {
			return fmt.Errorf("flush: %w", err)
		}
	}

	return nil
}

func (w *arrowIPCStreamingWriter) flush() error {
	if w.pageRows == 0 {
		return nil
	}

	record := w.builder.NewRecord()
	defer record.Release()

	if err := w.writer.Write(record); err != nil {
		return fmt.Errorf("write record: %w", err)
	}

	w.pageRows = 0
	w.pages++

	return nil
}

func (w *arrowIPCStreamingWriter) Close() error {
	defer w.builder.Release()

	if err := w.flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}

	if err := w.writer.Close(); err != nil {
		return fmt.Errorf("close arrow writer: %w", err)
	}

	w.logger.Debug("arrow stream written", zap.Int("rows", w.totalRows), zap.Int("pages", w.pages))

	return nil
}

func (w *arrowIPCStreamingWriter) TotalRows() int { return w.totalRows }

func newArrowIPCStreamingWriter(
	logger *zap.Logger,
	out io.Writer,
	allocator memory.Allocator,
	rowsPerPage int,
) *arrowIPCStreamingWriter {
	schema := RecordSchema()

	return &arrowIPCStreamingWriter{
		builder:     array.NewRecordBuilder(allocator, schema),
		writer:      ipc.NewWriter(out, ipc.WithSchema(schema), ipc.WithAllocator(allocator)),
		rowsPerPage: rowsPerPage,
		logger:      logger,
	}
}
