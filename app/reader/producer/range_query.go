package producer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/aerospike-community/asreader/app/api"
	"github.com/aerospike-community/asreader/app/reader/datasource"
	"github.com/aerospike-community/asreader/app/reader/utils"
)

var _ variant = (*rangeQueryVariant)(nil)

// rangeQueryVariant reads records whose bin value lies within an inclusive integer range.
// Only the filtered bin is fetched.
type rangeQueryVariant struct {
	split *api.TSplit
}

func (v *rangeQueryVariant) statement() *datasource.Statement {
	r := v.split.Range

	return &datasource.Statement{
		Namespace: v.split.Namespace,
		Set:       v.split.Set,
		Node:      v.split.Node,
		Filter:    &api.TRangeFilter{Bin: r.Bin, Begin: r.Begin, End: r.End},
		Bins:      []string{r.Bin},
	}
}

func (v *rangeQueryVariant) read(
	ctx context.Context,
	logger *zap.Logger,
	conn datasource.Connection,
	markRunning func(),
	emit emitFunc,
) error {
	stmt := v.statement()

	logger.Info("range",
		zap.String("bin", stmt.Filter.Bin),
		zap.Int64("begin", stmt.Filter.Begin),
		zap.Int64("end", stmt.Filter.End))

	cursor, err := conn.Query(ctx, stmt)
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}

	markRunning()

	defer func() { utils.LogCloserError(logger, cursor, "close query cursor") }()

	logger.Info("query starting")

	for cursor.Next(ctx) {
		if err := emit(cursor.Record()); err != nil {
			return fmt.Errorf("emit: %w", err)
		}
	}

	if err := cursor.Err(); err != nil {
		return fmt.Errorf("cursor iteration: %w", err)
	}

	logger.Info("query finished")

	return nil
}
