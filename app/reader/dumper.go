package reader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/apache/arrow/go/v13/arrow/memory"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/aerospike-community/asreader/app/api"
	"github.com/aerospike-community/asreader/app/config"
	"github.com/aerospike-community/asreader/app/reader/datasource"
	"github.com/aerospike-community/asreader/app/reader/datasource/aerospike"
	"github.com/aerospike-community/asreader/app/reader/output"
	"github.com/aerospike-community/asreader/app/reader/streaming"
	"github.com/aerospike-community/asreader/app/reader/utils"
)

// dumpSplit pulls records of the split and passes them to the configured writer,
// at most read_limit.rows of them when the limit is set.
// It returns the number of records written.
func dumpSplit(
	ctx context.Context,
	logger *zap.Logger,
	cfg *config.TConfig,
	connectionManager datasource.ConnectionManager,
	metrics *utils.Metrics,
	split *api.TSplit,
	out io.Writer,
) (rows int, err error) {
	writer, err := output.NewWriter(logger, cfg.Output, out, memory.DefaultAllocator)
	if err != nil {
		return 0, fmt.Errorf("new writer: %w", err)
	}

	reader := streaming.NewRecordReader(logger, cfg.Reader, connectionManager, metrics)

	limit := cfg.ReadLimit.GetRows()
	if limit > 0 {
		logger.Warn("only first records of the split will be written", zap.Uint64("limit", limit))
	}

	defer func() {
		if closeErr := reader.Close(); closeErr != nil {
			err = multierr.Append(err, fmt.Errorf("close reader: %w", closeErr))
		}

		if closeErr := writer.Close(); closeErr != nil {
			err = multierr.Append(err, fmt.Errorf("close writer: %w", closeErr))
		}

		rows = writer.TotalRows()
	}()

	if err := reader.Initialize(ctx, split); err != nil {
		return 0, fmt.Errorf("initialize reader: %w", err)
	}

	for {
		if limit > 0 && uint64(writer.TotalRows()) >= limit {
			// the rest of the split is dropped by the reader on close
			logger.Warn("dump truncated", zap.Uint64("limit", limit))
			return 0, nil
		}

		unit, err := reader.Next(ctx)
		if errors.Is(err, io.EOF) {
			return 0, nil
		}

		if err != nil {
			return 0, fmt.Errorf("next record: %w", err)
		}

		if err := writer.Write(&unit); err != nil {
			return 0, fmt.Errorf("write record: %w", err)
		}
	}
}

func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create file %v: %w", path, err)
	}

	return f, nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

func runDump(cmd *cobra.Command, _ []string) (err error) {
	cfg, logger, err := prepare(cmd)
	if err != nil {
		return err
	}

	split, err := splitFromFlags(cmd.Flags())
	if err != nil {
		return fmt.Errorf("split from flags: %w", err)
	}

	outputPath, err := cmd.Flags().GetString(outputFlag)
	if err != nil {
		return fmt.Errorf("get output flag: %v", err)
	}

	limit, err := cmd.Flags().GetUint64(limitFlag)
	if err != nil {
		return fmt.Errorf("get limit flag: %v", err)
	}

	if limit > 0 {
		cfg.ReadLimit = &config.TReadLimit{Rows: limit}
	}

	registry := prometheus.NewRegistry()

	metrics, err := utils.NewMetrics(registry)
	if err != nil {
		return fmt.Errorf("new metrics: %w", err)
	}

	out, err := openOutput(outputPath)
	if err != nil {
		return fmt.Errorf("open output: %w", err)
	}

	defer func() {
		if closeErr := out.Close(); closeErr != nil {
			err = multierr.Append(err, fmt.Errorf("close output: %w", closeErr))
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := newLauncher(logger, cfg, registry)
	l.watch(ctx, cancel, l.start())

	defer l.stop()

	rows, err := dumpSplit(ctx, logger, cfg, aerospike.NewConnectionManager(cfg.Aerospike), metrics, split, out)
	if err != nil {
		return fmt.Errorf("dump split: %w", err)
	}

	logger.Info("dump finished", zap.Int("rows", rows), zap.Stringer("split", split))

	return nil
}
