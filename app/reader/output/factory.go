package output

import (
	"fmt"
	"io"

	"github.com/apache/arrow/go/v13/arrow/memory"
	"go.uber.org/zap"

	"github.com/aerospike-community/asreader/app/config"
)

func NewWriter(
	logger *zap.Logger,
	cfg *config.TOutputConfig,
	out io.Writer,
	allocator memory.Allocator,
) (Writer, error) {
	switch cfg.Format {
	case config.EOutputFormat_JSON:
		return newJSONLinesWriter(logger, out), nil
	case config.EOutputFormat_ARROW:
		if cfg.RowsPerPage < 1 {
			return nil, fmt.Errorf("invalid rows per page: %d", cfg.RowsPerPage)
		}

		if allocator == nil {
			allocator = memory.DefaultAllocator
		}

		return newArrowIPCStreamingWriter(logger, out, allocator, cfg.RowsPerPage), nil
	default:
		return nil, fmt.Errorf("unknown output format: '%v'", cfg.Format)
	}
}
