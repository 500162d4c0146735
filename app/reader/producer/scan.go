package producer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/aerospike-community/asreader/app/api"
	"github.com/aerospike-community/asreader/app/reader/datasource"
)

var _ variant = (*scanVariant)(nil)

// scanVariant reads every record of namespace/set stored on a single node.
type scanVariant struct {
	split *api.TSplit
}

func (v *scanVariant) read(
	ctx context.Context,
	logger *zap.Logger,
	conn datasource.Connection,
	markRunning func(),
	emit emitFunc,
) error {
	logger.Info("scan starting")

	// the scan call blocks until the last record, so the reader is told in advance
	markRunning()

	err := conn.ScanNode(ctx, v.split.Node, v.split.Namespace, v.split.Set, datasource.ScanCallback(emit))
	if err != nil {
		return fmt.Errorf("scan node '%s': %w", v.split.Node, err)
	}

	logger.Info("scan finished")

	return nil
}
