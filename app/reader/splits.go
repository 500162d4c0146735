package reader

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aerospike-community/asreader/app/api"
	"github.com/aerospike-community/asreader/app/reader/datasource"
	"github.com/aerospike-community/asreader/app/reader/datasource/aerospike"
	"github.com/aerospike-community/asreader/app/reader/producer"
)

// listSplits makes one split per cluster node out of template.
// Splits get the range query operation when template carries a range filter.
func listSplits(
	ctx context.Context,
	logger *zap.Logger,
	connectionManager datasource.ConnectionManager,
	template *api.TSplit,
) ([]*api.TSplit, error) {
	conn, err := connectionManager.Make(ctx, logger, template.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("make connection: %w", err)
	}

	defer connectionManager.Release(logger, conn)

	nodes, err := conn.ListNodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list nodes: %w", err)
	}

	operation := api.EOperation_SCAN
	if template.Range != nil {
		operation = api.EOperation_RANGE_QUERY
	}

	splits := make([]*api.TSplit, 0, len(nodes))

	for _, node := range nodes {
		split := *template
		split.Operation = operation
		split.Node = node.Name
		split.Endpoint = node.Endpoint

		if err := producer.ValidateSplit(&split); err != nil {
			return nil, fmt.Errorf("validate split for node '%s': %w", node.Name, err)
		}

		splits = append(splits, &split)
	}

	sort.Slice(splits, func(i, j int) bool { return splits[i].Node < splits[j].Node })

	logger.Debug("splits listed", zap.Int("total", len(splits)))

	return splits, nil
}

func writeSplits(out io.Writer, splits []*api.TSplit) error {
	encoder := json.NewEncoder(out)

	for _, split := range splits {
		if err := encoder.Encode(split); err != nil {
			return fmt.Errorf("encode split: %w", err)
		}
	}

	return nil
}

func runSplits(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := prepare(cmd)
	if err != nil {
		return err
	}

	template, err := splitTemplateFromFlags(cmd.Flags())
	if err != nil {
		return fmt.Errorf("split from flags: %w", err)
	}

	splits, err := listSplits(context.Background(), logger, aerospike.NewConnectionManager(cfg.Aerospike), template)
	if err != nil {
		return fmt.Errorf("list splits: %w", err)
	}

	return writeSplits(os.Stdout, splits)
}
