package aerospike

import (
	"context"
	"fmt"

	as "github.com/aerospike/aerospike-client-go/v7"
	"go.uber.org/zap"

	"github.com/aerospike-community/asreader/app/api"
	"github.com/aerospike-community/asreader/app/config"
	"github.com/aerospike-community/asreader/app/reader/datasource"
	"github.com/aerospike-community/asreader/app/reader/utils"
)

var _ datasource.Connection = (*Connection)(nil)

type Connection struct {
	client *as.Client
	cfg    *config.TAerospikeConfig
	logger *zap.Logger
}

func (c *Connection) ScanNode(
	ctx context.Context,
	nodeName, namespace, set string,
	callback datasource.ScanCallback,
) error {
	node, err := c.client.Cluster().GetNodeByName(nodeName)
	if err != nil {
		return fmt.Errorf("get node by name '%s': %v: %w", nodeName, err, utils.ErrNodeNotFound)
	}

	policy := as.NewScanPolicy()
	policy.TotalTimeout = c.cfg.TotalTimeout

	rs, err := c.client.ScanNode(policy, node, namespace, set)
	if err != nil {
		return fmt.Errorf("scan node: %w", err)
	}

	cursor := &recordsetCursor{rs: rs}

	defer func() { utils.LogCloserError(c.logger, cursor, "close scan recordset") }()

	for cursor.Next(ctx) {
		if err := callback(cursor.Record()); err != nil {
			return fmt.Errorf("scan callback: %w", err)
		}
	}

	if err := cursor.Err(); err != nil {
		return fmt.Errorf("scan iteration: %w", err)
	}

	return nil
}

func (c *Connection) Query(ctx context.Context, stmt *datasource.Statement) (datasource.Cursor, error) {
	asStmt := as.NewStatement(stmt.Namespace, stmt.Set, stmt.Bins...)

	if f := stmt.Filter; f != nil {
		if err := asStmt.SetFilter(as.NewRangeFilter(f.Bin, f.Begin, f.End)); err != nil {
			return nil, fmt.Errorf("set range filter: %w", err)
		}
	}

	policy := as.NewQueryPolicy()
	policy.TotalTimeout = c.cfg.TotalTimeout

	var (
		rs    *as.Recordset
		asErr as.Error
	)

	if stmt.Node != "" {
		node, err := c.client.Cluster().GetNodeByName(stmt.Node)
		if err != nil {
			return nil, fmt.Errorf("get node by name '%s': %v: %w", stmt.Node, err, utils.ErrNodeNotFound)
		}

		rs, asErr = c.client.QueryNode(policy, node, asStmt)
	} else {
		rs, asErr = c.client.Query(policy, asStmt)
	}

	if asErr != nil {
		return nil, fmt.Errorf("query: %w", asErr)
	}

	return &recordsetCursor{rs: rs}, nil
}

func (c *Connection) ListNodes(_ context.Context) ([]datasource.Node, error) {
	nodes := c.client.GetNodes()
	if len(nodes) == 0 {
		return nil, fmt.Errorf("cluster has no active nodes: %w", utils.ErrNodeNotFound)
	}

	out := make([]datasource.Node, 0, len(nodes))

	for _, node := range nodes {
		host := node.GetHost()

		out = append(out, datasource.Node{
			Name: node.GetName(),
			Endpoint: &api.TEndpoint{
				Host: host.Name,
				Port: uint32(host.Port),
			},
		})
	}

	return out, nil
}

func (c *Connection) Close() error {
	c.client.Close()

	return nil
}

var _ datasource.ConnectionManager = (*connectionManager)(nil)

type connectionManager struct {
	cfg *config.TAerospikeConfig
}

func (cm *connectionManager) Make(
	_ context.Context,
	logger *zap.Logger,
	endpoint *api.TEndpoint,
) (datasource.Connection, error) {
	policy := as.NewClientPolicy()
	policy.Timeout = cm.cfg.ConnectTimeout
	policy.User = cm.cfg.User
	policy.Password = cm.cfg.Password

	client, err := as.NewClientWithPolicy(policy, endpoint.GetHost(), int(endpoint.GetPort()))
	if err != nil {
		return nil, fmt.Errorf("new aerospike client for '%s': %w", utils.EndpointToString(endpoint), err)
	}

	logger.Debug("connected to cluster", zap.Int("nodes", len(client.GetNodes())))

	return &Connection{client: client, cfg: cm.cfg, logger: logger}, nil
}

func (cm *connectionManager) Release(logger *zap.Logger, conn datasource.Connection) {
	utils.LogCloserError(logger, conn, "close aerospike connection")
}

func NewConnectionManager(cfg *config.TAerospikeConfig) datasource.ConnectionManager {
	if cfg == nil {
		cfg = &config.TAerospikeConfig{ConnectTimeout: config.DefaultConnectTimeout}
	}

	return &connectionManager{cfg: cfg}
}
