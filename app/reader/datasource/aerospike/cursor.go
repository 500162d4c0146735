package aerospike

import (
	"context"
	"fmt"

	as "github.com/aerospike/aerospike-client-go/v7"

	"github.com/aerospike-community/asreader/app/api"
	"github.com/aerospike-community/asreader/app/reader/datasource"
)

var _ datasource.Cursor = (*recordsetCursor)(nil)

// recordsetCursor turns the result channel of a recordset into a pull iterator.
type recordsetCursor struct {
	rs      *as.Recordset
	current *as.Record
	err     error
}

func (c *recordsetCursor) Next(ctx context.Context) bool {
	if c.err != nil {
		return false
	}

	select {
	case res, ok := <-c.rs.Results():
		if !ok {
			return false
		}

		if res.Err != nil {
			c.err = res.Err
			return false
		}

		c.current = res.Record

		return true
	case <-ctx.Done():
		c.err = ctx.Err()
		return false
	}
}

func (c *recordsetCursor) Record() (*api.Key, *api.Record) {
	return convertKey(c.current.Key), convertRecord(c.current)
}

func (c *recordsetCursor) Err() error { return c.err }

func (c *recordsetCursor) Close() error {
	if err := c.rs.Close(); err != nil {
		return fmt.Errorf("close recordset: %w", err)
	}

	return nil
}

func convertKey(key *as.Key) *api.Key {
	if key == nil {
		return &api.Key{}
	}

	out := &api.Key{
		Namespace: key.Namespace(),
		SetName:   key.SetName(),
		Digest:    key.Digest(),
	}

	if v := key.Value(); v != nil {
		out.UserKey = v.GetObject()
	}

	return out
}

func convertRecord(rec *as.Record) *api.Record {
	return &api.Record{
		Bins:       rec.Bins,
		Generation: rec.Generation,
		Expiration: rec.Expiration,
	}
}
