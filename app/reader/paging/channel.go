package paging

import (
	"context"
	"fmt"
	"sync"

	"github.com/aerospike-community/asreader/app/reader/utils"
)

var _ TransferChannel = (*transferChannelImpl)(nil)

type transferChannelImpl struct {
	queue     chan DataUnit
	closeOnce sync.Once
}

func (tc *transferChannelImpl) Put(ctx context.Context, unit DataUnit) error {
	select {
	case tc.queue <- unit:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (tc *transferChannelImpl) Take(ctx context.Context) (DataUnit, error) {
	select {
	case unit, ok := <-tc.queue:
		if !ok {
			return DataUnit{}, ErrChannelClosed
		}

		return unit, nil
	case <-ctx.Done():
		return DataUnit{}, ctx.Err()
	}
}

func (tc *transferChannelImpl) TryTake() (DataUnit, bool, error) {
	select {
	case unit, ok := <-tc.queue:
		if !ok {
			return DataUnit{}, false, ErrChannelClosed
		}

		return unit, true, nil
	default:
		return DataUnit{}, false, nil
	}
}

func (tc *transferChannelImpl) Close() {
	tc.closeOnce.Do(func() { close(tc.queue) })
}

func (tc *transferChannelImpl) Size() int { return len(tc.queue) }

func (tc *transferChannelImpl) Capacity() int { return cap(tc.queue) }

func NewTransferChannel(capacity int) (TransferChannel, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("transfer channel capacity must be positive, got %d: %w", capacity, utils.ErrInvariantViolation)
	}

	return &transferChannelImpl{queue: make(chan DataUnit, capacity)}, nil
}
