package producer

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/aerospike-community/asreader/app/api"
	"github.com/aerospike-community/asreader/app/reader/datasource"
	"github.com/aerospike-community/asreader/app/reader/paging"
	"github.com/aerospike-community/asreader/app/reader/utils"
)

var _ Producer = (*producerImpl)(nil)

type producerImpl struct {
	split             *api.TSplit
	variant           variant
	connectionManager datasource.ConnectionManager
	channel           paging.TransferChannel
	state             *paging.ReaderState
	metrics           *utils.Metrics
	logger            *zap.Logger
	startOnce         sync.Once
	done              chan struct{} // closed when the background task exits
}

func (p *producerImpl) Start(ctx context.Context) {
	p.startOnce.Do(func() {
		go p.run(ctx)
	})
}

func (p *producerImpl) run(ctx context.Context) {
	defer close(p.done)

	// consumer learns about the end of data after the terminal state is set
	defer p.channel.Close()

	err := p.doRun(ctx)
	if err != nil {
		p.logger.Error("producer failed", zap.Error(err))
		p.state.MarkErrored(err)
		p.metrics.ProducerOutcome(p.split.Operation.String(), utils.OutcomeErrored)

		return
	}

	p.state.MarkFinished()
	p.metrics.ProducerOutcome(p.split.Operation.String(), utils.OutcomeFinished)
}

func (p *producerImpl) doRun(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("producer panic: %v", r)
		}
	}()

	conn, err := p.connectionManager.Make(ctx, p.logger, p.split.Endpoint)
	if err != nil {
		return fmt.Errorf("make connection: %w", err)
	}

	defer p.connectionManager.Release(p.logger, conn)

	if err := p.variant.read(ctx, p.logger, conn, p.state.MarkRunning, p.makeEmitter(ctx)); err != nil {
		return err
	}

	// results may be cut short by cancellation without an error from the remote side
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("producer interrupted: %w", err)
	}

	return nil
}

func (p *producerImpl) makeEmitter(ctx context.Context) emitFunc {
	operation := p.split.Operation.String()

	return func(key *api.Key, record *api.Record) error {
		if err := p.channel.Put(ctx, paging.NewDataUnit(key, record)); err != nil {
			return fmt.Errorf("put to transfer channel: %w", err)
		}

		p.metrics.UnitProduced(operation)

		return nil
	}
}

func (p *producerImpl) Join(ctx context.Context) error {
	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", utils.ErrJoinTimeout, ctx.Err())
	}
}

func (p *producerImpl) State() *paging.ReaderState { return p.state }

func (p *producerImpl) Channel() paging.TransferChannel { return p.channel }

func (p *producerImpl) Split() *api.TSplit { return p.split }

// NewProducer picks the producer variant matching the split operation.
func NewProducer(
	logger *zap.Logger,
	split *api.TSplit,
	connectionManager datasource.ConnectionManager,
	queueCapacity int,
	metrics *utils.Metrics,
) (Producer, error) {
	if err := ValidateSplit(split); err != nil {
		return nil, fmt.Errorf("validate split: %w", err)
	}

	var v variant

	switch split.Operation {
	case api.EOperation_SCAN:
		v = &scanVariant{split: split}
	case api.EOperation_RANGE_QUERY:
		v = &rangeQueryVariant{split: split}
	default:
		return nil, fmt.Errorf("unexpected operation '%v': %w", split.Operation, utils.ErrInvalidSplit)
	}

	channel, err := paging.NewTransferChannel(queueCapacity)
	if err != nil {
		return nil, fmt.Errorf("new transfer channel: %w", err)
	}

	return &producerImpl{
		split:             split,
		variant:           v,
		connectionManager: connectionManager,
		channel:           channel,
		state:             paging.NewReaderState(),
		metrics:           metrics,
		logger:            logger,
		done:              make(chan struct{}),
	}, nil
}
