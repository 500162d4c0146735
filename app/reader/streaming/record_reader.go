package streaming

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/aerospike-community/asreader/app/api"
	"github.com/aerospike-community/asreader/app/config"
	"github.com/aerospike-community/asreader/app/reader/datasource"
	"github.com/aerospike-community/asreader/app/reader/paging"
	"github.com/aerospike-community/asreader/app/reader/producer"
	"github.com/aerospike-community/asreader/app/reader/utils"
)

type readerState int8

const (
	stateInit readerState = iota + 1
	stateWaitingForStart
	stateDraining
	stateExhausted
	stateFailed
	stateClosed
)

func (s readerState) String() string {
	switch s {
	case stateInit:
		return "init"
	case stateWaitingForStart:
		return "waiting_for_start"
	case stateDraining:
		return "draining"
	case stateExhausted:
		return "exhausted"
	case stateFailed:
		return "failed"
	case stateClosed:
		return "closed"
	default:
		return fmt.Sprintf("readerState(%d)", int8(s))
	}
}

// RecordReader exposes records pushed by a background producer through a pull interface.
// Its methods must not be called concurrently, except Progress.
type RecordReader struct {
	cfg               *config.TReaderConfig
	connectionManager datasource.ConnectionManager
	metrics           *utils.Metrics
	logger            *zap.Logger

	producer producer.Producer
	cancel   context.CancelFunc // interrupts the producer
	state    readerState
	outcome  error // returned by every pull after a terminal state

	currentKey   api.Key
	currentValue api.Record

	startPolls   int // ticks spent waiting for the producer to start
	stallRetries int // expired waits on an empty channel
}

// Initialize starts the producer matching the split. ctx bounds the producer lifetime.
func (r *RecordReader) Initialize(ctx context.Context, split *api.TSplit) error {
	if r.state != stateInit {
		return fmt.Errorf("initialize in state '%v': %w", r.state, utils.ErrInvariantViolation)
	}

	r.logger = utils.AnnotateLogger(r.logger, "RecordReader", split)

	p, err := producer.NewProducer(r.logger, split, r.connectionManager, r.cfg.QueueCapacity, r.metrics)
	if err != nil {
		return fmt.Errorf("new producer: %w", err)
	}

	producerCtx, cancel := context.WithCancel(ctx)

	r.producer = p
	r.cancel = cancel
	r.state = stateWaitingForStart

	p.Start(producerCtx)

	r.logger.Info("reader initialized", zap.Int("queue_capacity", p.Channel().Capacity()))

	return nil
}

// Next returns the next record. io.EOF marks the regular end of data.
// Failures of the producer wrap utils.ErrProducerFailed, a stalled producer
// results in utils.ErrStallTimeout. Both become io.EOF when CollapseFailures is set.
// Cancellation of ctx interrupts the wait but does not end the reading.
func (r *RecordReader) Next(ctx context.Context) (paging.DataUnit, error) {
	switch r.state {
	case stateInit:
		return paging.DataUnit{}, utils.ErrNotInitialized
	case stateClosed:
		return paging.DataUnit{}, utils.ErrReaderClosed
	case stateExhausted, stateFailed:
		return paging.DataUnit{}, r.outcome
	}

	if r.state == stateWaitingForStart {
		if err := r.waitForStart(ctx); err != nil {
			return paging.DataUnit{}, err
		}

		r.state = stateDraining
	}

	unit, err := r.take(ctx)
	if err != nil {
		return paging.DataUnit{}, err
	}

	r.currentKey.Set(&unit.Key)
	r.currentValue.Set(&unit.Record)
	r.metrics.UnitDelivered(r.operation(), r.producer.Channel().Size())

	return unit, nil
}

// waitForStart has no deadline: remote connection setup time is not bounded.
func (r *RecordReader) waitForStart(ctx context.Context) error {
	state := r.producer.State()

	ticker := time.NewTicker(r.cfg.StartPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-state.Started():
			return nil
		case <-state.Done():
			// the producer failed before the remote side accepted the operation
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.startPolls++
			r.logger.Debug("waiting for producer to start", zap.Int("polls", r.startPolls))
		}
	}
}

func (r *RecordReader) take(ctx context.Context) (paging.DataUnit, error) {
	state := r.producer.State()
	channel := r.producer.Channel()

	if r.cfg.CollapseFailures && state.Errored() {
		// records left in the channel are dropped as soon as the producer fails
		return paging.DataUnit{}, r.terminate()
	}

	unit, ok, err := channel.TryTake()
	if ok {
		return unit, nil
	}

	if err != nil {
		return paging.DataUnit{}, r.terminate()
	}

	// the channel is empty while the producer is still running
	for trial := 1; ; trial++ {
		waitCtx, cancel := context.WithTimeout(ctx, r.cfg.StallRetryInterval)
		unit, err := channel.Take(waitCtx)
		cancel()

		switch {
		case err == nil:
			return unit, nil
		case errors.Is(err, paging.ErrChannelClosed):
			return paging.DataUnit{}, r.terminate()
		case ctx.Err() != nil:
			return paging.DataUnit{}, ctx.Err()
		}

		r.stallRetries++
		r.metrics.StallRetry(r.operation())

		if r.cfg.CollapseFailures && state.Errored() {
			return paging.DataUnit{}, r.terminate()
		}

		if trial >= r.cfg.StallMaxTrials {
			// last chance for the data that came along with the final expiration
			unit, ok, err := channel.TryTake()
			if ok {
				return unit, nil
			}

			if err != nil {
				return paging.DataUnit{}, r.terminate()
			}

			r.logger.Error("scan timeout",
				zap.Int("trials", trial),
				zap.Duration("interval", r.cfg.StallRetryInterval))

			return paging.DataUnit{}, r.fail(fmt.Errorf(
				"%w: %d trials of %v", utils.ErrStallTimeout, trial, r.cfg.StallRetryInterval))
		}

		r.logger.Info("queue empty: waiting...", zap.Int("trial", trial))
	}
}

// terminate is called once the producer will not deliver anything else.
func (r *RecordReader) terminate() error {
	state := r.producer.State()

	switch {
	case state.Errored():
		return r.fail(utils.NewProducerError(state.Err()))
	case state.Finished():
		r.state = stateExhausted
		r.outcome = io.EOF
		r.metrics.ReadOutcome(r.operation(), utils.OutcomeFinished)
		r.logger.Info("reading finished")

		return r.outcome
	default:
		return r.fail(fmt.Errorf("channel closed by a running producer: %w", utils.ErrInvariantViolation))
	}
}

func (r *RecordReader) fail(err error) error {
	r.state = stateFailed

	outcome := utils.OutcomeErrored
	if errors.Is(err, utils.ErrStallTimeout) {
		outcome = utils.OutcomeStalled
	}

	r.metrics.ReadOutcome(r.operation(), outcome)

	if r.cfg.CollapseFailures {
		r.logger.Error("reading failed, reporting end of data", zap.Error(err))
		r.outcome = io.EOF
	} else {
		r.logger.Error("reading failed", zap.Error(err))
		r.outcome = err
	}

	return r.outcome
}

// NextInto copies the next record into key and value, both may be nil.
// It returns false at the end of data. The reader-owned containers returned by
// CurrentKey and CurrentValue are updated as well.
func (r *RecordReader) NextInto(ctx context.Context, key *api.Key, value *api.Record) (bool, error) {
	unit, err := r.Next(ctx)
	if errors.Is(err, io.EOF) {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	if key != nil {
		key.Set(&unit.Key)
	}

	if value != nil {
		value.Set(&unit.Record)
	}

	return true, nil
}

// NextKeyValue advances the reader, the record is available via CurrentKey and CurrentValue.
func (r *RecordReader) NextKeyValue(ctx context.Context) (bool, error) {
	return r.NextInto(ctx, nil, nil)
}

func (r *RecordReader) CurrentKey() *api.Key { return &r.currentKey }

func (r *RecordReader) CurrentValue() *api.Record { return &r.currentValue }

// Progress is 0 until the producer has read everything, 1 afterwards.
func (r *RecordReader) Progress() float32 {
	if r.producer != nil && r.producer.State().Finished() {
		return 1.0
	}

	return 0.0
}

// Pos is always zero: the position within a streaming scan is unknown.
func (r *RecordReader) Pos() int64 { return 0 }

// Close stops the producer and waits until it has released its connection.
func (r *RecordReader) Close() error {
	if r.state == stateClosed {
		return nil
	}

	if r.producer == nil {
		r.state = stateClosed
		return nil
	}

	r.cancel()

	joinCtx := context.Background()

	if r.cfg.JoinTimeout > 0 {
		var cancel context.CancelFunc

		joinCtx, cancel = context.WithTimeout(joinCtx, r.cfg.JoinTimeout)
		defer cancel()
	}

	if err := r.producer.Join(joinCtx); err != nil {
		return fmt.Errorf("join producer: %w", err)
	}

	r.state = stateClosed
	r.logger.Debug("reader closed", zap.Int("stall_retries", r.stallRetries))

	return nil
}

func (r *RecordReader) operation() string {
	return r.producer.Split().Operation.String()
}

func NewRecordReader(
	logger *zap.Logger,
	cfg *config.TReaderConfig,
	connectionManager datasource.ConnectionManager,
	metrics *utils.Metrics,
) *RecordReader {
	if cfg == nil {
		cfg = config.NewDefaultReaderConfig()
	} else {
		copied := *cfg
		cfg = &copied
		clampReaderConfig(logger, cfg)
	}

	return &RecordReader{
		cfg:               cfg,
		connectionManager: connectionManager,
		metrics:           metrics,
		logger:            logger,
		state:             stateInit,
	}
}

// clampReaderConfig replaces zero and negative settings with defaults,
// a config built in code does not pass through file validation.
func clampReaderConfig(logger *zap.Logger, cfg *config.TReaderConfig) {
	def := config.NewDefaultReaderConfig()

	if cfg.QueueCapacity < 0 {
		logger.Warn("invalid queue capacity, using default", zap.Int("value", cfg.QueueCapacity))
		cfg.QueueCapacity = def.QueueCapacity
	}

	if cfg.StartPollInterval < 0 {
		logger.Warn("invalid start poll interval, using default", zap.Duration("value", cfg.StartPollInterval))
		cfg.StartPollInterval = def.StartPollInterval
	}

	if cfg.StallRetryInterval < 0 {
		logger.Warn("invalid stall retry interval, using default", zap.Duration("value", cfg.StallRetryInterval))
		cfg.StallRetryInterval = def.StallRetryInterval
	}

	if cfg.StallMaxTrials < 0 {
		logger.Warn("invalid stall max trials, using default", zap.Int("value", cfg.StallMaxTrials))
		cfg.StallMaxTrials = def.StallMaxTrials
	}

	if cfg.JoinTimeout < 0 {
		logger.Warn("invalid join timeout, waiting without limit", zap.Duration("value", cfg.JoinTimeout))
		cfg.JoinTimeout = 0
	}

	// zero values
	config.FillReaderDefaults(cfg)
}
