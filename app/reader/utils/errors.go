package utils

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidSplit       = fmt.Errorf("invalid split")
	ErrNodeNotFound       = fmt.Errorf("node not found")
	ErrNotInitialized     = fmt.Errorf("reader is not initialized")
	ErrReaderClosed       = fmt.Errorf("reader is closed")
	ErrProducerFailed     = fmt.Errorf("producer failed")
	ErrStallTimeout       = fmt.Errorf("no data from producer within retry budget")
	ErrJoinTimeout        = fmt.Errorf("producer did not terminate in time")
	ErrInvariantViolation = fmt.Errorf("implementation error (invariant violation)")
)

// ProducerError keeps the cause reported by the producer
// while still matching ErrProducerFailed.
type ProducerError struct {
	Cause error
}

func (e *ProducerError) Error() string {
	return fmt.Sprintf("%v: %v", ErrProducerFailed, e.Cause)
}

func (e *ProducerError) Is(target error) bool { return target == ErrProducerFailed }

func (e *ProducerError) Unwrap() error { return e.Cause }

func NewProducerError(cause error) error {
	return &ProducerError{Cause: cause}
}

// IsReadFailure tells failures of a read apart from the regular end of data.
func IsReadFailure(err error) bool {
	return errors.Is(err, ErrProducerFailed) || errors.Is(err, ErrStallTimeout)
}
