package producer

import (
	"fmt"
	"math"

	"github.com/aerospike-community/asreader/app/api"
	"github.com/aerospike-community/asreader/app/reader/utils"
)

func ValidateSplit(split *api.TSplit) error {
	if split == nil {
		return fmt.Errorf("empty split: %w", utils.ErrInvalidSplit)
	}

	if err := validateEndpoint(split.Endpoint); err != nil {
		return fmt.Errorf("validate `endpoint`: %w", err)
	}

	if split.Namespace == "" {
		return fmt.Errorf("empty field `namespace`: %w", utils.ErrInvalidSplit)
	}

	switch split.Operation {
	case api.EOperation_SCAN:
		if split.Node == "" {
			return fmt.Errorf("empty field `node` for scan: %w", utils.ErrInvalidSplit)
		}
	case api.EOperation_RANGE_QUERY:
		if err := validateRange(split.Range); err != nil {
			return fmt.Errorf("validate `range`: %w", err)
		}
	default:
		return fmt.Errorf("invalid value of field `operation`: %v: %w", split.Operation, utils.ErrInvalidSplit)
	}

	return nil
}

func validateEndpoint(ep *api.TEndpoint) error {
	if ep == nil {
		return fmt.Errorf("required field is missing: %w", utils.ErrInvalidSplit)
	}

	if ep.Host == "" {
		return fmt.Errorf("invalid value of field `host`: %v: %w", ep.Host, utils.ErrInvalidSplit)
	}

	if ep.Port == 0 || ep.Port > math.MaxUint16 {
		return fmt.Errorf("invalid value of field `port`: %v: %w", ep.Port, utils.ErrInvalidSplit)
	}

	return nil
}

func validateRange(r *api.TRangeFilter) error {
	if r == nil {
		return fmt.Errorf("required field is missing: %w", utils.ErrInvalidSplit)
	}

	if r.Bin == "" {
		return fmt.Errorf("empty field `bin`: %w", utils.ErrInvalidSplit)
	}

	if r.Begin > r.End {
		return fmt.Errorf("`begin` %d is greater than `end` %d: %w", r.Begin, r.End, utils.ErrInvalidSplit)
	}

	return nil
}
