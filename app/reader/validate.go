package reader

import (
	"fmt"
	"math"

	"github.com/aerospike-community/asreader/app/api"
	"github.com/aerospike-community/asreader/app/config"
)

func validateConfig(c *config.TConfig) error {
	if err := validateLoggerConfig(c.Logger); err != nil {
		return fmt.Errorf("validate `logger`: %w", err)
	}

	if err := validateReaderConfig(c.Reader); err != nil {
		return fmt.Errorf("validate `reader`: %w", err)
	}

	if err := validateAerospikeConfig(c.Aerospike); err != nil {
		return fmt.Errorf("validate `aerospike`: %w", err)
	}

	if err := validateMetricsServerConfig(c.MetricsServer); err != nil {
		return fmt.Errorf("validate `metrics_server`: %w", err)
	}

	if err := validatePprofServerConfig(c.PprofServer); err != nil {
		return fmt.Errorf("validate `pprof_server`: %w", err)
	}

	if err := validateReadLimit(c.ReadLimit); err != nil {
		return fmt.Errorf("validate `read_limit`: %w", err)
	}

	if err := validateOutputConfig(c.Output); err != nil {
		return fmt.Errorf("validate `output`: %w", err)
	}

	return nil
}

func validateLoggerConfig(c *config.TLoggerConfig) error {
	switch c.GetLogLevel() {
	case config.ELogLevel_TRACE, config.ELogLevel_DEBUG, config.ELogLevel_INFO,
		config.ELogLevel_WARN, config.ELogLevel_ERROR, config.ELogLevel_FATAL:
		return nil
	default:
		return fmt.Errorf("invalid value of field `log_level`: %v", c.LogLevel)
	}
}

func validateReaderConfig(c *config.TReaderConfig) error {
	if c == nil {
		return fmt.Errorf("required field is missing")
	}

	if c.QueueCapacity < 1 {
		return fmt.Errorf("invalid value of field `queue_capacity`: %v", c.QueueCapacity)
	}

	if c.StartPollInterval <= 0 {
		return fmt.Errorf("invalid value of field `start_poll_interval`: %v", c.StartPollInterval)
	}

	if c.StallRetryInterval <= 0 {
		return fmt.Errorf("invalid value of field `stall_retry_interval`: %v", c.StallRetryInterval)
	}

	if c.StallMaxTrials < 1 {
		return fmt.Errorf("invalid value of field `stall_max_trials`: %v", c.StallMaxTrials)
	}

	if c.JoinTimeout < 0 {
		return fmt.Errorf("invalid value of field `join_timeout`: %v", c.JoinTimeout)
	}

	return nil
}

func validateAerospikeConfig(c *config.TAerospikeConfig) error {
	if c == nil {
		return fmt.Errorf("required field is missing")
	}

	if c.ConnectTimeout <= 0 {
		return fmt.Errorf("invalid value of field `connect_timeout`: %v", c.ConnectTimeout)
	}

	if c.TotalTimeout < 0 {
		return fmt.Errorf("invalid value of field `total_timeout`: %v", c.TotalTimeout)
	}

	if c.Password != "" && c.User == "" {
		return fmt.Errorf("field `password` requires field `user`")
	}

	return nil
}

func validateMetricsServerConfig(c *config.TMetricsServerConfig) error {
	if c == nil {
		// It's OK to run without metrics server
		return nil
	}

	if err := validateEndpoint(c.Endpoint); err != nil {
		return fmt.Errorf("validate `endpoint`: %w", err)
	}

	return nil
}

func validatePprofServerConfig(c *config.TPprofServerConfig) error {
	if c == nil {
		// It's OK to disable profiler
		return nil
	}

	if err := validateEndpoint(c.Endpoint); err != nil {
		return fmt.Errorf("validate `endpoint`: %w", err)
	}

	return nil
}

func validateReadLimit(c *config.TReadLimit) error {
	if c == nil {
		// It's OK to read splits completely
		return nil
	}

	// but if it's not nil, one must set limits explicitly
	if c.GetRows() == 0 {
		return fmt.Errorf("invalid value of field `rows`")
	}

	return nil
}

func validateOutputConfig(c *config.TOutputConfig) error {
	if c == nil {
		return fmt.Errorf("required field is missing")
	}

	switch c.Format {
	case config.EOutputFormat_JSON, config.EOutputFormat_ARROW:
	default:
		return fmt.Errorf("invalid value of field `format`: %v", c.Format)
	}

	if c.RowsPerPage < 1 {
		return fmt.Errorf("invalid value of field `rows_per_page`: %v", c.RowsPerPage)
	}

	return nil
}

func validateEndpoint(c *api.TEndpoint) error {
	if c == nil {
		return fmt.Errorf("required field is missing")
	}

	if c.Host == "" {
		return fmt.Errorf("invalid value of field `host`: %v", c.Host)
	}

	if c.Port == 0 || c.Port > math.MaxUint16 {
		return fmt.Errorf("invalid value of field `port`: %v", c.Port)
	}

	return nil
}
