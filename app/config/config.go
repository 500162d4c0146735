package config

import (
	"time"

	"github.com/aerospike-community/asreader/app/api"
)

type ELogLevel string

const (
	ELogLevel_TRACE ELogLevel = "TRACE"
	ELogLevel_DEBUG ELogLevel = "DEBUG"
	ELogLevel_INFO  ELogLevel = "INFO"
	ELogLevel_WARN  ELogLevel = "WARN"
	ELogLevel_ERROR ELogLevel = "ERROR"
	ELogLevel_FATAL ELogLevel = "FATAL"
)

type TLoggerConfig struct {
	LogLevel ELogLevel `yaml:"log_level"`
}

func (c *TLoggerConfig) GetLogLevel() ELogLevel {
	if c == nil || c.LogLevel == "" {
		return ELogLevel_INFO
	}

	return c.LogLevel
}

// TReaderConfig controls the hand-off between the producer and the pulling caller.
type TReaderConfig struct {
	// Capacity of the transfer channel; the producer blocks when it is full
	QueueCapacity int `yaml:"queue_capacity"`
	// How often the reader reports that it is still waiting for the producer to start
	StartPollInterval time.Duration `yaml:"start_poll_interval"`
	// Single wait while the channel is empty and the producer is still running
	StallRetryInterval time.Duration `yaml:"stall_retry_interval"`
	// Number of waits before the reader gives up on a stalled producer
	StallMaxTrials int `yaml:"stall_max_trials"`
	// Upper bound on Close waiting for the producer; zero means wait forever
	JoinTimeout time.Duration `yaml:"join_timeout"`
	// Report producer failures and stalls as a plain end of data
	CollapseFailures bool `yaml:"collapse_failures"`
}

type TAerospikeConfig struct {
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	// Socket-level timeout for scans and queries; zero disables it
	TotalTimeout time.Duration `yaml:"total_timeout"`
	User         string        `yaml:"user"`
	Password     string        `yaml:"password"`
}

type TMetricsServerConfig struct {
	Endpoint *api.TEndpoint `yaml:"endpoint"`
}

type TPprofServerConfig struct {
	Endpoint *api.TEndpoint `yaml:"endpoint"`
}

// TReadLimit caps the number of records a single dump writes.
type TReadLimit struct {
	Rows uint64 `yaml:"rows"`
}

func (c *TReadLimit) GetRows() uint64 {
	if c == nil {
		return 0
	}

	return c.Rows
}

type EOutputFormat string

const (
	EOutputFormat_JSON  EOutputFormat = "json"
	EOutputFormat_ARROW EOutputFormat = "arrow"
)

type TOutputConfig struct {
	Format      EOutputFormat `yaml:"format"`
	RowsPerPage int           `yaml:"rows_per_page"`
}

type TConfig struct {
	Logger        *TLoggerConfig        `yaml:"logger"`
	Reader        *TReaderConfig        `yaml:"reader"`
	Aerospike     *TAerospikeConfig     `yaml:"aerospike"`
	MetricsServer *TMetricsServerConfig `yaml:"metrics_server"`
	PprofServer   *TPprofServerConfig   `yaml:"pprof_server"`
	ReadLimit     *TReadLimit           `yaml:"read_limit"`
	Output        *TOutputConfig        `yaml:"output"`
}

const (
	DefaultQueueCapacity      = 16 * 1024
	DefaultStartPollInterval  = 100 * time.Millisecond
	DefaultStallRetryInterval = time.Second
	DefaultStallMaxTrials     = 5
	DefaultConnectTimeout     = 30 * time.Second
	DefaultRowsPerPage        = 1000
)

func NewDefaultReaderConfig() *TReaderConfig {
	return &TReaderConfig{
		QueueCapacity:      DefaultQueueCapacity,
		StartPollInterval:  DefaultStartPollInterval,
		StallRetryInterval: DefaultStallRetryInterval,
		StallMaxTrials:     DefaultStallMaxTrials,
	}
}

// NewDefaultConfig returns a configuration usable without any file.
func NewDefaultConfig() *TConfig {
	return &TConfig{
		Logger: &TLoggerConfig{LogLevel: ELogLevel_INFO},
		Reader: NewDefaultReaderConfig(),
		Aerospike: &TAerospikeConfig{
			ConnectTimeout: DefaultConnectTimeout,
		},
		Output: &TOutputConfig{
			Format:      EOutputFormat_JSON,
			RowsPerPage: DefaultRowsPerPage,
		},
	}
}

// FillDefaults sets every zero field of cfg to its default value.
func FillDefaults(cfg *TConfig) {
	def := NewDefaultConfig()

	if cfg.Logger == nil {
		cfg.Logger = def.Logger
	}

	if cfg.Reader == nil {
		cfg.Reader = def.Reader
	} else {
		FillReaderDefaults(cfg.Reader)
	}

	if cfg.Aerospike == nil {
		cfg.Aerospike = def.Aerospike
	} else if cfg.Aerospike.ConnectTimeout == 0 {
		cfg.Aerospike.ConnectTimeout = def.Aerospike.ConnectTimeout
	}

	if cfg.Output == nil {
		cfg.Output = def.Output
	} else {
		if cfg.Output.Format == "" {
			cfg.Output.Format = def.Output.Format
		}

		if cfg.Output.RowsPerPage == 0 {
			cfg.Output.RowsPerPage = def.Output.RowsPerPage
		}
	}
}

// FillReaderDefaults sets every zero field of cfg to its default value.
func FillReaderDefaults(cfg *TReaderConfig) {
	if cfg.QueueCapacity == 0 {
		cfg.QueueCapacity = DefaultQueueCapacity
	}

	if cfg.StartPollInterval == 0 {
		cfg.StartPollInterval = DefaultStartPollInterval
	}

	if cfg.StallRetryInterval == 0 {
		cfg.StallRetryInterval = DefaultStallRetryInterval
	}

	if cfg.StallMaxTrials == 0 {
		cfg.StallMaxTrials = DefaultStallMaxTrials
	}
}
