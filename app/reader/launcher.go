package reader

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aerospike-community/asreader/app/config"
	"github.com/aerospike-community/asreader/app/reader/utils"
)

type service interface {
	start() error
	stop()
}

type launcher struct {
	services map[string]service
	logger   *zap.Logger
}

func (l *launcher) start() <-chan error {
	errChan := make(chan error, len(l.services))

	for key := range l.services {
		key := key
		go func(key string) {
			l.logger.Info("starting service", zap.String("service", key))

			// blocking call
			errChan <- l.services[key].start()
		}(key)
	}

	return errChan
}

func (l *launcher) stop() {
	for key, s := range l.services {
		l.logger.Info("stopping service", zap.String("service", key))
		s.stop()
	}
}

const (
	metricsServiceKey = "metrics"
	pprofServiceKey   = "pprof"
	shutdownTimeout   = 5 * time.Second
)

func newLauncher(logger *zap.Logger, cfg *config.TConfig, registry *prometheus.Registry) *launcher {
	l := &launcher{
		services: make(map[string]service, 2),
		logger:   logger,
	}

	if cfg.MetricsServer != nil {
		l.services[metricsServiceKey] = newServiceMetrics(
			logger.With(zap.String("service", metricsServiceKey)),
			cfg.MetricsServer,
			registry)
	}

	if cfg.PprofServer != nil {
		l.services[pprofServiceKey] = newServicePprof(
			logger.With(zap.String("service", pprofServiceKey)),
			cfg.PprofServer)
	}

	return l
}

// watch cancels the command once a service fails or an interrupting signal arrives.
func (l *launcher) watch(ctx context.Context, cancel context.CancelFunc, errChan <-chan error) {
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(signalChan)

		select {
		case err := <-errChan:
			if err != nil {
				l.logger.Error("service fatal error", zap.Error(err))
				cancel()
			}
		case sig := <-signalChan:
			l.logger.Info("interrupting signal", zap.Any("value", sig))
			cancel()
		case <-ctx.Done():
		}
	}()
}

func prepare(cmd *cobra.Command) (*config.TConfig, *zap.Logger, error) {
	configPath, err := cmd.Flags().GetString(configFlag)
	if err != nil {
		return nil, nil, fmt.Errorf("get config flag: %v", err)
	}

	cfg, err := newConfigFromPath(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("new config: %w", err)
	}

	logger, err := utils.NewLoggerFromConfig(cfg.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("new logger from config: %w", err)
	}

	return cfg, logger, nil
}
