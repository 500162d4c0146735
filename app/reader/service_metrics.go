package reader

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/aerospike-community/asreader/app/config"
	"github.com/aerospike-community/asreader/app/reader/utils"
)

type serviceMetrics struct {
	httpServer *http.Server
	logger     *zap.Logger
}

func (s *serviceMetrics) start() error {
	s.logger.Debug("starting HTTP metrics server", zap.String("address", s.httpServer.Addr))

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http metrics server listen and serve: %w", err)
	}

	return nil
}

func (s *serviceMetrics) stop() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		s.logger.Error("shutdown http metrics server", zap.Error(err))
	}
}

func newMetricsHandler(registry *prometheus.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))

	return mux
}

func newServiceMetrics(logger *zap.Logger, cfg *config.TMetricsServerConfig, registry *prometheus.Registry) service {
	httpServer := &http.Server{
		Addr:    utils.EndpointToString(cfg.Endpoint),
		Handler: newMetricsHandler(registry),
	}

	logger.Warn("metrics server will use insecure connections")

	return &serviceMetrics{
		httpServer: httpServer,
		logger:     logger,
	}
}
