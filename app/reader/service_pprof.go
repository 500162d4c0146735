package reader

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/pprof"

	"go.uber.org/zap"

	"github.com/aerospike-community/asreader/app/config"
	"github.com/aerospike-community/asreader/app/reader/utils"
)

type servicePprof struct {
	httpServer *http.Server
	logger     *zap.Logger
}

func (s *servicePprof) start() error {
	s.logger.Debug("starting HTTP server", zap.String("address", s.httpServer.Addr))

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server listen and serve: %w", err)
	}

	return nil
}

func (s *servicePprof) stop() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		s.logger.Error("shutdown http server", zap.Error(err))
	}
}

func newPprofHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	return mux
}

func newServicePprof(logger *zap.Logger, cfg *config.TPprofServerConfig) service {
	httpServer := &http.Server{
		Addr:    utils.EndpointToString(cfg.Endpoint),
		Handler: newPprofHandler(),
	}

	logger.Warn("server will use insecure connections")

	return &servicePprof{
		httpServer: httpServer,
		logger:     logger,
	}
}
