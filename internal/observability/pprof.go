package observability

import (
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/crimson-data/cfb-analytics/internal/config"
	"github.com/crimson-data/cfb-analytics/internal/platform/logging"
)

// StartPprof serves the pprof endpoints on a side port when configured.
func StartPprof(cfg *config.Config, logger *logging.Logger) {
	if cfg.PprofAddr == "" {
		return
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	server := &http.Server{
		Addr:              cfg.PprofAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("pprof server listening", "addr", cfg.PprofAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Warn("pprof server stopped", "error", err)
		}
	}()
}
