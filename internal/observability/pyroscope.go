package observability

import (
	"github.com/grafana/pyroscope-go"

	"github.com/crimson-data/cfb-analytics/internal/config"
	"github.com/crimson-data/cfb-analytics/internal/platform/logging"
)

// StartPyroscope starts continuous profiling when an address is configured.
func StartPyroscope(cfg *config.Config, logger *logging.Logger) func() {
	if cfg.PyroscopeAddress == "" {
		logger.Debug("pyroscope disabled, no address configured")
		return func() {}
	}

	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: cfg.AppName,
		ServerAddress:   cfg.PyroscopeAddress,
		Logger:          nil,
		Tags:            map[string]string{"env": cfg.AppEnv},
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
		},
	})
	if err != nil {
		logger.Warn("pyroscope start failed", "error", err)
		return func() {}
	}

	logger.Info("pyroscope profiling started", "address", cfg.PyroscopeAddress)
	return func() {
		_ = profiler.Stop()
	}
}
