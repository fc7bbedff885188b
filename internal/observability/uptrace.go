package observability

import (
	"context"

	"github.com/uptrace/uptrace-go/uptrace"

	"github.com/crimson-data/cfb-analytics/internal/config"
	"github.com/crimson-data/cfb-analytics/internal/platform/logging"
)

// SetupUptrace wires the OpenTelemetry exporters when a DSN is configured.
// Without one, tracing stays on the no-op globals and the returned shutdown
// does nothing.
func SetupUptrace(cfg *config.Config, logger *logging.Logger) func(context.Context) error {
	if cfg.UptraceDSN == "" {
		logger.Debug("uptrace disabled, no dsn configured")
		return func(context.Context) error { return nil }
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(cfg.UptraceDSN),
		uptrace.WithServiceName(cfg.AppName),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
	)
	logger.Info("uptrace configured", "service", cfg.AppName, "env", cfg.AppEnv)

	return uptrace.Shutdown
}
