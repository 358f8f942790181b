// Package bentofund parses funding service flags and launches the service.
package bentofund

import (
	"context"
	"flag"

	"github.com/sarangparikh22/bentofund/internal/funding/app"
	entrypoint "github.com/sarangparikh22/bentofund/internal/platform/cmd"
)

// Config holds funding command configuration.
type Config struct {
	Port int `env:"BENTOFUND_PORT" envDefault:"8091"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The funding gRPC server port")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the funding gRPC API service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceFunding, func(context.Context) error {
		return app.Run(ctx, cfg.Port)
	})
}
