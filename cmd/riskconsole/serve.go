package main

import (
	"github.com/spf13/cobra"

	"riskconsole/internal/logger"
	"riskconsole/internal/metrics"
	"riskconsole/internal/server"
	"riskconsole/internal/settings"
)

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the risk API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			rc := cfg.RiskConsole
			if addr != "" {
				rc.Server.Addr = addr
			}

			var m *metrics.Metrics
			if rc.Metrics.Enabled {
				m = metrics.New()
			}
			client, svc, err := newScorer(cfg, m)
			if err != nil {
				return err
			}

			srv := server.New(server.Config{
				Addr:        rc.Server.Addr,
				Mode:        rc.Server.Mode,
				MetricsPath: rc.Metrics.Path,
			}, server.Deps{
				Scorer:   svc,
				Settings: settings.NewDispatcher(client),
				Backend:  client,
				Metrics:  m,
			})

			ctx, stop := signalContext()
			defer stop()
			logger.Infof("scoring source: %s, backend: %s%s", svc.Source(), rc.Backend.BaseURL, rc.Backend.APIPrefix)
			return srv.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}
