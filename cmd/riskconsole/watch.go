package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"riskconsole/internal/feed"
	"riskconsole/internal/logger"
	"riskconsole/internal/metrics"
)

func newWatchCmd() *cobra.Command {
	var once bool
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Publish risk events as incidents change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			fc := cfg.RiskConsole.Feed

			m := metrics.New()
			_, svc, err := newScorer(cfg, m)
			if err != nil {
				return err
			}
			writer, err := newFeedWriter(fc.Output)
			if err != nil {
				return err
			}

			ctx, stop := signalContext()
			defer stop()

			if once {
				f, err := feed.New(feed.Config{}, nopSource{}, svc, writer, m)
				if err != nil {
					writer.Close()
					return err
				}
				defer f.Close()
				n, err := f.Once(ctx)
				if err != nil {
					return err
				}
				logger.Infof("wrote %d risk events", n)
				return nil
			}

			source, err := newFeedSource(fc.Input)
			if err != nil {
				writer.Close()
				return err
			}
			f, err := feed.New(feed.Config{
				Workers:       fc.Workers,
				BatchSize:     fc.BatchSize,
				FlushInterval: fc.FlushInterval,
				Schedule:      fc.Schedule,
			}, source, svc, writer, m)
			if err != nil {
				source.Close()
				writer.Close()
				return err
			}
			defer f.Close()

			if err := f.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&once, "once", false, "rescore all open incidents once and exit")
	return cmd
}

// nopSource never yields notifications.
type nopSource struct{}

func (nopSource) Pop(ctx context.Context) ([]byte, error) { return nil, nil }

func (nopSource) Close() error { return nil }
