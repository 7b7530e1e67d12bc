package main

import (
	"fmt"
	"strings"

	"riskconsole/config"
	"riskconsole/internal/backend"
	"riskconsole/internal/feed"
	inputnats "riskconsole/internal/input/nats"
	inputredis "riskconsole/internal/input/redis"
	"riskconsole/internal/metrics"
	"riskconsole/internal/output/scoreclickhouse"
	"riskconsole/internal/output/scorehttp"
	"riskconsole/internal/output/scorejson"
	"riskconsole/internal/risk"
	"riskconsole/internal/scoring"
)

func newBackend(cfg *config.Config, m *metrics.Metrics) (*backend.Client, error) {
	bc := cfg.RiskConsole.Backend
	return backend.NewClient(backend.Config{
		BaseURL:   bc.BaseURL,
		APIPrefix: bc.APIPrefix,
		Timeout:   bc.Timeout,
		Headers:   bc.Headers,
		RateLimit: bc.RateLimit,
		Burst:     bc.Burst,
		Metrics:   m,
	})
}

func newScorer(cfg *config.Config, m *metrics.Metrics) (*backend.Client, *scoring.Service, error) {
	client, err := newBackend(cfg, m)
	if err != nil {
		return nil, nil, err
	}
	svc, err := scoring.New(client, risk.NewEngine(), cfg.RiskConsole.Scoring.Source, m)
	if err != nil {
		return nil, nil, err
	}
	return client, svc, nil
}

func newFeedSource(cfg config.FeedInputConfig) (feed.Source, error) {
	switch strings.ToLower(cfg.Mode) {
	case "redis":
		return inputredis.NewConsumer(inputredis.Config{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			Key:          cfg.Redis.Key,
			BlockTimeout: cfg.Redis.BlockTimeout,
		})
	case "nats":
		return inputnats.NewConsumer(inputnats.Config{
			URL:     cfg.NATS.URL,
			Subject: cfg.NATS.Subject,
			Queue:   cfg.NATS.Queue,
		})
	default:
		return nil, fmt.Errorf("unsupported feed input mode %q", cfg.Mode)
	}
}

func newFeedWriter(cfg config.FeedOutputConfig) (feed.Writer, error) {
	switch strings.ToLower(cfg.Mode) {
	case "file":
		return scorejson.NewWriter(cfg.File.Path)
	case "http":
		return scorehttp.NewWriter(scorehttp.Config{
			URL:             cfg.HTTP.URL,
			Timeout:         cfg.HTTP.Timeout,
			Headers:         cfg.HTTP.Headers,
			BandChangesOnly: cfg.HTTP.BandChangesOnly,
		})
	case "clickhouse":
		ch := cfg.ClickHouse
		return scoreclickhouse.NewWriter(scoreclickhouse.Config{
			URL:      ch.URL,
			Database: ch.Database,
			Table:    ch.Table,
			Username: ch.Username,
			Password: ch.Password,
			Timeout:  ch.Timeout,
			Headers:  ch.Headers,
		})
	default:
		return nil, fmt.Errorf("unsupported feed output mode %q", cfg.Mode)
	}
}
