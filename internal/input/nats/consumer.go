package nats

import (
	"context"
	"fmt"
	"time"

	nats "github.com/nats-io/nats.go"
)

// Config configures the NATS change-notification consumer.
type Config struct {
	URL          string
	Subject      string
	Queue        string
	BlockTimeout time.Duration
	Buffer       int
}

// Consumer receives incident-change notifications from a NATS subject.
type Consumer struct {
	conn         *nats.Conn
	sub          *nats.Subscription
	msgs         chan *nats.Msg
	blockTimeout time.Duration
}

// NewConsumer connects and subscribes. With a queue group set, each
// notification goes to one member of the group.
func NewConsumer(cfg Config) (*Consumer, error) {
	if cfg.Subject == "" {
		return nil, fmt.Errorf("nats subject is required")
	}
	if cfg.URL == "" {
		cfg.URL = nats.DefaultURL
	}
	if cfg.BlockTimeout <= 0 {
		cfg.BlockTimeout = 5 * time.Second
	}
	if cfg.Buffer <= 0 {
		cfg.Buffer = 256
	}

	nc, err := nats.Connect(cfg.URL, nats.Name("riskconsole"), nats.MaxReconnects(-1))
	if err != nil {
		return nil, fmt.Errorf("nats connect %s: %w", cfg.URL, err)
	}

	msgs := make(chan *nats.Msg, cfg.Buffer)
	var sub *nats.Subscription
	if cfg.Queue != "" {
		sub, err = nc.ChanQueueSubscribe(cfg.Subject, cfg.Queue, msgs)
	} else {
		sub, err = nc.ChanSubscribe(cfg.Subject, msgs)
	}
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("nats subscribe %s: %w", cfg.Subject, err)
	}

	return &Consumer{conn: nc, sub: sub, msgs: msgs, blockTimeout: cfg.BlockTimeout}, nil
}

// Pop waits up to the block timeout for one notification. It returns nil with
// no error when the wait timed out.
func (c *Consumer) Pop(ctx context.Context) ([]byte, error) {
	timer := time.NewTimer(c.blockTimeout)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, nil
	case msg, ok := <-c.msgs:
		if !ok {
			return nil, nats.ErrConnectionClosed
		}
		return msg.Data, nil
	}
}

// Close unsubscribes and closes the connection.
func (c *Consumer) Close() error {
	if c.sub != nil {
		c.sub.Unsubscribe()
	}
	if c.conn != nil {
		c.conn.Close()
	}
	return nil
}
