package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dentalflow/clinicadmin/pkg/config"
)

// A CLI invocation should fail fast when the shared Redis is unreachable
const (
	dialTimeout = 3 * time.Second
	ioTimeout   = 2 * time.Second
)

// Client is the Redis connection shared by the query cache, the credential
// store and the session event bus of one invocation.
type Client struct {
	client *redis.Client
	addr   string
}

// NewClient connects to cfg and verifies the connection
func NewClient(ctx context.Context, cfg *config.RedisConfig) (*Client, error) {
	addr := cfg.RedisAddr()
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		ClientName:   "clinicadmin",
		DialTimeout:  dialTimeout,
		ReadTimeout:  ioTimeout,
		WriteTimeout: ioTimeout,
		PoolSize:     4,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return &Client{client: client, addr: addr}, nil
}

// Client returns the underlying go-redis client
func (c *Client) Client() *redis.Client {
	return c.client
}

// Addr is the host:port the client is connected to
func (c *Client) Addr() string {
	return c.addr
}

func (c *Client) Close() error {
	return c.client.Close()
}
