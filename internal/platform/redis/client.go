// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package redis opens the client for short-lived state.

The only data kept there today is the per-user token revocation marker, written
after a role change or deactivation and read on every authenticated request. A
missing or unreachable Redis therefore weakens revocation but never blocks sign-in.
*/
package redis

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	dialTimeout = 3 * time.Second
	ioTimeout   = 500 * time.Millisecond
	pingTimeout = 2 * time.Second
)

// Settings selects the server and sizes the pool. A zero PoolSize keeps the go-redis default.
type Settings struct {
	URL      string
	PoolSize int
}

// NewClient parses the URL, applies short I/O deadlines and pings once.
//
// The revocation lookup sits on the request path, so reads fail fast rather than
// holding the request.
func NewClient(context stdctx.Context, settings Settings, logger *slog.Logger) (*redis.Client, error) {
	options, err := redis.ParseURL(settings.URL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}

	if settings.PoolSize > 0 {
		options.PoolSize = settings.PoolSize
		options.MinIdleConns = max(1, settings.PoolSize/5)
	}
	options.DialTimeout = dialTimeout
	options.ReadTimeout = ioTimeout
	options.WriteTimeout = ioTimeout

	client := redis.NewClient(options)
	if err := Ping(context, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("redis_client_connected",
		slog.String("addr", options.Addr),
		slog.Int("db", options.DB),
		slog.Int("pool_size", options.PoolSize),
	)
	return client, nil
}

// Ping checks the server within a short deadline. Used at startup and by /ready.
func Ping(context stdctx.Context, client redis.Cmdable) error {
	pingCtx, cancel := stdctx.WithTimeout(context, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis: ping failed: %w", err)
	}
	return nil
}
