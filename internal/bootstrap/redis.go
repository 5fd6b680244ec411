package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/minbak/minbak-web/config"
)

// ConnectRedis connects to the Redis deployment holding sessions. Cluster wins over sentinel,
// and a single URI is used when neither is enabled.
//
//nolint:ireturn // the concrete client depends on the configured topology.
func ConnectRedis(cfg DatabaseConfig) (redis.UniversalClient, error) {
	opts, desc, err := redisOptions(cfg.RedisConfig)
	if err != nil {
		return nil, err
	}
	client := redis.NewUniversalClient(opts)

	ping := func(ctx context.Context) error { return client.Ping(ctx).Err() }
	if err := verifyConnection("redis", ping, client.Close); err != nil {
		return nil, err
	}
	if cfg.Logger != nil {
		cfg.Logger.Info("redis connected", "addr", desc)
	}
	return client, nil
}

// redisOptions maps the session store settings onto go-redis options. The description never
// carries credentials.
func redisOptions(cfg config.RedisConfig) (*redis.UniversalOptions, string, error) {
	switch {
	case cfg.UseCluster:
		return clusterOptions(cfg)
	case cfg.UseSentinel:
		nodes := trimAll(cfg.SentinelNodes)
		if len(nodes) == 0 {
			return nil, "", errors.New("redis sentinel mode needs at least one sentinel node")
		}
		return &redis.UniversalOptions{
			MasterName:       cfg.SentinelMasterName,
			Addrs:            nodes,
			Password:         cfg.Password,
			SentinelPassword: cfg.SentinelPassword,
			DB:               cfg.DB,
		}, "sentinel:" + cfg.SentinelMasterName, nil
	default:
		uri := strings.TrimSpace(cfg.URI)
		if uri == "" {
			return nil, "", errors.New("redis URI is required")
		}
		opts := &redis.UniversalOptions{Addrs: []string{uri}, Password: cfg.Password, DB: cfg.DB}
		if isRedisURL(uri) {
			if err := applyRedisURL(opts, uri); err != nil {
				return nil, "", err
			}
		}
		return opts, opts.Addrs[0], nil
	}
}

func clusterOptions(cfg config.RedisConfig) (*redis.UniversalOptions, string, error) {
	opts := &redis.UniversalOptions{
		Addrs:         trimAll(cfg.ClusterNodes),
		Password:      cfg.Password,
		IsClusterMode: true,
	}
	if len(opts.Addrs) == 0 {
		uri := strings.TrimSpace(cfg.URI)
		switch {
		case uri == "":
		case isRedisURL(uri):
			if err := applyRedisURL(opts, uri); err != nil {
				return nil, "", err
			}
			// Cluster mode has no logical databases.
			opts.DB = 0
		default:
			opts.Addrs = []string{uri}
		}
	}
	if len(opts.Addrs) == 0 {
		return nil, "", errors.New("redis cluster mode needs at least one node address")
	}
	return opts, "cluster:" + strings.Join(opts.Addrs, ","), nil
}

// applyRedisURL copies address, credentials, database and TLS settings from a redis:// or
// rediss:// URL. Credentials in the URL override the configured password.
func applyRedisURL(opts *redis.UniversalOptions, raw string) error {
	parsed, err := redis.ParseURL(raw)
	if err != nil {
		return fmt.Errorf("parse redis url: %w", err)
	}
	opts.Addrs = []string{parsed.Addr}
	opts.Username = parsed.Username
	if parsed.Password != "" {
		opts.Password = parsed.Password
	}
	opts.DB = parsed.DB
	opts.TLSConfig = parsed.TLSConfig
	return nil
}

func trimAll(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func isRedisURL(value string) bool {
	return strings.HasPrefix(value, "redis://") || strings.HasPrefix(value, "rediss://")
}
