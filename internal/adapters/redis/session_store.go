// Package redis holds the Redis-backed adapters of minbak.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	domainauth "github.com/minbak/minbak-web/internal/domain/auth"
	"github.com/redis/go-redis/v9"
)

// DefaultSessionPrefix namespaces session keys.
const DefaultSessionPrefix = "minbak:session:"

// ErrNotFound is returned for unknown or expired sessions.
var ErrNotFound = domainauth.ErrSessionNotFound

// SessionStoreOptions configures a SessionStore.
type SessionStoreOptions struct {
	Client redis.UniversalClient
	Prefix string           // defaults to DefaultSessionPrefix
	Now    func() time.Time // defaults to time.Now
}

// SessionStore keeps sessions as JSON values whose key TTL follows Session.ExpiresAt.
type SessionStore struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

// NewSessionStore creates a session store over client with the default prefix.
func NewSessionStore(client redis.UniversalClient) *SessionStore {
	return NewSessionStoreWithOptions(SessionStoreOptions{Client: client})
}

// NewSessionStoreWithOptions creates a session store from opts.
func NewSessionStoreWithOptions(opts SessionStoreOptions) *SessionStore {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = DefaultSessionPrefix
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &SessionStore{client: opts.Client, prefix: prefix, now: now}
}

func (s *SessionStore) key(id string) string { return s.prefix + id }

// Save stores sess until its expiry. Already expired sessions are refused.
func (s *SessionStore) Save(ctx context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	if sess.UserID == "" {
		return errors.New("session user ID cannot be empty")
	}

	ttl := sess.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return errors.New("session is expired")
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if err := s.client.Set(ctx, s.key(sess.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Get loads a session. Missing keys and sessions past ExpiresAt both yield ErrNotFound;
// expired keys are left for Redis to evict.
func (s *SessionStore) Get(ctx context.Context, id string) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, ErrNotFound
	}

	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.Session{}, ErrNotFound
		}
		return domainauth.Session{}, fmt.Errorf("redis get: %w", err)
	}

	var sess domainauth.Session
	if unmarshalErr := json.Unmarshal(data, &sess); unmarshalErr != nil {
		return domainauth.Session{}, fmt.Errorf("unmarshal session: %w", unmarshalErr)
	}
	if sess.Expired(s.now()) {
		return domainauth.Session{}, ErrNotFound
	}

	return sess, nil
}

// Delete removes a session. Deleting an unknown id is not an error.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

const revokeScanCount = 500

// Revoke deletes every session under the store prefix, or only those of userID when it is set.
// With dryRun the matching sessions are counted but kept.
func (s *SessionStore) Revoke(ctx context.Context, userID string, dryRun bool) (int, error) {
	// Cluster masters are scanned concurrently.
	var removed atomic.Int64
	err := s.forEachNode(ctx, func(ctx context.Context, node redis.UniversalClient) error {
		return s.revokeOnNode(ctx, node, userID, dryRun, &removed)
	})
	return int(removed.Load()), err
}

// revokeOnNode scans one node. Keys are read and deleted through that node so a cluster
// client never redirects them elsewhere.
func (s *SessionStore) revokeOnNode(
	ctx context.Context,
	node redis.UniversalClient,
	userID string,
	dryRun bool,
	removed *atomic.Int64,
) error {
	iter := node.Scan(ctx, 0, s.prefix+"*", revokeScanCount).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		if userID != "" {
			owner, err := ownerOf(ctx, node, key)
			if err != nil {
				return err
			}
			if owner != userID {
				continue
			}
		}
		if !dryRun {
			if err := node.Del(ctx, key).Err(); err != nil {
				return fmt.Errorf("redis del: %w", err)
			}
		}
		removed.Add(1)
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan: %w", err)
	}
	return nil
}

func ownerOf(ctx context.Context, node redis.UniversalClient, key string) (string, error) {
	data, err := node.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("redis get: %w", err)
	}
	var sess domainauth.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return "", nil //nolint:nilerr // unreadable values do not belong to any user
	}
	return sess.UserID, nil
}

// forEachNode runs fn against every master of a cluster, or once against a single-node client.
func (s *SessionStore) forEachNode(ctx context.Context, fn func(context.Context, redis.UniversalClient) error) error {
	if cluster, ok := s.client.(*redis.ClusterClient); ok {
		return cluster.ForEachMaster(ctx, func(ctx context.Context, node *redis.Client) error {
			return fn(ctx, node)
		})
	}
	return fn(ctx, s.client)
}
