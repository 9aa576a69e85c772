// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/techhub/internal/platform/constants"
)

// RevocationStore keeps, per member, the instant before which access tokens are rejected.
//
// The marker lives as long as an access token does; once it expires every token it
// could reject has expired as well.
type RevocationStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRevocationStore creates a Redis-backed revocation store.
func NewRevocationStore(client redis.Cmdable, accessTTL time.Duration) *RevocationStore {
	return &RevocationStore{client: client, ttl: accessTTL}
}

func revocationKey(userID int64) string {
	return constants.RedisPrefixRevokedBefore + strconv.FormatInt(userID, 10)
}

/*
Revoke invalidates every token of userID issued up to now.

Token issue times have whole-second precision, so the marker is rounded up to the
next second. A token issued in the same second as the change is rejected too.

Parameters:
  - context: context.Context
  - userID: int64

Returns:
  - error: Connectivity errors
*/
func (store *RevocationStore) Revoke(context context.Context, userID int64) error {
	marker := time.Now().Add(time.Second).Truncate(time.Second)

	if err := store.client.Set(context, revocationKey(userID), marker.Unix(), store.ttl).Err(); err != nil {
		return fmt.Errorf("redis_revocation_set_failed: %w", err)
	}
	return nil
}

// RevokedBefore returns the marker for userID, or the zero time when none is set.
func (store *RevocationStore) RevokedBefore(context context.Context, userID int64) (time.Time, error) {
	seconds, err := store.client.Get(context, revocationKey(userID)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("redis_revocation_get_failed: %w", err)
	}

	return time.Unix(seconds, 0), nil
}
