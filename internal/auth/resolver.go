package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/pratamawijaya/teashop/internal/redisx"
	"github.com/redis/go-redis/v9"
)

var ErrUnauthorized = errors.New("unauthorized")

// Principal is the authenticated identity attached to a request.
type Principal struct {
	UserID string
	Admin  bool
}

// Resolver turns a bearer token into a Principal. Token issuance lives elsewhere;
// this side only reads.
type Resolver interface {
	Resolve(ctx context.Context, token string) (Principal, error)
}

// RedisResolver looks tokens up in the session store written by the auth service.
type RedisResolver struct {
	RDB *redis.Client
}

func (r *RedisResolver) Resolve(ctx context.Context, token string) (Principal, error) {
	if token == "" {
		return Principal{}, ErrUnauthorized
	}
	vals, err := r.RDB.HGetAll(ctx, fmt.Sprintf(redisx.KeySession, token)).Result()
	if err != nil {
		return Principal{}, fmt.Errorf("session lookup: %w", err)
	}
	uid := vals["user_id"]
	if uid == "" {
		return Principal{}, ErrUnauthorized
	}
	return Principal{UserID: uid, Admin: vals["admin"] == "1"}, nil
}
