package utils

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"medassist/models"
)

var ErrSessionNotFound = errors.New("session not found")

func sessionKey(token string) string {
	return "session:" + token
}

func userSessionsKey(userID string) string {
	return "user_sessions:" + userID
}

// OpenRedisPool initializes a Redis connection pool
func OpenRedisPool(ctx context.Context, dsn string) (*redis.Client, error) {
	opt, err := redis.ParseURL(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	opt.PoolSize = 100
	opt.MinIdleConns = 2
	opt.DialTimeout = 5 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// StoreSession saves a session hash with a TTL and indexes it under its user.
func StoreSession(ctx context.Context, client *redis.Client, session models.Session, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	sessionMap := map[string]any{
		"user_id":       session.UserID,
		"username":      session.Username,
		"created_at":    session.CreatedAt,
		"expires_at":    session.ExpiresAt,
		"last_activity": session.LastActivity,
		"csrf_token":    session.CSRFToken,
		"user_agent":    session.UserAgent,
		"ip_address":    session.IPAddress,
	}

	key := sessionKey(session.SessionToken)
	_, err := client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, sessionMap)
		pipe.Expire(ctx, key, ttl)
		pipe.SAdd(ctx, userSessionsKey(session.UserID), key)
		pipe.Expire(ctx, userSessionsKey(session.UserID), ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// GetSession retrieves session details from Redis
func GetSession(ctx context.Context, client *redis.Client, sessionToken string) (*models.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	data, err := client.HGetAll(ctx, sessionKey(sessionToken)).Result()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrSessionNotFound
	}

	return &models.Session{
		SessionToken: sessionToken,
		UserID:       data["user_id"],
		Username:     data["username"],
		CreatedAt:    data["created_at"],
		ExpiresAt:    data["expires_at"],
		LastActivity: data["last_activity"],
		CSRFToken:    data["csrf_token"],
		UserAgent:    data["user_agent"],
		IPAddress:    data["ip_address"],
	}, nil
}

// DeleteSession removes a single session and its reference in the user
// index. Deleting a session that no longer exists is not an error.
func DeleteSession(ctx context.Context, client *redis.Client, sessionToken string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	key := sessionKey(sessionToken)
	userID, err := client.HGet(ctx, key, "user_id").Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load session owner: %w", err)
	}

	_, err = client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SRem(ctx, userSessionsKey(userID), key)
		pipe.Del(ctx, key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// UpdateLastActivityRedis updates the last activity timestamp of a session
func UpdateLastActivityRedis(ctx context.Context, client *redis.Client, sessionToken string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return client.HSet(ctx, sessionKey(sessionToken), "last_activity", time.Now().Format(time.RFC3339)).Err()
}

// ValidateSession returns the session behind sessionToken if it exists and
// its expires_at is still in the future.
func ValidateSession(ctx context.Context, client *redis.Client, sessionToken string) (*models.Session, error) {
	session, err := GetSession(ctx, client, sessionToken)
	if err != nil {
		return nil, err
	}

	expiresAt, err := time.Parse(time.RFC3339, session.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("session expiry: %w", err)
	}
	if !time.Now().Before(expiresAt) {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// CountUserSessions returns the number of live sessions indexed for a user.
func CountUserSessions(ctx context.Context, client *redis.Client, userID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return client.SCard(ctx, userSessionsKey(userID)).Result()
}
