package cache

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"labor-board/internal/config"
)

var ErrUnavailable = errors.New("redis unavailable")

// Redis backs the short-lived OTP codes of the phone sign-in flow. When the
// server comes up without a reachable Redis the client is dropped and every
// call reports ErrUnavailable instead of failing the whole process.
type Redis struct {
	client *redis.Client
	logger *log.Logger

	warnedUnavailable atomic.Bool
}

func NewRedis(cfg config.RedisConfig, logger *log.Logger) *Redis {
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "localhost"
	}
	port := strings.TrimSpace(cfg.Port)
	if port == "" {
		port = "6379"
	}

	addr := fmt.Sprintf("%s:%s", host, port)
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		if logger != nil {
			logger.Printf("[Cache] Redis unavailable, OTP sign-in disabled: %v", err)
		}
		_ = client.Close()
		return &Redis{client: nil, logger: logger}
	}

	return &Redis{client: client, logger: logger}
}

func (r *Redis) isUnavailable() bool {
	return r == nil || r.client == nil
}

func (r *Redis) warnUnavailableOnce(err error) {
	if r == nil || r.logger == nil {
		return
	}
	if r.warnedUnavailable.CompareAndSwap(false, true) {
		r.logger.Printf("[Cache] Redis unavailable: %v", err)
	}
}

func (r *Redis) Ping(ctx context.Context) error {
	if r.isUnavailable() {
		return ErrUnavailable
	}
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	if r.isUnavailable() {
		return nil
	}
	return r.client.Close()
}

// SaveCode stores the OTP code for a phone number, replacing any previous
// one, with the given time to live.
func (r *Redis) SaveCode(ctx context.Context, phone, code string, ttl time.Duration) error {
	if r.isUnavailable() {
		return ErrUnavailable
	}
	if err := r.client.Set(ctx, otpKey(phone), code, ttl).Err(); err != nil {
		r.warnUnavailableOnce(err)
		return err
	}
	return nil
}

// TakeCode returns the stored OTP code for a phone number and deletes it so
// a code verifies at most once. A missing or expired code returns "".
func (r *Redis) TakeCode(ctx context.Context, phone string) (string, error) {
	if r.isUnavailable() {
		return "", ErrUnavailable
	}
	code, err := r.client.GetDel(ctx, otpKey(phone)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		r.warnUnavailableOnce(err)
		return "", err
	}
	return code, nil
}

func otpKey(phone string) string {
	return "otp:code:" + phone
}
