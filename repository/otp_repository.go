package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCodeNotFound is returned when no unexpired code exists for the account.
var ErrCodeNotFound = errors.New("code not found or expired")

// IOTPRepository defines the contract for one-time code storage. A single key
// per account number means storing a new code overwrites (and thereby
// invalidates) the previous one, and the TTL expires stale codes.
type IOTPRepository interface {
	StoreCode(ctx context.Context, accountNumber, code string, ttl time.Duration) error
	GetCode(ctx context.Context, accountNumber string) (string, error)
	DeleteCode(ctx context.Context, accountNumber string) error
}

// OTPRepository stores codes in Redis under <prefix>:<accountNumber>.
// Separate instances cover login OTPs and password reset codes.
type OTPRepository struct {
	client *redis.Client
	prefix string
}

func NewOTPRepository(client *redis.Client, prefix string) *OTPRepository {
	return &OTPRepository{client: client, prefix: prefix}
}

func (r *OTPRepository) key(accountNumber string) string {
	return fmt.Sprintf("%s:%s", r.prefix, accountNumber)
}

func (r *OTPRepository) StoreCode(ctx context.Context, accountNumber, code string, ttl time.Duration) error {
	return r.client.Set(ctx, r.key(accountNumber), code, ttl).Err()
}

func (r *OTPRepository) GetCode(ctx context.Context, accountNumber string) (string, error) {
	code, err := r.client.Get(ctx, r.key(accountNumber)).Result()
	if err == redis.Nil {
		return "", ErrCodeNotFound
	}
	if err != nil {
		return "", err
	}
	return code, nil
}

func (r *OTPRepository) DeleteCode(ctx context.Context, accountNumber string) error {
	return r.client.Del(ctx, r.key(accountNumber)).Err()
}
