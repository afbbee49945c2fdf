// Package emailauth issues and verifies the short-lived confirmation codes
// sent to customers before account creation. Codes live in Redis with a
// 3-minute TTL and are consumed on successful verification.
package emailauth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/redis/go-redis/v9"

	"github.com/minkhant-dev/foodcourt/internal/redisx"
)

var (
	ErrCodeExpired  = errors.New("confirmation code expired or never requested")
	ErrCodeMismatch = errors.New("confirmation code does not match")
)

type Service struct {
	Redis  *redis.Client
	Mailer Mailer
}

// Request generates a fresh 6-digit code, stores it under the email with a
// TTL, and mails it. Re-requesting replaces the previous code.
func (s *Service) Request(ctx context.Context, email string) error {
	code, err := GenerateCode()
	if err != nil {
		return err
	}
	key := fmt.Sprintf(redisx.KeyEmailCode, email)
	if err := s.Redis.Set(ctx, key, code, redisx.TTLEmailCode).Err(); err != nil {
		return fmt.Errorf("store confirmation code: %w", err)
	}
	return s.Mailer.SendCode(ctx, email, code)
}

// Verify checks the submitted code and deletes it on success so it is
// single-use.
func (s *Service) Verify(ctx context.Context, email, code string) error {
	key := fmt.Sprintf(redisx.KeyEmailCode, email)
	stored, err := s.Redis.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return ErrCodeExpired
	}
	if err != nil {
		return fmt.Errorf("load confirmation code: %w", err)
	}
	if stored != code {
		return ErrCodeMismatch
	}
	_ = s.Redis.Del(ctx, key).Err()
	return nil
}

// GenerateCode returns a random 6-digit numeric code, zero-padded.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
