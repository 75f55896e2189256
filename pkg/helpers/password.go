package helpers

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordTooLong mirrors bcrypt's 72 byte input limit.
var ErrPasswordTooLong = bcrypt.ErrPasswordTooLong

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// PasswordHasher hashes and verifies passwords with bcrypt.
// At most `limit` hash operations run at once; callers waiting for a slot
// give up when their context ends.
type PasswordHasher struct {
	cost int
	sem  chan struct{}

	// fixed password hashed at the configured cost, ready before the first login
	dummy    []byte
	dummyErr error
}

func NewPasswordHasher(cost, limit int) *PasswordHasher {
	if limit <= 0 {
		limit = 1
	}
	h := &PasswordHasher{cost: cost, sem: make(chan struct{}, limit)}
	h.dummy, h.dummyErr = bcrypt.GenerateFromPassword([]byte("learnpath-dummy-password"), cost)
	return h
}

// Cost returns the bcrypt work factor used for new hashes.
func (h *PasswordHasher) Cost() int { return h.cost }

func (h *PasswordHasher) acquire(ctx context.Context) error {
	select {
	case h.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *PasswordHasher) release() { <-h.sem }

// Hash returns the bcrypt hash of plain.
func (h *PasswordHasher) Hash(ctx context.Context, plain string) (string, error) {
	if len(plain) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	if err := h.acquire(ctx); err != nil {
		return "", err
	}
	defer h.release()
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether plain matches hash. A mismatch is (false, nil);
// errors are reserved for malformed hashes and context cancellation.
func (h *PasswordHasher) Verify(ctx context.Context, hash, plain string) (bool, error) {
	if err := h.acquire(ctx); err != nil {
		return false, err
	}
	defer h.release()
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}

// VerifyDummy burns the same bcrypt work as Verify against a fixed hash.
// It is used when the account does not exist so that response latency does
// not reveal whether an email is registered.
func (h *PasswordHasher) VerifyDummy(ctx context.Context, plain string) error {
	if h.dummyErr != nil {
		return h.dummyErr
	}
	_, err := h.Verify(ctx, string(h.dummy), plain)
	return err
}
