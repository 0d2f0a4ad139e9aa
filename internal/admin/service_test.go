package admin

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	isAdmin bool
	hasAny  bool
	err     error
	delay   time.Duration
}

func (f *fakeStore) wait(ctx context.Context) error {
	if f.delay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(f.delay):
		return nil
	}
}

func (f *fakeStore) IsAdmin(ctx context.Context, principal string) (bool, error) {
	if err := f.wait(ctx); err != nil {
		return false, err
	}
	return f.isAdmin, f.err
}

func (f *fakeStore) HasAny(ctx context.Context) (bool, error) {
	if err := f.wait(ctx); err != nil {
		return false, err
	}
	return f.hasAny, f.err
}

func (f *fakeStore) Claim(ctx context.Context, principal string) error {
	if err := f.wait(ctx); err != nil {
		return err
	}
	return f.err
}

func TestIsCallerAdminDefinitiveAnswers(t *testing.T) {
	svc := NewService(&fakeStore{isAdmin: true}, time.Second)
	ok, err := svc.IsCallerAdmin(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, ok)

	svc = NewService(&fakeStore{isAdmin: false}, time.Second)
	ok, err = svc.IsCallerAdmin(context.Background(), "bob")
	require.NoError(t, err)
	assert.False(t, ok, "a definitive denial is (false, nil)")
}

func TestIsCallerAdminTimeoutIsNotDenial(t *testing.T) {
	svc := NewService(&fakeStore{isAdmin: true, delay: 200 * time.Millisecond}, 20*time.Millisecond)

	_, err := svc.IsCallerAdmin(context.Background(), "alice")
	assert.ErrorIs(t, err, ErrCheckTimeout)
	assert.NotErrorIs(t, err, ErrUnavailable)
}

func TestIsCallerAdminUnexpectedErrorPropagates(t *testing.T) {
	boom := errors.New("connection refused")
	svc := NewService(&fakeStore{err: boom}, time.Second)

	_, err := svc.IsCallerAdmin(context.Background(), "alice")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrCheckTimeout)
}

func TestHasAnyAdminTimeout(t *testing.T) {
	svc := NewService(&fakeStore{hasAny: true, delay: 200 * time.Millisecond}, 20*time.Millisecond)

	_, err := svc.HasAnyAdmin(context.Background())
	assert.ErrorIs(t, err, ErrCheckTimeout)
}

func TestClaimInitialAdmin(t *testing.T) {
	svc := NewService(&fakeStore{}, time.Second)
	require.NoError(t, svc.ClaimInitialAdmin(context.Background(), "alice"))

	svc = NewService(&fakeStore{err: ErrAlreadyClaimed}, time.Second)
	err := svc.ClaimInitialAdmin(context.Background(), "bob")
	assert.ErrorIs(t, err, ErrAlreadyClaimed)

	svc = NewService(&fakeStore{delay: 200 * time.Millisecond}, 20*time.Millisecond)
	err = svc.ClaimInitialAdmin(context.Background(), "carol")
	assert.ErrorIs(t, err, ErrCheckTimeout)
}

func TestNewServiceDefaultTimeout(t *testing.T) {
	svc := NewService(&fakeStore{}, 0)
	assert.Equal(t, 8*time.Second, svc.Timeout)
}
