package admin

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrCheckTimeout means the check did not complete; it is not a denial
	// and callers must not treat it as "non-admin".
	ErrCheckTimeout = errors.New("admin check timed out")

	// ErrUnavailable models a backend without the admin surface. Replaces
	// runtime capability probing with an explicit error variant.
	ErrUnavailable = errors.New("admin check unavailable")
)

// roleStore is what the service needs from the admins repository.
type roleStore interface {
	IsAdmin(ctx context.Context, principal string) (bool, error)
	HasAny(ctx context.Context) (bool, error)
	Claim(ctx context.Context, principal string) error
}

// Service wraps role checks with an explicit timeout. A definitive "no" is
// (false, nil); an expired deadline is surfaced as ErrCheckTimeout so the
// caller can offer a retry instead of denying access.
type Service struct {
	Store   roleStore
	Timeout time.Duration
}

func NewService(store roleStore, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Service{Store: store, Timeout: timeout}
}

func (s *Service) IsCallerAdmin(ctx context.Context, principal string) (bool, error) {
	cctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	ok, err := s.Store.IsAdmin(cctx, principal)
	if err != nil {
		return false, s.mapErr(cctx, err)
	}
	return ok, nil
}

func (s *Service) HasAnyAdmin(ctx context.Context) (bool, error) {
	cctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	ok, err := s.Store.HasAny(cctx)
	if err != nil {
		return false, s.mapErr(cctx, err)
	}
	return ok, nil
}

func (s *Service) ClaimInitialAdmin(ctx context.Context, principal string) error {
	cctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	if err := s.Store.Claim(cctx, principal); err != nil {
		if errors.Is(err, ErrAlreadyClaimed) {
			return err
		}
		return s.mapErr(cctx, err)
	}
	return nil
}

func (s *Service) mapErr(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ErrCheckTimeout
	}
	return err
}
