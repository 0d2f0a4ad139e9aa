package admin

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrAlreadyClaimed = errors.New("admin role already claimed")

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) IsAdmin(ctx context.Context, principal string) (bool, error) {
	var ok bool
	err := r.DB.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM admins WHERE principal=$1)`, principal).Scan(&ok)
	return ok, err
}

func (r *Repo) HasAny(ctx context.Context) (bool, error) {
	var ok bool
	err := r.DB.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM admins)`).Scan(&ok)
	return ok, err
}

// Claim grants the admin role to the caller iff no admin exists yet.
// First caller wins globally; everyone later gets ErrAlreadyClaimed.
func (r *Repo) Claim(ctx context.Context, principal string) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Table lock serializes concurrent bootstrap attempts.
	if _, err := tx.Exec(ctx, `LOCK TABLE admins IN SHARE ROW EXCLUSIVE MODE`); err != nil {
		return err
	}
	var n int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM admins`).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrAlreadyClaimed
	}
	if _, err := tx.Exec(ctx, `INSERT INTO admins(principal) VALUES ($1)`, principal); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
