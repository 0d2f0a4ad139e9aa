package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sistertele/phonestore/internal/importer"
)

type Repo struct{ DB *pgxpool.Pool }

var ErrNotFound = errors.New("product not found")

func (r *Repo) List(ctx context.Context) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, name, brand, category, price_minor, image_url, description, created_at, updated_at
		FROM products ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Brand, &p.Category, &p.Price, &p.ImageURL, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) Get(ctx context.Context, id int64) (Product, error) {
	var p Product
	err := r.DB.QueryRow(ctx, `
		SELECT id, name, brand, category, price_minor, image_url, description, created_at, updated_at
		FROM products WHERE id=$1`, id).
		Scan(&p.ID, &p.Name, &p.Brand, &p.Category, &p.Price, &p.ImageURL, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	return p, err
}

func (r *Repo) Create(ctx context.Context, in ProductInput) (int64, error) {
	var id int64
	err := r.DB.QueryRow(ctx, `
		INSERT INTO products(name, brand, category, price_minor, image_url, description)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		in.Name, in.Brand, in.Category, in.Price, in.ImageURL, in.Description).Scan(&id)
	return id, err
}

// BulkCreate inserts parsed candidates in a single transaction. Callers are
// responsible for filtering to valid candidates first; an invalid one here
// aborts the whole batch.
func (r *Repo) BulkCreate(ctx context.Context, candidates []importer.Candidate) ([]int64, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ids := make([]int64, 0, len(candidates))
	for _, c := range candidates {
		if !c.Valid || c.Price == nil {
			return nil, fmt.Errorf("invalid candidate %q in bulk create", c.Name)
		}
		var id int64
		err := tx.QueryRow(ctx, `
			INSERT INTO products(name, brand, category, price_minor, image_url, description)
			VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
			c.Name, c.Brand, c.Category, *c.Price, c.ImageURL, c.Description).Scan(&id)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return ids, nil
}
