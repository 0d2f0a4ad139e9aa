package inquiry

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Inquiry struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Contact   string    `json:"contact"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) Submit(ctx context.Context, name, contact, message string) (int64, error) {
	var id int64
	err := r.DB.QueryRow(ctx, `
		INSERT INTO inquiries(name, contact, message)
		VALUES ($1, $2, $3) RETURNING id`, name, contact, message).Scan(&id)
	return id, err
}

func (r *Repo) List(ctx context.Context, offset, limit int64) ([]Inquiry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.DB.Query(ctx, `
		SELECT id, name, contact, message, created_at
		FROM inquiries ORDER BY created_at DESC OFFSET $1 LIMIT $2`, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Inquiry
	for rows.Next() {
		var q Inquiry
		if err := rows.Scan(&q.ID, &q.Name, &q.Contact, &q.Message, &q.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}
