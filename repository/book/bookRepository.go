package bookrepo

import (
	"context"
	"database/sql"

	"booklend/model"
)

type Repo interface {
	Create(ctx context.Context, b *model.Book) error
	List(ctx context.Context) ([]model.Book, error)
	Detail(ctx context.Context, id int64) (*model.Book, error)
	OwnerOf(ctx context.Context, id int64) (int64, error)
	Delete(ctx context.Context, id, ownerID int64) (bool, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) Create(ctx context.Context, b *model.Book) error {
	const q = `
		INSERT INTO books (owner_id, title, author, category)
		VALUES ($1,$2,$3,$4)
		RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, q, b.OwnerID, b.Title, b.Author, b.Category).
		Scan(&b.ID, &b.CreatedAt)
}

func (r *repo) List(ctx context.Context) ([]model.Book, error) {
	const q = `
		SELECT id, owner_id, title, author, category, created_at
		FROM books
		ORDER BY id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Book
	for rows.Next() {
		var b model.Book
		if err := rows.Scan(&b.ID, &b.OwnerID, &b.Title, &b.Author, &b.Category, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *repo) Detail(ctx context.Context, id int64) (*model.Book, error) {
	const q = `
		SELECT id, owner_id, title, author, category, created_at
		FROM books
		WHERE id = $1`
	b := &model.Book{}
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&b.ID, &b.OwnerID, &b.Title, &b.Author, &b.Category, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *repo) OwnerOf(ctx context.Context, id int64) (int64, error) {
	const q = `
		SELECT owner_id
		FROM books
		WHERE id = $1`
	var ownerID int64
	err := r.db.QueryRowContext(ctx, q, id).Scan(&ownerID)
	return ownerID, err
}

// Delete removes a book only when ownerID matches; loans cascade at the
// schema level.
func (r *repo) Delete(ctx context.Context, id, ownerID int64) (bool, error) {
	const q = `
		DELETE FROM books
		WHERE id = $1
		AND owner_id = $2`
	res, err := r.db.ExecContext(ctx, q, id, ownerID)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}
