package loanrepo

import (
	"context"
	"database/sql"

	"booklend/model"
)

type Repo interface {
	Insert(ctx context.Context, l *model.Loan) error
	ByID(ctx context.Context, id int64) (*model.Loan, error)

	// Transitions are guarded by (id, owner_id, current status) so that of
	// two racing requests at most one sees an affected row.
	Approve(ctx context.Context, id, ownerID int64) (bool, error)
	Decline(ctx context.Context, id, ownerID int64) (bool, error)
	Complete(ctx context.Context, id, ownerID int64) (bool, error)

	ReceivedFor(ctx context.Context, ownerID int64) ([]model.Loan, error)
	BorrowedBy(ctx context.Context, borrowerID int64) ([]model.Loan, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) Insert(ctx context.Context, l *model.Loan) error {
	const q = `
		INSERT INTO loans (book_id, borrower_id, owner_id, status, start_date, due_date, message)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, q,
		l.BookID, l.BorrowerID, l.OwnerID, l.Status, l.StartDate, l.DueDate, l.Message,
	).Scan(&l.ID, &l.CreatedAt)
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.Loan, error) {
	const q = `
		SELECT id, book_id, borrower_id, owner_id, status,
		       start_date, due_date, return_date, message, created_at
		FROM loans
		WHERE id = $1`
	l := &model.Loan{}
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&l.ID, &l.BookID, &l.BorrowerID, &l.OwnerID, &l.Status,
		&l.StartDate, &l.DueDate, &l.ReturnDate, &l.Message, &l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *repo) Approve(ctx context.Context, id, ownerID int64) (bool, error) {
	const q = `
		UPDATE loans
		SET status = 'approved',
			start_date = COALESCE(start_date, NOW())
		WHERE id = $1
		AND owner_id = $2
		AND status = 'pending'`
	return r.exec(ctx, q, id, ownerID)
}

func (r *repo) Decline(ctx context.Context, id, ownerID int64) (bool, error) {
	const q = `
		UPDATE loans
		SET status = 'cancelled'
		WHERE id = $1
		AND owner_id = $2
		AND status = 'pending'`
	return r.exec(ctx, q, id, ownerID)
}

func (r *repo) Complete(ctx context.Context, id, ownerID int64) (bool, error) {
	const q = `
		UPDATE loans
		SET status = 'done',
			return_date = NOW()
		WHERE id = $1
		AND owner_id = $2
		AND status = 'approved'`
	return r.exec(ctx, q, id, ownerID)
}

func (r *repo) exec(ctx context.Context, q string, id, ownerID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, q, id, ownerID)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}

// ReceivedFor lists loans on the owner's books, actionable first.
func (r *repo) ReceivedFor(ctx context.Context, ownerID int64) ([]model.Loan, error) {
	const q = `
		SELECT id, book_id, borrower_id, owner_id, status,
		       start_date, due_date, return_date, message, created_at
		FROM loans
		WHERE owner_id = $1
		ORDER BY CASE status
			WHEN 'pending'  THEN 1
			WHEN 'approved' THEN 2
			WHEN 'done'     THEN 3
			ELSE 4
		END,
		created_at DESC, id DESC`
	return r.list(ctx, q, ownerID)
}

// BorrowedBy lists the borrower's loans, active first.
func (r *repo) BorrowedBy(ctx context.Context, borrowerID int64) ([]model.Loan, error) {
	const q = `
		SELECT id, book_id, borrower_id, owner_id, status,
		       start_date, due_date, return_date, message, created_at
		FROM loans
		WHERE borrower_id = $1
		ORDER BY CASE status
			WHEN 'approved' THEN 1
			WHEN 'pending'  THEN 2
			WHEN 'done'     THEN 3
			ELSE 4
		END,
		created_at DESC, id DESC`
	return r.list(ctx, q, borrowerID)
}

func (r *repo) list(ctx context.Context, q string, userID int64) ([]model.Loan, error) {
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Loan
	for rows.Next() {
		var l model.Loan
		if err := rows.Scan(
			&l.ID, &l.BookID, &l.BorrowerID, &l.OwnerID, &l.Status,
			&l.StartDate, &l.DueDate, &l.ReturnDate, &l.Message, &l.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
