package reviewrepo

import (
	"context"
	"database/sql"

	"booklend/model"
)

type Stats struct {
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int64   `json:"review_count"`
}

type Repo interface {
	Insert(ctx context.Context, rv *model.Review) error
	ExistsForLoan(ctx context.Context, loanID int64) (bool, error)
	ForUser(ctx context.Context, userID int64) ([]model.Review, error)
	StatsFor(ctx context.Context, userID int64) (Stats, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) Insert(ctx context.Context, rv *model.Review) error {
	const q = `
		INSERT INTO reviews (loan_id, reviewer_id, rated_user_id, rating, comment)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, q,
		rv.LoanID, rv.ReviewerID, rv.RatedUserID, rv.Rating, rv.Comment,
	).Scan(&rv.ID, &rv.CreatedAt)
}

func (r *repo) ExistsForLoan(ctx context.Context, loanID int64) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM reviews WHERE loan_id = $1
		)`
	var exists bool
	err := r.db.QueryRowContext(ctx, q, loanID).Scan(&exists)
	return exists, err
}

func (r *repo) ForUser(ctx context.Context, userID int64) ([]model.Review, error) {
	const q = `
		SELECT id, loan_id, reviewer_id, rated_user_id, rating, comment, created_at
		FROM reviews
		WHERE rated_user_id = $1
		ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Review
	for rows.Next() {
		var rv model.Review
		if err := rows.Scan(
			&rv.ID, &rv.LoanID, &rv.ReviewerID, &rv.RatedUserID,
			&rv.Rating, &rv.Comment, &rv.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (r *repo) StatsFor(ctx context.Context, userID int64) (Stats, error) {
	const q = `
		SELECT COALESCE(ROUND(AVG(rating), 2), 0)::float8, COUNT(*)
		FROM reviews
		WHERE rated_user_id = $1`
	var s Stats
	err := r.db.QueryRowContext(ctx, q, userID).Scan(&s.AverageRating, &s.ReviewCount)
	return s, err
}
