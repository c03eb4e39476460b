package reviewsvc

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"booklend/model"
	reviewrepo "booklend/repository/review"
)

// errors used by controllers

type ErrCode string

const (
	ErrReviewExists   ErrCode = "REVIEW_EXISTS"
	ErrLoanNotFound   ErrCode = "LOAN_NOT_FOUND"
	ErrLoanNotDone    ErrCode = "LOAN_NOT_DONE"
	ErrNotParticipant ErrCode = "NOT_PARTICIPANT"
	ErrBadRating      ErrCode = "BAD_RATING"
	ErrCommentTooLong ErrCode = "COMMENT_TOO_LONG"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

type Stats = reviewrepo.Stats

type Repo interface {
	Insert(ctx context.Context, rv *model.Review) error
	ExistsForLoan(ctx context.Context, loanID int64) (bool, error)
	ForUser(ctx context.Context, userID int64) ([]model.Review, error)
	StatsFor(ctx context.Context, userID int64) (Stats, error)
}

type LoanRepo interface {
	ByID(ctx context.Context, id int64) (*model.Loan, error)
}

type Service interface {
	// Submit creates the single review allowed for a completed loan. The
	// rated user is always the other participant.
	Submit(ctx context.Context, actorID, loanID int64, rating int, comment *string) (*model.Review, error)

	// ForUser lists reviews received by a user, newest first.
	ForUser(ctx context.Context, userID int64) ([]model.Review, error)

	// StatsFor returns the average rating (two decimals) and review count.
	StatsFor(ctx context.Context, userID int64) (Stats, error)
}

type service struct {
	r     Repo
	loans LoanRepo
}

func New(r Repo, loans LoanRepo) Service {
	return &service{r: r, loans: loans}
}

func (s *service) Submit(ctx context.Context, actorID, loanID int64, rating int, comment *string) (*model.Review, error) {
	exists, err := s.r.ExistsForLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, makeErr(ErrReviewExists)
	}

	l, err := s.loans.ByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrLoanNotFound)
		}
		return nil, err
	}
	if l.Status != model.LoanDone {
		return nil, makeErr(ErrLoanNotDone)
	}

	var rated int64
	switch actorID {
	case l.BorrowerID:
		rated = l.OwnerID
	case l.OwnerID:
		rated = l.BorrowerID
	default:
		return nil, makeErr(ErrNotParticipant)
	}

	if rating < 1 || rating > 5 {
		return nil, makeErr(ErrBadRating)
	}
	if comment != nil && len(*comment) > model.MaxReviewCommentLen {
		return nil, makeErr(ErrCommentTooLong)
	}

	rv := &model.Review{
		LoanID:      loanID,
		ReviewerID:  actorID,
		RatedUserID: rated,
		Rating:      rating,
		Comment:     comment,
	}
	if err := s.r.Insert(ctx, rv); err != nil {
		// Two participants can pass the exists check together; the unique
		// index on loan_id settles it.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, makeErr(ErrReviewExists)
		}
		return nil, err
	}
	return rv, nil
}

func (s *service) ForUser(ctx context.Context, userID int64) ([]model.Review, error) {
	return s.r.ForUser(ctx, userID)
}

func (s *service) StatsFor(ctx context.Context, userID int64) (Stats, error) {
	return s.r.StatsFor(ctx, userID)
}
