// service/review/review_service_test.go
package reviewsvc

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"booklend/model"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	insertFn   func(ctx context.Context, rv *model.Review) error
	existsFn   func(ctx context.Context, loanID int64) (bool, error)
	forUserFn  func(ctx context.Context, userID int64) ([]model.Review, error)
	statsForFn func(ctx context.Context, userID int64) (Stats, error)
}

var _ Repo = (*mockRepo)(nil)

func (m *mockRepo) Insert(ctx context.Context, rv *model.Review) error {
	if m.insertFn == nil {
		rv.ID = 1
		return nil
	}
	return m.insertFn(ctx, rv)
}

func (m *mockRepo) ExistsForLoan(ctx context.Context, loanID int64) (bool, error) {
	if m.existsFn == nil {
		return false, nil
	}
	return m.existsFn(ctx, loanID)
}

func (m *mockRepo) ForUser(ctx context.Context, userID int64) ([]model.Review, error) {
	return m.forUserFn(ctx, userID)
}

func (m *mockRepo) StatsFor(ctx context.Context, userID int64) (Stats, error) {
	return m.statsForFn(ctx, userID)
}

type mockLoans struct {
	byIDFn func(ctx context.Context, id int64) (*model.Loan, error)
}

func (m *mockLoans) ByID(ctx context.Context, id int64) (*model.Loan, error) {
	return m.byIDFn(ctx, id)
}

func doneLoan() *mockLoans {
	return &mockLoans{byIDFn: func(ctx context.Context, id int64) (*model.Loan, error) {
		return &model.Loan{ID: id, OwnerID: 1, BorrowerID: 2, Status: model.LoanDone}, nil
	}}
}

// --- Submit ---

func TestSubmit_BorrowerRatesOwner(t *testing.T) {
	m := &mockRepo{
		insertFn: func(ctx context.Context, rv *model.Review) error {
			rv.ID = 7
			return nil
		},
	}
	svc := New(m, doneLoan())

	comment := "great"
	rv, err := svc.Submit(context.Background(), 2, 12, 5, &comment)
	require.NoError(t, err)
	require.Equal(t, int64(7), rv.ID)
	require.Equal(t, int64(2), rv.ReviewerID)
	require.Equal(t, int64(1), rv.RatedUserID)
	require.Equal(t, 5, rv.Rating)
}

func TestSubmit_OwnerRatesBorrower(t *testing.T) {
	svc := New(&mockRepo{}, doneLoan())

	rv, err := svc.Submit(context.Background(), 1, 12, 4, nil)
	require.NoError(t, err)
	require.Equal(t, int64(1), rv.ReviewerID)
	require.Equal(t, int64(2), rv.RatedUserID)
}

func TestSubmit_AlreadyReviewed(t *testing.T) {
	m := &mockRepo{
		existsFn: func(ctx context.Context, loanID int64) (bool, error) {
			return true, nil
		},
	}
	svc := New(m, doneLoan())

	_, err := svc.Submit(context.Background(), 2, 12, 5, nil)
	require.Error(t, err)
	require.Equal(t, ErrReviewExists, Code(err))
}

func TestSubmit_LoanNotFound(t *testing.T) {
	loans := &mockLoans{byIDFn: func(ctx context.Context, id int64) (*model.Loan, error) {
		return nil, sql.ErrNoRows
	}}
	svc := New(&mockRepo{}, loans)

	_, err := svc.Submit(context.Background(), 2, 404, 5, nil)
	require.Error(t, err)
	require.Equal(t, ErrLoanNotFound, Code(err))
}

func TestSubmit_LoanNotDone(t *testing.T) {
	for _, status := range []model.LoanStatus{model.LoanPending, model.LoanApproved, model.LoanCancelled} {
		loans := &mockLoans{byIDFn: func(ctx context.Context, id int64) (*model.Loan, error) {
			return &model.Loan{ID: id, OwnerID: 1, BorrowerID: 2, Status: status}, nil
		}}
		svc := New(&mockRepo{}, loans)

		_, err := svc.Submit(context.Background(), 2, 12, 5, nil)
		require.Error(t, err, "status %s", status)
		require.Equal(t, ErrLoanNotDone, Code(err))
	}
}

func TestSubmit_NotParticipant(t *testing.T) {
	svc := New(&mockRepo{}, doneLoan())

	_, err := svc.Submit(context.Background(), 99, 12, 5, nil)
	require.Error(t, err)
	require.Equal(t, ErrNotParticipant, Code(err))
}

func TestSubmit_BadRating(t *testing.T) {
	svc := New(&mockRepo{}, doneLoan())

	for _, rating := range []int{0, -1, 6, 100} {
		_, err := svc.Submit(context.Background(), 2, 12, rating, nil)
		require.Error(t, err, "rating %d", rating)
		require.Equal(t, ErrBadRating, Code(err))
	}
}

func TestSubmit_CommentTooLong(t *testing.T) {
	svc := New(&mockRepo{}, doneLoan())

	long := strings.Repeat("a", model.MaxReviewCommentLen+1)
	_, err := svc.Submit(context.Background(), 2, 12, 5, &long)
	require.Error(t, err)
	require.Equal(t, ErrCommentTooLong, Code(err))
}

func TestSubmit_UniqueViolationRace(t *testing.T) {
	// Exists check passes for both participants, insert loses.
	m := &mockRepo{
		insertFn: func(ctx context.Context, rv *model.Review) error {
			return &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "reviews_loan_id_key"}
		},
	}
	svc := New(m, doneLoan())

	_, err := svc.Submit(context.Background(), 1, 12, 5, nil)
	require.Error(t, err)
	require.Equal(t, ErrReviewExists, Code(err))
}

func TestSubmit_RepoError(t *testing.T) {
	m := &mockRepo{
		insertFn: func(ctx context.Context, rv *model.Review) error {
			return errors.New("db down")
		},
	}
	svc := New(m, doneLoan())

	_, err := svc.Submit(context.Background(), 1, 12, 5, nil)
	require.Error(t, err)
	require.Equal(t, ErrCode(""), Code(err))
}

// --- Reads ---

func TestStatsFor_PassThrough(t *testing.T) {
	m := &mockRepo{
		statsForFn: func(ctx context.Context, userID int64) (Stats, error) {
			require.Equal(t, int64(1), userID)
			return Stats{AverageRating: 5.0, ReviewCount: 1}, nil
		},
	}
	svc := New(m, doneLoan())

	s, err := svc.StatsFor(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 5.0, s.AverageRating)
	require.Equal(t, int64(1), s.ReviewCount)
}

func TestStatsFor_NoReviews(t *testing.T) {
	m := &mockRepo{
		statsForFn: func(ctx context.Context, userID int64) (Stats, error) {
			return Stats{}, nil
		},
	}
	svc := New(m, doneLoan())

	s, err := svc.StatsFor(context.Background(), 9)
	require.NoError(t, err)
	require.Zero(t, s.AverageRating)
	require.Zero(t, s.ReviewCount)
}

func TestForUser_PassThrough(t *testing.T) {
	want := []model.Review{{ID: 1, LoanID: 12, ReviewerID: 2, RatedUserID: 1, Rating: 5}}
	m := &mockRepo{
		forUserFn: func(ctx context.Context, userID int64) ([]model.Review, error) {
			return want, nil
		},
	}
	svc := New(m, doneLoan())

	got, err := svc.ForUser(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, want, got)
}
