package loansvc

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"booklend/model"
)

// errors used by controllers

type ErrCode string

const (
	ErrBookNotFound      ErrCode = "BOOK_NOT_FOUND"
	ErrLoanNotFound      ErrCode = "LOAN_NOT_FOUND"
	ErrSelfBorrow        ErrCode = "SELF_BORROW"
	ErrBadDates          ErrCode = "BAD_DATES"
	ErrMessageTooLong    ErrCode = "MESSAGE_TOO_LONG"
	ErrNotOwner          ErrCode = "NOT_OWNER"
	ErrInvalidTransition ErrCode = "INVALID_TRANSITION"
	ErrUnknownAction     ErrCode = "UNKNOWN_ACTION"
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

// Action is a requested status change on a loan.
type Action string

const (
	ActionApprove  Action = "approve"
	ActionDecline  Action = "decline"
	ActionComplete Action = "complete"
)

type RequestInput struct {
	BookID    int64
	StartDate *time.Time
	DueDate   *time.Time
	Message   *string
}

type Repo interface {
	Insert(ctx context.Context, l *model.Loan) error
	ByID(ctx context.Context, id int64) (*model.Loan, error)
	Approve(ctx context.Context, id, ownerID int64) (bool, error)
	Decline(ctx context.Context, id, ownerID int64) (bool, error)
	Complete(ctx context.Context, id, ownerID int64) (bool, error)
	ReceivedFor(ctx context.Context, ownerID int64) ([]model.Loan, error)
	BorrowedBy(ctx context.Context, borrowerID int64) ([]model.Loan, error)
}

type BookRepo interface {
	OwnerOf(ctx context.Context, bookID int64) (int64, error)
}

type Service interface {
	// Request creates a pending loan for the book on the borrower's behalf.
	Request(ctx context.Context, borrowerID int64, in RequestInput) (*model.Loan, error)

	// Transition applies one state-machine action, acting user must be the
	// book's owner and the loan must sit in the action's required status.
	Transition(ctx context.Context, loanID, actorID int64, action Action) error

	// Received: loans on books the user owns.
	Received(ctx context.Context, ownerID int64) ([]model.Loan, error)

	// Borrowed: loans the user requested.
	Borrowed(ctx context.Context, borrowerID int64) ([]model.Loan, error)
}

// ----- Service implementation -----

type service struct {
	r     Repo
	books BookRepo
}

func New(r Repo, books BookRepo) Service {
	return &service{r: r, books: books}
}

func (s *service) Request(ctx context.Context, borrowerID int64, in RequestInput) (*model.Loan, error) {
	ownerID, err := s.books.OwnerOf(ctx, in.BookID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrBookNotFound)
		}
		return nil, err
	}
	if ownerID == borrowerID {
		return nil, makeErr(ErrSelfBorrow)
	}
	if in.StartDate != nil && in.DueDate != nil && in.DueDate.Before(*in.StartDate) {
		return nil, makeErr(ErrBadDates)
	}
	if in.Message != nil && len(*in.Message) > model.MaxLoanMessageLen {
		return nil, makeErr(ErrMessageTooLong)
	}

	l := &model.Loan{
		BookID:     in.BookID,
		BorrowerID: borrowerID,
		OwnerID:    ownerID,
		Status:     model.LoanPending,
		StartDate:  in.StartDate,
		DueDate:    in.DueDate,
		Message:    in.Message,
	}
	if err := s.r.Insert(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *service) Transition(ctx context.Context, loanID, actorID int64, action Action) error {
	l, err := s.r.ByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrLoanNotFound)
		}
		return err
	}
	if l.OwnerID != actorID {
		return makeErr(ErrNotOwner)
	}

	var required model.LoanStatus
	var apply func(context.Context, int64, int64) (bool, error)
	switch action {
	case ActionApprove:
		required, apply = model.LoanPending, s.r.Approve
	case ActionDecline:
		required, apply = model.LoanPending, s.r.Decline
	case ActionComplete:
		required, apply = model.LoanApproved, s.r.Complete
	default:
		return makeErr(ErrUnknownAction)
	}
	if l.Status != required {
		return makeErr(ErrInvalidTransition)
	}

	ok, err := apply(ctx, loanID, actorID)
	if err != nil {
		return err
	}
	if !ok {
		// Lost the race: the row no longer matches (id, owner, required
		// status). Re-read to tell a vanished loan from a changed status.
		if _, err := s.r.ByID(ctx, loanID); errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrLoanNotFound)
		}
		return makeErr(ErrInvalidTransition)
	}
	return nil
}

func (s *service) Received(ctx context.Context, ownerID int64) ([]model.Loan, error) {
	return s.r.ReceivedFor(ctx, ownerID)
}

func (s *service) Borrowed(ctx context.Context, borrowerID int64) ([]model.Loan, error) {
	return s.r.BorrowedBy(ctx, borrowerID)
}
