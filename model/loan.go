package model

import "time"

type LoanStatus string

const (
	LoanPending   LoanStatus = "pending"
	LoanApproved  LoanStatus = "approved"
	LoanCancelled LoanStatus = "cancelled"
	LoanDone      LoanStatus = "done"
)

// MaxLoanMessageLen bounds the optional note a borrower attaches to a request.
const MaxLoanMessageLen = 500

type Loan struct {
	ID         int64      `json:"id"`
	BookID     int64      `json:"book_id"`
	BorrowerID int64      `json:"borrower_id"`
	OwnerID    int64      `json:"owner_id"`
	Status     LoanStatus `json:"status"`
	StartDate  *time.Time `json:"start_date,omitempty"`
	DueDate    *time.Time `json:"due_date,omitempty"`
	ReturnDate *time.Time `json:"return_date,omitempty"`
	Message    *string    `json:"message,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}
