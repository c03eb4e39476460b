package loan

import "time"

type RequestLoanReq struct {
	BookID    int64      `json:"book_id" validate:"required,gt=0"`
	StartDate *time.Time `json:"start_date"`
	DueDate   *time.Time `json:"due_date"`
	Message   *string    `json:"message" validate:"omitempty,max=500"`
}
