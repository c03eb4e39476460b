package model

import "time"

// MaxReviewCommentLen bounds the optional review comment.
const MaxReviewCommentLen = 1000

type Review struct {
	ID          int64     `json:"id"`
	LoanID      int64     `json:"loan_id"`
	ReviewerID  int64     `json:"reviewer_id"`
	RatedUserID int64     `json:"rated_user_id"`
	Rating      int       `json:"rating"`
	Comment     *string   `json:"comment,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
