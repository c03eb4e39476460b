package booksvc

import (
	"context"
	"database/sql"
	"errors"

	"booklend/model"
)

type ErrCode string

const (
	ErrNotFound ErrCode = "BOOK_NOT_FOUND"
	ErrNotOwner ErrCode = "NOT_OWNER"
	ErrBadInput ErrCode = "BAD_INPUT"
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

type Repo interface {
	Create(ctx context.Context, b *model.Book) error
	List(ctx context.Context) ([]model.Book, error)
	Detail(ctx context.Context, id int64) (*model.Book, error)
	OwnerOf(ctx context.Context, id int64) (int64, error)
	Delete(ctx context.Context, id, ownerID int64) (bool, error)
}

type Service interface {
	Create(ctx context.Context, ownerID int64, title, author, category string) (*model.Book, error)
	List(ctx context.Context) ([]model.Book, error)
	Detail(ctx context.Context, id int64) (*model.Book, error)
	Delete(ctx context.Context, id, actorID int64) error
}

type service struct{ r Repo }

func New(r Repo) Service { return &service{r: r} }

func (s *service) Create(ctx context.Context, ownerID int64, title, author, category string) (*model.Book, error) {
	if title == "" || author == "" {
		return nil, makeErr(ErrBadInput)
	}
	b := &model.Book{OwnerID: ownerID, Title: title, Author: author, Category: category}
	if err := s.r.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) List(ctx context.Context) ([]model.Book, error) { return s.r.List(ctx) }

func (s *service) Detail(ctx context.Context, id int64) (*model.Book, error) {
	b, err := s.r.Detail(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	return b, nil
}

func (s *service) Delete(ctx context.Context, id, actorID int64) error {
	ownerID, err := s.r.OwnerOf(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrNotFound)
		}
		return err
	}
	if ownerID != actorID {
		return makeErr(ErrNotOwner)
	}
	ok, err := s.r.Delete(ctx, id, actorID)
	if err != nil {
		return err
	}
	if !ok {
		return makeErr(ErrNotFound)
	}
	return nil
}
