package echoServer

import (
	"booklend/app/echoServer/controller/auth"
	"booklend/app/echoServer/controller/book"
	"booklend/app/echoServer/controller/loan"
	"booklend/app/echoServer/controller/review"
	"booklend/util/token"

	"github.com/labstack/echo/v4"
)

type C struct {
	Auth   *auth.Controller
	Book   *book.Controller
	Loan   *loan.Controller
	Review *review.Controller

	Tokens *token.Service
}

func Register(e *echo.Echo, c C) {
	// Public
	pub := e.Group("/v1")
	pub.POST("/users/register", c.Auth.Register)
	pub.POST("/users/login", c.Auth.Login)

	// Review reads are public.
	pub.GET("/users/:id/reviews", c.Review.ForUser)
	pub.GET("/users/:id/reviews/stats", c.Review.Stats)

	// Authenticated
	authed := e.Group("/v1")
	authed.Use(JWTAuth(c.Tokens))

	authed.POST("/books", c.Book.Create)
	authed.GET("/books", c.Book.List)
	authed.GET("/books/:id", c.Book.Detail)
	authed.DELETE("/books/:id", c.Book.Delete)

	authed.POST("/loans", c.Loan.Request)
	authed.POST("/loans/:id/approve", c.Loan.Approve)
	authed.POST("/loans/:id/decline", c.Loan.Decline)
	authed.POST("/loans/:id/complete", c.Loan.Complete)
	authed.GET("/loans/received", c.Loan.Received)
	authed.GET("/loans/borrowed", c.Loan.Borrowed)

	authed.POST("/loans/:id/reviews", c.Review.Submit)
}
