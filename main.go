// Package main booklend API.
//
// @title           booklend API
// @version         1.0
// @description     peer-to-peer book lending (books, loans, reviews, users).
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"booklend/app/echoServer"
	authctrl "booklend/app/echoServer/controller/auth"
	bookctrl "booklend/app/echoServer/controller/book"
	loanctrl "booklend/app/echoServer/controller/loan"
	reviewctrl "booklend/app/echoServer/controller/review"
	"booklend/app/echoServer/validation"
	"booklend/config"
	bookrepo "booklend/repository/book"
	loanrepo "booklend/repository/loan"
	reviewrepo "booklend/repository/review"
	userrepo "booklend/repository/user"
	authsvc "booklend/service/auth"
	booksvc "booklend/service/book"
	loansvc "booklend/service/loan"
	reviewsvc "booklend/service/review"
	"booklend/util/database"
	"booklend/util/token"
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// DB
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db, cfg.MigrationsDir); err != nil {
		log.Error("migrations failed", "err", err)
		os.Exit(1)
	}

	// tokens
	tokens, err := token.New(cfg.JWTSecret, time.Duration(cfg.TokenTTLHours)*time.Hour)
	if err != nil {
		log.Error("token service init failed", "err", err)
		os.Exit(1)
	}

	// repos
	ur := userrepo.New(db)
	br := bookrepo.New(db)
	lr := loanrepo.New(db)
	rr := reviewrepo.New(db)

	// services
	as := authsvc.New(ur, tokens)
	bs := booksvc.New(br)
	ls := loansvc.New(lr, br)
	rs := reviewsvc.New(rr, lr)

	// controllers
	v := validator.New()
	authC := &authctrl.Controller{Svc: as, V: v, Log: log}
	bookC := &bookctrl.Controller{Svc: bs, V: v, Log: log}
	loanC := &loanctrl.Controller{Svc: ls, V: v, Log: log}
	reviewC := &reviewctrl.Controller{Svc: rs, V: v, Log: log}

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Auth:   authC,
		Book:   bookC,
		Loan:   loanC,
		Review: reviewC,

		Tokens: tokens,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}
	if port == "" {
		port = "8080"
	}

	slog.Info("starting server", "port", port, "env", cfg.Env)

	e.Logger.Fatal(e.Start(":" + port))
}
