package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	adapthttp "boxtracker/internal/adapter/http"
	"boxtracker/internal/adapter/postgres"
	"boxtracker/internal/app"

	"github.com/sirupsen/logrus"
)

func main() {
	log := setupLogger(env("LOG_LEVEL", "info"))

	addr := env("ADDR", ":8080")
	webDir := env("WEB_DIR", "web")

	connStr := os.Getenv("DATABASE_URL")
	if connStr == "" {
		log.Fatal("DATABASE_URL is required")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	db, err := postgres.Open(connStr)
	if err != nil {
		log.WithError(err).Fatal("db open")
	}
	defer func() { _ = db.Close() }()

	boxSvc := app.NewBoxService(db)
	authSvc := app.NewAuthService(db, []byte(secret))

	var oidcCfg *adapthttp.OIDCConfig
	strategies := []adapthttp.Strategy{adapthttp.NewTokenStrategy(authSvc)}
	if issuer := os.Getenv("OIDC_ISSUER"); issuer != "" {
		oidcCfg, err = adapthttp.NewOIDC(context.Background(), issuer,
			os.Getenv("OIDC_CLIENT_ID"),
			os.Getenv("OIDC_CLIENT_SECRET"),
			os.Getenv("OIDC_REDIRECT_URL"),
		)
		if err != nil {
			log.WithError(err).Fatal("oidc setup")
		}
		strategies = append(strategies, adapthttp.NewOIDCStrategy(oidcCfg, authSvc))
	}
	resolver := adapthttp.NewResolver(strategies...)

	srv := adapthttp.New(boxSvc, authSvc, resolver, oidcCfg, webDir, log)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      srv.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.WithField("addr", addr).Info("listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.WithError(err).Fatal("shutdown error")
	}
}

func setupLogger(level string) *logrus.Entry {
	l := logrus.New()
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
	return logrus.NewEntry(l)
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
