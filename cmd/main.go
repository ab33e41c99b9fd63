package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inbox_service/internal/acceptance"
	"inbox_service/internal/auth"
	"inbox_service/internal/config"
	acceptMessages "inbox_service/internal/http_server/handlers/accept_messages"
	checkUsername "inbox_service/internal/http_server/handlers/check_username"
	deleteMessage "inbox_service/internal/http_server/handlers/delete_message"
	getMessages "inbox_service/internal/http_server/handlers/get_messages"
	"inbox_service/internal/http_server/handlers/healthz"
	resendCode "inbox_service/internal/http_server/handlers/resend_code"
	sendMessage "inbox_service/internal/http_server/handlers/send_message"
	signIn "inbox_service/internal/http_server/handlers/sign_in"
	signUp "inbox_service/internal/http_server/handlers/sign_up"
	suggestMessages "inbox_service/internal/http_server/handlers/suggest_messages"
	verifyCode "inbox_service/internal/http_server/handlers/verify_code"
	"inbox_service/internal/http_server/middleware/session"
	"inbox_service/internal/inbox"
	"inbox_service/internal/intake"
	sl "inbox_service/internal/lib/logger"
	"inbox_service/internal/rabbitmq"
	"inbox_service/internal/storage/memory"
	"inbox_service/internal/storage/postgres"
	"inbox_service/internal/suggest"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

type store interface {
	auth.UserSaver
	auth.UserProvider
	acceptance.FlagStore
	intake.MessageAppender
	inbox.MessageStore
	Close()
}

type services struct {
	auth       *auth.Auth
	acceptance *acceptance.Gate
	intake     *intake.Intake
	inbox      *inbox.Manager
	suggest    *suggest.Provider
}

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("starting inbox service", slog.String("env", cfg.Env))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	storage, err := setupStorage(ctx, cfg)
	if err != nil {
		log.Error("failed to init storage", slog.String("driver", cfg.Storage.Driver), sl.Err(err))
		os.Exit(1)
	}
	defer storage.Close()

	msgBroker, err := rabbitmq.New(cfg.RabbitMQ.URL, cfg.RabbitMQ.QueueName)
	if err != nil {
		log.Error("failed to connect rabbitmq", sl.Err(err))
		os.Exit(1)
	}
	defer msgBroker.Close()

	svc := services{
		auth: auth.New(log, storage, storage, msgBroker, auth.Options{
			Secret:       cfg.Session.Secret,
			TokenTTL:     cfg.Session.TTL,
			CodeTTL:      cfg.Verification.CodeTTL,
			EmailSubject: cfg.Verification.Subject,
		}),
		acceptance: acceptance.New(log, storage),
		intake:     intake.New(log, storage, storage),
		inbox:      inbox.New(log, storage),
		suggest: suggest.New(ctx, log, suggest.Options{
			BaseURL: cfg.Suggestions.BaseURL,
			Model:   cfg.Suggestions.Model,
			APIKey:  cfg.Suggestions.APIKey,
			Timeout: cfg.Suggestions.Timeout,
		}),
	}

	router := setupRouter(log, svc, cfg.HTTPServer.RequestTimeout)

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout + cfg.HTTPServer.RequestTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server is running", slog.String("address", cfg.HTTPServer.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", sl.Err(err))
			cancel()
		}
	}()

	<-ctx.Done()

	log.Info("shutting down HTTP server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", sl.Err(err))
	} else {
		log.Info("server stopped gracefully")
	}
}

func setupStorage(ctx context.Context, cfg *config.Config) (store, error) {
	if cfg.Storage.Driver == "memory" {
		return memory.New(), nil
	}

	repo, err := postgres.New(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return repo, nil
}

func setupRouter(log *slog.Logger, svc services, requestTimeout time.Duration) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", healthz.New())

	r.Route("/api", func(r chi.Router) {
		r.Post("/sign-up", signUp.New(log, svc.auth))
		r.Post("/verify-code", verifyCode.New(log, svc.auth))
		r.Post("/resend-code", resendCode.New(log, svc.auth))
		r.Get("/check-username-unique", checkUsername.New(log, svc.auth))
		r.Post("/sign-in", signIn.New(log, svc.auth))

		r.Post("/send-message", sendMessage.New(log, svc.intake))
		r.Post("/suggest-messages", suggestMessages.New(log, svc.suggest))

		r.Group(func(r chi.Router) {
			r.Use(session.New(log, svc.auth))

			r.Get("/accept-messages", acceptMessages.NewGet(log, svc.acceptance))
			r.Post("/accept-messages", acceptMessages.NewSet(log, svc.acceptance))
			r.Get("/get-messages", getMessages.New(log, svc.inbox))
			r.Delete("/delete-message/{"+deleteMessage.URLParam+"}", deleteMessage.New(log, svc.inbox))
		})
	})

	return r
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}
