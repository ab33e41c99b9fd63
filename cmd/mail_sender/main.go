package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"inbox_service/internal/config"
	sl "inbox_service/internal/lib/logger"
	"inbox_service/internal/mailer"
	"inbox_service/internal/models"
	"inbox_service/internal/rabbitmq"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

type sender interface {
	Send(email models.EmailMessage) error
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()
	log := setupLogger(cfg.Env)

	log.Info("starting mail sender", slog.String("env", cfg.Env))

	startConsumer(ctx, cfg, log)
}

func startConsumer(ctx context.Context, cfg *config.Config, log *slog.Logger) {
	r, err := rabbitmq.New(cfg.RabbitMQ.URL, cfg.RabbitMQ.QueueName)
	if err != nil {
		log.Error("failed to init rabbitmq", sl.Err(err))
		return
	}
	defer r.Close()

	m := &mailer.Mailer{
		Host:     cfg.Email.Host,
		Port:     cfg.Email.Port,
		Username: cfg.Email.Username,
		Password: cfg.Email.Password,
		From:     cfg.Email.From,
	}

	done := make(chan struct{})

	go func() {
		defer close(done)

		if err := r.StartReading(ctx, handleDelivery(log, m)); err != nil {
			log.Error("consumer stopped", sl.Err(err))
		}
	}()

	log.Info("consumer successfully started", slog.String("queue", cfg.RabbitMQ.QueueName))

	select {
	case <-ctx.Done():
		log.Info("shutting down consumer...")
		<-done
	case <-done:
		log.Info("consumer finished the work")
	}

	log.Info("service gracefully stopped")
}

// handleDelivery drops malformed payloads; they would never succeed on redelivery.
// A failed send is returned so the delivery goes back on the queue.
func handleDelivery(log *slog.Logger, s sender) func(body []byte) error {
	return func(body []byte) error {
		var email models.EmailMessage
		if err := json.Unmarshal(body, &email); err != nil {
			log.Error("failed to unmarshal message", sl.Err(err))
			return nil
		}

		if email.Email == "" {
			log.Warn("message without recipient dropped")
			return nil
		}

		if err := s.Send(email); err != nil {
			log.Error("failed to send message", sl.Err(err))
			return err
		}

		log.Info("message sent successfully")

		return nil
	}
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
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}
