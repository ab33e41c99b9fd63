package acceptance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"inbox_service/internal/apperror"
	sl "inbox_service/internal/lib/logger"
	"inbox_service/internal/models"
	"inbox_service/internal/storage"
)

type FlagStore interface {
	AcceptingMessages(ctx context.Context, userID int64) (bool, error)
	SetAcceptingMessages(ctx context.Context, userID int64, accepting bool) (models.User, error)
}

// Gate owns a user's isAcceptingMessages flag. The session snapshot of the
// flag is never consulted; every read goes to the store.
type Gate struct {
	log   *slog.Logger
	flags FlagStore
}

func New(log *slog.Logger, flags FlagStore) *Gate {
	return &Gate{
		log:   log,
		flags: flags,
	}
}

func (g *Gate) Status(ctx context.Context, claims models.Claims) (bool, error) {
	const op = "acceptance.Status"

	accepting, err := g.flags.AcceptingMessages(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return false, apperror.NewNotFound("User not found", err)
		}

		g.log.Error("failed to read acceptance flag",
			slog.String("op", op),
			slog.Int64("uid", claims.UserID),
			sl.Err(err),
		)

		return false, apperror.NewInternal("Error retrieving message acceptance status", fmt.Errorf("%s: %w", op, err))
	}

	return accepting, nil
}

// SetStatus stores desired and returns the updated record.
// Setting the value the user already has is not an error.
func (g *Gate) SetStatus(ctx context.Context, claims models.Claims, desired bool) (models.User, error) {
	const op = "acceptance.SetStatus"

	log := g.log.With(
		slog.String("op", op),
		slog.Int64("uid", claims.UserID),
	)

	user, err := g.flags.SetAcceptingMessages(ctx, claims.UserID, desired)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Warn("user vanished before status update")

			return models.User{}, apperror.NewUpdateFailed("Failed to update user status to accept messages", err)
		}

		log.Error("failed to update acceptance flag", sl.Err(err))

		return models.User{}, apperror.NewInternal("Error updating message acceptance status", fmt.Errorf("%s: %w", op, err))
	}

	log.Info("acceptance flag updated", slog.Bool("accepting", desired))

	return user, nil
}
