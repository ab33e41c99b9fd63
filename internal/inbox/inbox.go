package inbox

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"inbox_service/internal/apperror"
	sl "inbox_service/internal/lib/logger"
	"inbox_service/internal/models"
	"inbox_service/internal/storage"

	"github.com/google/uuid"
)

type MessageStore interface {
	Messages(ctx context.Context, userID int64) ([]models.Message, error)
	DeleteMessage(ctx context.Context, userID int64, messageID uuid.UUID) error
}

// Manager gives an owner read and delete access to their own inbox.
type Manager struct {
	log      *slog.Logger
	messages MessageStore
}

func New(log *slog.Logger, messages MessageStore) *Manager {
	return &Manager{
		log:      log,
		messages: messages,
	}
}

// List returns the owner's messages, newest first.
func (m *Manager) List(ctx context.Context, claims models.Claims) ([]models.Message, error) {
	const op = "inbox.List"

	msgs, err := m.messages.Messages(ctx, claims.UserID)
	if err != nil {
		m.log.Error("failed to load inbox",
			slog.String("op", op),
			slog.Int64("uid", claims.UserID),
			sl.Err(err),
		)

		return nil, apperror.NewInternal("Internal server error", fmt.Errorf("%s: %w", op, err))
	}

	if msgs == nil {
		return []models.Message{}, nil
	}

	slices.SortStableFunc(msgs, func(a, b models.Message) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	return msgs, nil
}

// Delete removes messageID from the owner's inbox. Ids belonging to other
// users are reported exactly like ids that do not exist.
func (m *Manager) Delete(ctx context.Context, claims models.Claims, messageID string) error {
	const op = "inbox.Delete"

	log := m.log.With(
		slog.String("op", op),
		slog.Int64("uid", claims.UserID),
	)

	id, err := uuid.Parse(messageID)
	if err != nil {
		return apperror.NewNotFound("Message not found or already deleted", err)
	}

	if err := m.messages.DeleteMessage(ctx, claims.UserID, id); err != nil {
		if errors.Is(err, storage.ErrMessageNotFound) {
			return apperror.NewNotFound("Message not found or already deleted", err)
		}

		log.Error("failed to delete message", sl.Err(err))

		return apperror.NewInternal("Error deleting message", fmt.Errorf("%s: %w", op, err))
	}

	log.Info("message deleted", slog.String("message_id", id.String()))

	return nil
}
