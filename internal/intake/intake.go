package intake

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"inbox_service/internal/apperror"
	sl "inbox_service/internal/lib/logger"
	"inbox_service/internal/models"
	"inbox_service/internal/storage"

	"github.com/google/uuid"
)

const MaxContentLength = 300

type RecipientProvider interface {
	UserByUsername(ctx context.Context, username string) (models.User, error)
}

type MessageAppender interface {
	AddMessage(ctx context.Context, userID int64, msg models.Message) error
}

// Intake accepts anonymous messages for a named recipient.
// Nothing about the sender is recorded.
type Intake struct {
	log        *slog.Logger
	recipients RecipientProvider
	messages   MessageAppender
	now        func() time.Time
}

func New(log *slog.Logger, recipients RecipientProvider, messages MessageAppender) *Intake {
	return &Intake{
		log:        log,
		recipients: recipients,
		messages:   messages,
		now:        time.Now,
	}
}

// ValidateContent reports InvalidContent for blank or oversized content.
func ValidateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return apperror.NewInvalidContent("Message content must not be empty")
	}

	if utf8.RuneCountInString(content) > MaxContentLength {
		return apperror.NewInvalidContent(fmt.Sprintf("Message content must be no longer than %d characters", MaxContentLength))
	}

	return nil
}

// * Submit appends content to the inbox of targetUsername.
// The accepting flag is read and the message appended in two steps; a flag
// flip landing between them can let one message through.
func (i *Intake) Submit(ctx context.Context, targetUsername, content string) (uuid.UUID, error) {
	const op = "intake.Submit"

	log := i.log.With(slog.String("op", op))

	if err := ValidateContent(content); err != nil {
		return uuid.Nil, err
	}

	recipient, err := i.recipients.UserByUsername(ctx, targetUsername)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return uuid.Nil, apperror.NewRecipientNotFound("User not found")
		}

		log.Error("failed to get recipient", sl.Err(err))

		return uuid.Nil, apperror.NewInternal("Internal server error", fmt.Errorf("%s: %w", op, err))
	}

	if !recipient.IsAcceptingMessages {
		return uuid.Nil, apperror.NewRecipientNotAccepting("User is not accepting messages")
	}

	msg := models.Message{
		ID:        uuid.New(),
		Content:   content,
		CreatedAt: i.now(),
	}

	if err := i.messages.AddMessage(ctx, recipient.ID, msg); err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return uuid.Nil, apperror.NewRecipientNotFound("User not found")
		}

		log.Error("failed to append message", sl.Err(err))

		return uuid.Nil, apperror.NewInternal("Internal server error", fmt.Errorf("%s: %w", op, err))
	}

	log.Debug("message delivered", slog.String("message_id", msg.ID.String()))

	return msg.ID, nil
}
