package verification

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"

	sl "inbox_service/internal/lib/logger"
	"inbox_service/internal/models"
)

const codeDigits = 6

type Publisher interface {
	SendEmail(ctx context.Context, msg models.EmailMessage) error
}

// NewCode returns a random zero-padded 6 digit code.
func NewCode() (string, error) {
	limit := big.NewInt(1_000_000)

	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%0*d", codeDigits, n.Int64()), nil
}

// SendCode publishes the verification e-mail for username.
func SendCode(
	ctx context.Context,
	log *slog.Logger,
	pub Publisher,
	subject string,
	email, username, code string,
) error {
	const op = "verification.SendCode"

	msg := models.EmailMessage{
		Email:   email,
		Subject: subject,
		Body:    Body(username, code),
	}

	if err := pub.SendEmail(ctx, msg); err != nil {
		log.Error("failed to publish verification email", slog.String("op", op), sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func Body(username, code string) string {
	return fmt.Sprintf(
		"Hello %s,\n\nThank you for registering. Please use the following verification code to complete your registration:\n\n%s\n\nIf you did not request this code, please ignore this email.\n",
		username, code,
	)
}
