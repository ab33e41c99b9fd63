package verification

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"testing"

	"inbox_service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	sent []models.EmailMessage
	err  error
}

func (f *fakePublisher) SendEmail(_ context.Context, msg models.EmailMessage) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestNewCode_Format(t *testing.T) {
	re := regexp.MustCompile(`^\d{6}$`)

	for i := 0; i < 100; i++ {
		code, err := NewCode()
		require.NoError(t, err)
		assert.Regexp(t, re, code)
	}
}

func TestSendCode(t *testing.T) {
	pub := &fakePublisher{}

	err := SendCode(context.Background(), discard, pub, "Verify", "alice@example.com", "alice", "012345")
	require.NoError(t, err)

	require.Len(t, pub.sent, 1)
	assert.Equal(t, "alice@example.com", pub.sent[0].Email)
	assert.Equal(t, "Verify", pub.sent[0].Subject)
	assert.Contains(t, pub.sent[0].Body, "012345")
	assert.Contains(t, pub.sent[0].Body, "alice")
}

func TestSendCode_PublishError(t *testing.T) {
	boom := errors.New("broker down")
	pub := &fakePublisher{err: boom}

	err := SendCode(context.Background(), discard, pub, "Verify", "a@b.c", "a", "000000")
	assert.ErrorIs(t, err, boom)
}
