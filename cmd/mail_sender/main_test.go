package main

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"inbox_service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []models.EmailMessage
	err  error
}

func (f *fakeSender) Send(email models.EmailMessage) error {
	f.sent = append(f.sent, email)
	return f.err
}

func TestHandleDelivery(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := &fakeSender{}
	handle := handleDelivery(log, s)

	require.NoError(t, handle([]byte(`{"to":"alice@example.com","subject":"Code","body":"123456"}`)))

	require.Len(t, s.sent, 1)
	assert.Equal(t, models.EmailMessage{Email: "alice@example.com", Subject: "Code", Body: "123456"}, s.sent[0])
}

func TestHandleDelivery_DropsMalformed(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := &fakeSender{}
	handle := handleDelivery(log, s)

	assert.NoError(t, handle([]byte(`not json`)))
	assert.NoError(t, handle([]byte(`{"subject":"no recipient"}`)))
	assert.Empty(t, s.sent)
}

func TestHandleDelivery_SendFailureIsReturned(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	smtpErr := errors.New("smtp down")
	s := &fakeSender{err: smtpErr}

	err := handleDelivery(log, s)([]byte(`{"to":"a@b.c","subject":"s","body":"b"}`))
	assert.ErrorIs(t, err, smtpErr)
	assert.Len(t, s.sent, 1)
}
