package intake

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"inbox_service/internal/apperror"
	"inbox_service/internal/models"
	"inbox_service/internal/storage/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func seed(t *testing.T, store *memory.Store, username string, accepting bool) int64 {
	t.Helper()

	id, err := store.SaveUser(context.Background(), models.User{
		Username:            username,
		Email:               username + "@example.com",
		IsVerified:          true,
		IsAcceptingMessages: accepting,
	})
	require.NoError(t, err)

	return id
}

func TestSubmit_DeliversThenRejectsAfterToggle(t *testing.T) {
	store := memory.New()
	alice := seed(t, store, "alice", true)
	in := New(discard, store, store)
	ctx := context.Background()

	before := time.Now()
	id, err := in.Submit(ctx, "alice", "Hello")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)

	inbox, err := store.Messages(ctx, alice)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, id, inbox[0].ID)
	assert.Equal(t, "Hello", inbox[0].Content)
	assert.False(t, inbox[0].CreatedAt.Before(before))

	_, err = store.SetAcceptingMessages(ctx, alice, false)
	require.NoError(t, err)

	_, err = in.Submit(ctx, "alice", "Hi")
	assert.True(t, apperror.Is(err, apperror.RecipientNotAccepting))

	inbox, err = store.Messages(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, inbox, 1)
}

func TestSubmit_FreshIDs(t *testing.T) {
	store := memory.New()
	seed(t, store, "alice", true)
	in := New(discard, store, store)

	first, err := in.Submit(context.Background(), "alice", "one")
	require.NoError(t, err)
	second, err := in.Submit(context.Background(), "alice", "one")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestSubmit_Rejections(t *testing.T) {
	store := memory.New()
	seed(t, store, "alice", true)
	in := New(discard, store, store)

	tests := []struct {
		name    string
		target  string
		content string
		kind    apperror.Kind
	}{
		{name: "unknown recipient", target: "nobody", content: "hey", kind: apperror.RecipientNotFound},
		{name: "username is case sensitive", target: "Alice", content: "hey", kind: apperror.RecipientNotFound},
		{name: "empty content", target: "alice", content: "", kind: apperror.InvalidContent},
		{name: "blank content", target: "alice", content: "  \n\t ", kind: apperror.InvalidContent},
		{name: "too long", target: "alice", content: strings.Repeat("a", MaxContentLength+1), kind: apperror.InvalidContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := in.Submit(context.Background(), tt.target, tt.content)
			require.Error(t, err)
			assert.Equal(t, tt.kind, apperror.KindOf(err))
			assert.Equal(t, uuid.Nil, id)
		})
	}
}

func TestValidateContent_CountsRunes(t *testing.T) {
	assert.NoError(t, ValidateContent(strings.Repeat("ж", MaxContentLength)))
	assert.Error(t, ValidateContent(strings.Repeat("ж", MaxContentLength+1)))
}

func TestMessage_CarriesNoSenderInfo(t *testing.T) {
	raw, err := json.Marshal(models.Message{ID: uuid.New(), Content: "x", CreatedAt: time.Now()})
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))

	assert.ElementsMatch(t, []string{"_id", "content", "createdAt"}, keys(fields))
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

// Messages racing a flag flip may land either side of it; the only
// guarantee is that submissions after the flip completes are refused.
func TestSubmit_ConcurrentWithToggle(t *testing.T) {
	store := memory.New()
	alice := seed(t, store, "alice", true)
	in := New(discard, store, store)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = in.Submit(ctx, "alice", "racing")
		}()
	}

	_, err := store.SetAcceptingMessages(ctx, alice, false)
	require.NoError(t, err)
	wg.Wait()

	inbox, err := store.Messages(ctx, alice)
	require.NoError(t, err)
	delivered := len(inbox)
	assert.LessOrEqual(t, delivered, 20)

	_, err = in.Submit(ctx, "alice", "late")
	assert.True(t, apperror.Is(err, apperror.RecipientNotAccepting))

	inbox, err = store.Messages(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, inbox, delivered)
}
