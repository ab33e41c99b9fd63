package inbox

import (
	"context"
	"io"
	"log/slog"
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

func seed(t *testing.T, store *memory.Store, username string) models.Claims {
	t.Helper()

	user := models.User{
		Username:            username,
		Email:               username + "@example.com",
		IsVerified:          true,
		IsAcceptingMessages: true,
	}

	id, err := store.SaveUser(context.Background(), user)
	require.NoError(t, err)
	user.ID = id

	return user.Claims()
}

func TestList_NewestFirst(t *testing.T) {
	store := memory.New()
	alice := seed(t, store, "alice")
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	// appended out of order on purpose
	for _, offset := range []int{2, 0, 3, 1} {
		require.NoError(t, store.AddMessage(ctx, alice.UserID, models.Message{
			ID:        uuid.New(),
			Content:   "msg",
			CreatedAt: base.Add(time.Duration(offset) * time.Minute),
		}))
	}

	msgs, err := New(discard, store).List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, msgs, 4)

	for i := 1; i < len(msgs); i++ {
		assert.True(t, msgs[i-1].CreatedAt.After(msgs[i].CreatedAt))
	}
	assert.Equal(t, base.Add(3*time.Minute), msgs[0].CreatedAt)
}

func TestList_EqualTimestampsKeepStoreOrder(t *testing.T) {
	store := memory.New()
	alice := seed(t, store, "alice")
	ctx := context.Background()
	at := time.Now()

	first := models.Message{ID: uuid.New(), Content: "first", CreatedAt: at}
	second := models.Message{ID: uuid.New(), Content: "second", CreatedAt: at}
	require.NoError(t, store.AddMessage(ctx, alice.UserID, first))
	require.NoError(t, store.AddMessage(ctx, alice.UserID, second))

	msgs, err := New(discard, store).List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, first.ID, msgs[0].ID)
	assert.Equal(t, second.ID, msgs[1].ID)
}

func TestList_Empty(t *testing.T) {
	store := memory.New()
	alice := seed(t, store, "alice")

	msgs, err := New(discard, store).List(context.Background(), alice)
	require.NoError(t, err)
	assert.NotNil(t, msgs)
	assert.Empty(t, msgs)
}

func TestDelete_OwnerScoped(t *testing.T) {
	store := memory.New()
	alice := seed(t, store, "alice")
	bob := seed(t, store, "bob")
	ctx := context.Background()
	mgr := New(discard, store)

	msg := models.Message{ID: uuid.New(), Content: "for bob", CreatedAt: time.Now()}
	require.NoError(t, store.AddMessage(ctx, bob.UserID, msg))

	err := mgr.Delete(ctx, alice, msg.ID.String())
	assert.True(t, apperror.Is(err, apperror.NotFound))

	msgs, err := mgr.List(ctx, bob)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)

	require.NoError(t, mgr.Delete(ctx, bob, msg.ID.String()))

	msgs, err = mgr.List(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, msgs)

	err = mgr.Delete(ctx, bob, msg.ID.String())
	assert.True(t, apperror.Is(err, apperror.NotFound))
}

func TestDelete_MalformedID(t *testing.T) {
	store := memory.New()
	alice := seed(t, store, "alice")

	err := New(discard, store).Delete(context.Background(), alice, "not-a-uuid")
	assert.True(t, apperror.Is(err, apperror.NotFound))
}
