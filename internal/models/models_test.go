package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonKeys(t *testing.T, v any) map[string]any {
	t.Helper()

	raw, err := json.Marshal(v)
	require.NoError(t, err)

	out := map[string]any{}
	require.NoError(t, json.Unmarshal(raw, &out))

	return out
}

func TestAcceptanceFlagSpelledOnce(t *testing.T) {
	user := User{ID: 1, Username: "alice", IsVerified: true, IsAcceptingMessages: true, CreatedAt: time.Now()}

	public := jsonKeys(t, user.Public())
	claims := jsonKeys(t, user.Claims())

	assert.Contains(t, public, "isAcceptingMessages")
	assert.Contains(t, claims, "isAcceptingMessages")
	assert.NotContains(t, public, "isAcceptingMessage")
}

func TestPublicUser_HidesSecrets(t *testing.T) {
	user := User{PassHash: []byte("hash"), VerifyCode: "123456"}

	public := jsonKeys(t, user.Public())

	for key := range public {
		assert.NotContains(t, []string{"password", "passHash", "verifyCode"}, key)
	}
}
