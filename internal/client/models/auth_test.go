package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePasswordUpdateStatus(t *testing.T) {
	for raw, want := range map[string]PasswordUpdateStatus{
		"DONE":      PasswordUpdateDone,
		"INCORRECT": PasswordUpdateIncorrect,
		"ALREADY":   PasswordUpdateAlreadyUsed,
	} {
		got, err := ParsePasswordUpdateStatus(raw)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, raw, got.String())
	}

	_, err := ParsePasswordUpdateStatus("MAYBE")
	require.ErrorIs(t, err, ErrUnknownPasswordStatus)
}

func TestPasswordUpdateResponse_JSON(t *testing.T) {
	var resp PasswordUpdateResponse
	require.NoError(t, json.Unmarshal([]byte(`{"status":"ALREADY","message":"reused"}`), &resp))
	assert.Equal(t, PasswordUpdateAlreadyUsed, resp.Status)

	err := json.Unmarshal([]byte(`{"status":"WHAT"}`), &resp)
	require.ErrorIs(t, err, ErrUnknownPasswordStatus)
}

func TestUser_PasswordOmitted(t *testing.T) {
	b, err := json.Marshal(User{Email: "a@b.co"})
	require.NoError(t, err)
	assert.NotContains(t, string(b), "password")
	assert.Contains(t, string(b), `"id":null`)
}

func TestAuthResponse_User(t *testing.T) {
	r := AuthResponse{AccessToken: "t", ID: 7, Email: "a@b.co"}
	assert.Equal(t, CurrentUser{ID: 7, Email: "a@b.co"}, r.User())
	assert.Equal(t, &UserRef{ID: 7}, r.User().Ref())
}
