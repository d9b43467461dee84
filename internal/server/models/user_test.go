package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestEmailKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a@x.com", "a@x.com"},
		{"A@X.Com", "a@x.com"},
		{"  Mixed@Case.ORG ", "mixed@case.org"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EmailKey(tt.in))
	}
}

func TestUserPatch_Apply_OnlySetFields(t *testing.T) {
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	u := &User{ID: "id-1", Email: "a@x.com", FirstName: "Ann", LastName: "Lee", PasswordHash: "h", CreatedAt: created}

	UserPatch{FirstName: strPtr("Jo"), Email: strPtr(" B@x.com ")}.Apply(u)

	assert.Equal(t, "id-1", u.ID)
	assert.Equal(t, "B@x.com", u.Email)
	assert.Equal(t, "Jo", u.FirstName)
	assert.Equal(t, "Lee", u.LastName)
	assert.Equal(t, "h", u.PasswordHash)
	assert.True(t, u.CreatedAt.Equal(created))
}

func TestUserPatch_Apply_PlainPasswordIgnored(t *testing.T) {
	u := &User{PasswordHash: "h"}
	UserPatch{Password: strPtr("plaintext-password")}.Apply(u)
	assert.Equal(t, "h", u.PasswordHash)
}

func TestNewPublicUser_HasNoPassword(t *testing.T) {
	u := &User{ID: "1", Email: "a@x.com", PasswordHash: "secret-hash", Username: "ann"}
	pu := NewPublicUser(u)

	b, err := json.Marshal(pu)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.NotContains(t, m, "password")
	assert.NotContains(t, m, "passwordHash")
	assert.NotContains(t, string(b), "secret-hash")
	assert.Equal(t, "1", m["id"])
	assert.Equal(t, "ann", m["username"])
}

func TestNewPublicUsers(t *testing.T) {
	out := NewPublicUsers([]*User{{ID: "1"}, {ID: "2"}})
	require.Len(t, out, 2)
	assert.Equal(t, "2", out[1].ID)

	assert.NotNil(t, NewPublicUsers(nil))
}
