package models

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUserStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    UserStatus
		wantErr bool
	}{
		{in: "Active", want: UserStatusActive},
		{in: "inactive", want: UserStatusInactive},
		{in: "  ACTIVE ", want: UserStatusActive},
		{in: "", wantErr: true},
		{in: "Suspended", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseUserStatus(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidUserStatus)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)

	assert.NotContains(t, hash, "secret123")
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

	u := User{Password: hash}
	assert.True(t, u.VerifyPassword("secret123"))
	assert.False(t, u.VerifyPassword("secret124"))

	broken := User{Password: "not-a-hash"}
	assert.False(t, broken.VerifyPassword("secret123"))
}

func TestUserMarshalJSON(t *testing.T) {
	roleID := uint(3)

	tests := []struct {
		name     string
		user     User
		wantRole map[string]any
	}{
		{
			name: "role narrowed to id and name",
			user: User{
				ID: 1, Name: "Ann", RoleID: &roleID,
				Role: &Role{ID: roleID, Name: "Editor", Description: "edits", Permissions: []Permission{{ID: 9, Name: "view_users"}}},
			},
			wantRole: map[string]any{"id": float64(3), "name": "Editor"},
		},
		{
			name: "no role",
			user: User{ID: 2, Name: "Bob"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := json.Marshal(tt.user)
			require.NoError(t, err)

			var out map[string]any
			require.NoError(t, json.Unmarshal(raw, &out))

			assert.NotContains(t, out, "password")
			assert.Equal(t, tt.user.Name, out["name"])

			if tt.wantRole == nil {
				assert.NotContains(t, out, "roles")
				return
			}

			assert.Equal(t, tt.wantRole, out["roles"])
		})
	}
}
