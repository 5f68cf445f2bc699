package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		name     string
		password string
		wantErr  string
	}{
		{"ok", "Passw0rd!", ""},
		{"too short", "Ab1!", "Password must be at least 8 characters"},
		{"no uppercase", "passw0rd!", "Password must contain at least one uppercase letter"},
		{"no digit", "Password!", "Password must contain at least one number"},
		{"no special", "Passw0rd", "Password must contain at least one special character"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePassword(tc.password)
			if tc.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Equal(t, tc.wantErr, err.Error())
			}
		})
	}
}

func TestValidUsername(t *testing.T) {
	assert.True(t, ValidUsername("field_tech_01"))
	assert.True(t, ValidUsername("abc"))
	assert.False(t, ValidUsername("ab"))                      // too short
	assert.False(t, ValidUsername("this_username_is_far_too_long")) // too long
	assert.False(t, ValidUsername("no spaces"))
	assert.False(t, ValidUsername("dash-user"))
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("Passw0rd!", 4) // min cost keeps the test fast
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "Passw0rd!"))
	assert.False(t, VerifyPassword(hash, "wrong"))
}
