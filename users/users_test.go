package users_test

import (
	"strings"
	"testing"

	"authgate/users"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name       string
		password   string
		wantValid  bool
		wantInMsgs []string
	}{
		{
			name:      "meets policy",
			password:  "Password1",
			wantValid: true,
		},
		{
			name:       "missing uppercase",
			password:   "password1",
			wantValid:  false,
			wantInMsgs: []string{"uppercase"},
		},
		{
			name:       "missing lowercase",
			password:   "PASSWORD1",
			wantValid:  false,
			wantInMsgs: []string{"lowercase"},
		},
		{
			name:       "missing number",
			password:   "Passwords",
			wantValid:  false,
			wantInMsgs: []string{"number"},
		},
		{
			name:       "short accumulates every violation",
			password:   "short",
			wantValid:  false,
			wantInMsgs: []string{"8 characters", "uppercase", "number"},
		},
		{
			name:       "empty password",
			password:   "",
			wantValid:  false,
			wantInMsgs: []string{"8 characters", "uppercase", "lowercase", "number"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			valid, violations := users.ValidatePassword(tc.password)
			assert.Equal(t, tc.wantValid, valid)
			if tc.wantValid {
				assert.Empty(t, violations)
				return
			}
			for _, want := range tc.wantInMsgs {
				found := false
				for _, v := range violations {
					if strings.Contains(v, want) {
						found = true
					}
				}
				assert.True(t, found, "expected a violation mentioning %q, got %v", want, violations)
			}
		})
	}
}

func TestCheckPassword(t *testing.T) {
	hash, err := users.HashPassword("Password1")
	require.NoError(t, err)

	ok, err := users.CheckPassword("Password1", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = users.CheckPassword("WrongPassword1", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckPasswordEmptyHashNeverMatches(t *testing.T) {
	ok, err := users.CheckPassword("Password1", "")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = users.CheckPassword("", "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckPasswordCorruptHashIsAnError(t *testing.T) {
	ok, err := users.CheckPassword("Password1", "not-a-bcrypt-hash")
	require.ErrorIs(t, err, users.ErrCorruptHash)
	assert.False(t, ok)
}
