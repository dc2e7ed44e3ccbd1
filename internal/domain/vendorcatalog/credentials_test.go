package vendorcatalog

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCredentials(t *testing.T) {
	tests := []struct {
		name      string
		accountID string
		username  string
		secret    string
		wantErr   bool
	}{
		{"full credentials", "123456", "reseller", "s3cret", false},
		{"api key without username", "98765", "", "key-abc", false},
		{"missing account", "  ", "reseller", "s3cret", true},
		{"missing secret", "123456", "reseller", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creds, err := NewCredentials(tt.accountID, tt.username, tt.secret)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCredentials)
				assert.True(t, creds.IsZero())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.accountID, creds.AccountID())
			assert.Equal(t, tt.username, creds.Username())
			assert.Equal(t, tt.secret, creds.Secret())
			assert.False(t, creds.IsZero())
		})
	}
}

func TestCredentials_RequireUsername(t *testing.T) {
	withUser, err := NewCredentials("123456", "reseller", "s3cret")
	require.NoError(t, err)
	assert.NoError(t, withUser.RequireUsername())

	withoutUser, err := NewCredentials("123456", "", "s3cret")
	require.NoError(t, err)
	assert.ErrorIs(t, withoutUser.RequireUsername(), ErrInvalidCredentials)
}

func TestCredentials_NeverExposeSecret(t *testing.T) {
	creds, err := NewCredentials("12345678", "reseller", "topsecret")
	require.NoError(t, err)

	assert.Equal(t, "****5678", creds.Redacted())
	for _, out := range []string{
		creds.String(),
		fmt.Sprintf("%v", creds),
		fmt.Sprintf("%+v", creds),
		fmt.Sprintf("%#v", creds),
	} {
		assert.NotContains(t, out, "topsecret")
		assert.NotContains(t, out, "12345678")
	}
	assert.Contains(t, creds.String(), "reseller")
}

func TestCredentials_RedactedShortAccount(t *testing.T) {
	creds, err := NewCredentials("123", "", "key")
	require.NoError(t, err)
	assert.Equal(t, "***", creds.Redacted())
}
