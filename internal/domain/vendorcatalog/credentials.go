package vendorcatalog

import (
	"fmt"
	"strings"
)

// Credentials is the immutable credential bundle of one vendor connection.
// Fields are unexported so a value cannot be changed after construction;
// it is safe to copy and share between concurrent queries.
type Credentials struct {
	accountID string
	username  string
	secret    string
}

// NewCredentials creates vendor credentials. The account identifier and the
// secret are required; the username is optional (API-key vendors have none).
func NewCredentials(accountID, username, secret string) (Credentials, error) {
	accountID = strings.TrimSpace(accountID)
	username = strings.TrimSpace(username)
	if accountID == "" {
		return Credentials{}, fmt.Errorf("%w: account identifier is required", ErrInvalidCredentials)
	}
	if secret == "" {
		return Credentials{}, fmt.Errorf("%w: secret is required", ErrInvalidCredentials)
	}
	return Credentials{
		accountID: accountID,
		username:  username,
		secret:    secret,
	}, nil
}

// AccountID returns the vendor account or customer number
func (c Credentials) AccountID() string {
	return c.accountID
}

// Username returns the vendor user name, empty for API-key vendors
func (c Credentials) Username() string {
	return c.username
}

// Secret returns the password or API key. Never log it.
func (c Credentials) Secret() string {
	return c.secret
}

// IsZero returns true for credentials that were never constructed
func (c Credentials) IsZero() bool {
	return c.accountID == "" && c.secret == ""
}

// RequireUsername returns ErrInvalidCredentials when the username is missing
func (c Credentials) RequireUsername() error {
	if c.username == "" {
		return fmt.Errorf("%w: username is required", ErrInvalidCredentials)
	}
	return nil
}

// Redacted returns a log-safe form: the account id with all but its last
// four characters masked. The secret is never included.
func (c Credentials) Redacted() string {
	return maskTail(c.accountID, 4)
}

// String implements fmt.Stringer without exposing the secret
func (c Credentials) String() string {
	if c.username == "" {
		return fmt.Sprintf("Credentials{account=%s}", c.Redacted())
	}
	return fmt.Sprintf("Credentials{account=%s, user=%s}", c.Redacted(), c.username)
}

// GoString keeps %#v from printing the secret
func (c Credentials) GoString() string {
	return c.String()
}

func maskTail(s string, visible int) string {
	if len(s) <= visible {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-visible) + s[len(s)-visible:]
}
