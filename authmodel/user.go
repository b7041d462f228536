// Package authmodel holds the wire models exchanged with the codejam
// authentication gateway, and the client-side User record derived from them.
package authmodel

import (
	"encoding/json"

	"github.com/codejam-dev/auth-client/internal/utils"
)

// User is the client's view of an account. It is immutable once built from a
// gateway payload and replaced wholesale on any state-changing auth call.
type User struct {
	UserID    string `json:"userId"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	IsEnabled bool   `json:"isEnabled"`
}

// ParseUser decodes a serialized User as persisted in the credential store.
func ParseUser(data string) (User, error) {
	var u User
	if err := json.Unmarshal([]byte(data), &u); err != nil {
		return User{}, err
	}
	return u, nil
}

// Serialize renders the User for the credential store.
func (u User) Serialize() (string, error) {
	data, err := json.Marshal(u)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// EnabledFlag normalizes the gateway's two spellings of the account
// enablement flag. Newer responses carry "isEnabled", legacy ones "enabled";
// when both are absent the account is treated as not enabled.
func EnabledFlag(isEnabled, enabled *bool) bool {
	if isEnabled != nil {
		return utils.Value(isEnabled)
	}
	if enabled != nil {
		return utils.Value(enabled)
	}
	return false
}
