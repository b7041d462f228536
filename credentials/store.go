// Package credentials persists the client's tokens and pending-verification
// state across runs. Keys are stable and namespaced; values are opaque
// strings owned by the session manager.
package credentials

type Key string

const (
	KeyAuthToken            Key = "codejam_auth_token"
	KeyTempToken            Key = "codejam_temp_token"
	KeyUserData             Key = "codejam_user_data"
	KeyPendingEmail         Key = "codejam_pending_email"
	KeyPendingTransactionID Key = "codejam_pending_transaction_id"
)

// AllKeys lists every key the store manages, in the order they are cleared
// on logout.
var AllKeys = []Key{
	KeyAuthToken,
	KeyTempToken,
	KeyUserData,
	KeyPendingEmail,
	KeyPendingTransactionID,
}

// Store is durable key-value storage for credentials. Get reports absence
// explicitly rather than returning an empty value; no operation panics or
// errors for a missing key.
type Store interface {
	Get(key Key) (string, bool)
	Set(key Key, value string) error
	Remove(key Key)

	// ClearSession removes the full-session keys (auth token, user data).
	ClearSession()
	// ClearPendingVerification removes the OTP-flow keys (temp token,
	// pending email, pending transaction id).
	ClearPendingVerification()
	// ClearAll removes every managed key.
	ClearAll()
}
