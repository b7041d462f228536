package apiclient

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a transport failure. Timeout and network failures never
// reached an application-level response; application failures carry whatever
// the gateway returned.
type Kind string

const (
	KindTimeout     Kind = "TIMEOUT_ERROR"
	KindNetwork     Kind = "NETWORK_ERROR"
	KindApplication Kind = "APPLICATION_ERROR"
)

// Error is the single failure shape surfaced by the transport. Callers
// branch on Kind (or ErrorCode for gateway-specific codes), never on the
// underlying cause.
type Error struct {
	Kind       Kind
	Message    string
	ErrorCode  string
	StatusCode int
	Data       json.RawMessage
}

func (e *Error) Error() string {
	if e.ErrorCode != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.ErrorCode)
	}
	return e.Message
}

// AsError unwraps err to the transport's error type, if present anywhere in
// its chain.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsTimeout reports whether err is a transport timeout.
func IsTimeout(err error) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.Kind == KindTimeout
}
