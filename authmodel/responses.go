package authmodel

// AuthPayload is the data object returned by /register, /login,
// /validateOtp and /oauth/exchange. The enablement flag arrives under one of
// two spellings; use EnabledFlag (or User) rather than reading the pointers.
type AuthPayload struct {
	Token     string `json:"token"`
	TokenType string `json:"tokenType"`
	UserID    string `json:"userId"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	IsEnabled *bool  `json:"isEnabled,omitempty"`
	Enabled   *bool  `json:"enabled,omitempty"` // legacy spelling
	Provider  string `json:"provider,omitempty"`
	Message   string `json:"message,omitempty"`
}

// UserEnabled reports the normalized enablement flag.
func (p AuthPayload) UserEnabled() bool {
	return EnabledFlag(p.IsEnabled, p.Enabled)
}

// User builds the client User record from the payload. forceEnabled overrides
// the wire flag for flows where success itself proves enablement (a passed
// OTP check, an OAuth exchange).
func (p AuthPayload) User(forceEnabled bool) User {
	return User{
		UserID:    p.UserID,
		Name:      p.Name,
		Email:     p.Email,
		IsEnabled: forceEnabled || p.UserEnabled(),
	}
}

// GenerateOtpPayload is the data object returned by /generateOtp.
type GenerateOtpPayload struct {
	Email         string `json:"email"`
	Message       string `json:"message"`
	TransactionID string `json:"transactionId"`
}

// StatusPayload is the data object returned by the password reset endpoints.
type StatusPayload struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
