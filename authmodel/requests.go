package authmodel

// RegisterRequest is the body of POST /register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ValidateOtpRequest is the body of POST /validateOtp. TransactionID
// correlates the validation with the generateOtp call that issued the code.
type ValidateOtpRequest struct {
	Otp           string `json:"otp"`
	TransactionID string `json:"transactionId"`
}

// OAuthExchangeRequest is the body of POST /oauth/exchange. CodeVerifier is
// the PKCE verifier whose S256 challenge was sent at authorization time.
type OAuthExchangeRequest struct {
	Code         string `json:"code"`
	CodeVerifier string `json:"codeVerifier"`
}

// ResetPasswordRequest is the body of POST /resetPassword.
type ResetPasswordRequest struct {
	Email string `json:"email"`
}

// ValidateResetTokenRequest is the body of POST /validateResetToken.
type ValidateResetTokenRequest struct {
	Email       string `json:"email"`
	ResetToken  string `json:"resetToken"`
	NewPassword string `json:"newPassword"`
}
