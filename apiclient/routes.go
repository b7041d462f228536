package apiclient

// Routes on the authentication gateway, relative to the auth base URL.
const (
	RouteRegister           = "/register"
	RouteLogin              = "/login"
	RouteLogout             = "/logout"
	RouteGenerateOtp        = "/generateOtp"
	RouteValidateOtp        = "/validateOtp"
	RouteResetPassword      = "/resetPassword"
	RouteValidateResetToken = "/validateResetToken"
	RouteOAuthExchange      = "/oauth/exchange"
	RouteHealth             = "/health"
)
