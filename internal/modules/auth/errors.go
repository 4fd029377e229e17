package auth

// Refresh failures name the token mechanics on purpose; the login
// failure stays generic so callers can't probe which credentials exist.
const (
	MsgInvalidCredentials    = "Email or Password is incorrect!"
	MsgAccountSuspended      = "Account is suspended!"
	MsgInvalidToken          = "Invalid token"
	MsgTokenNotExpired       = "Token has not yet expired"
	MsgTokenNotFound         = "Token does not exist"
	MsgTokenRevoked          = "Token has been revoked"
	MsgTokenMismatch         = "Token doesn't match"
	MsgRefreshTokenExpired   = "Refresh token has expired"
	MsgEmailAlreadyInUse     = "Email is already registered!"
	MsgUsernameAlreadyTaken  = "Username is already Taken!"
	MsgPasswordMismatch      = "Password and Confirm Password do not match!"
)
