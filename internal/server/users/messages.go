package users

// Client-facing messages.
const (
	EmailTakenMessage         = "User already exist with this email."
	PhoneTakenMessage         = "User already exist with this phone number."
	InvalidCodeMessage        = "Activation code is invalid!"
	ActivationExpiredMessage  = "Activation token has expired. Please register again."
	ActivationInvalidMessage  = "Activation token is invalid."
	UserNotFoundMessage       = "User not found with this email."
	InvalidCredentialsMessage = "Invalid email or password"
	LogoutMessage             = "Logged out successfully!"
	ActivationSubject         = "Activate your account!"
)
