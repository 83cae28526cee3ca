package account

import "errors"

var (
	// ErrInvalidCredentials hides the backend's reason for a failed login.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSignUpFailed       = errors.New("sign-up failed")

	// ErrReauthenticationRequired means the reauthentication dialog is open
	// and DeleteAccount continues in ConfirmReauthentication.
	ErrReauthenticationRequired = errors.New("reauthentication required")
	ErrReauthNotRequested       = errors.New("reauthentication not requested")

	// ErrInconsistentState is returned when the signed-in identity has no
	// recognised provider, or nobody is signed in.
	ErrInconsistentState = errors.New("inconsistent session state")

	ErrSignInInProgress = errors.New("sign-in already in progress")
)
