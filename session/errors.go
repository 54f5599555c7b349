package session

import (
	"errors"
	"net/http"

	"github.com/craftsite/go-auth-client/apierror"
)

var (
	// ErrOperationInFlight is returned when a login, signup, or logout is
	// attempted while another operation holds the manager.
	ErrOperationInFlight = errors.New("another authentication operation is in flight")

	// ErrManagerClosed is returned after Close; completions of operations
	// that were in flight at Close time are discarded with this error.
	ErrManagerClosed = errors.New("session manager is closed")
)

const genericLoginMessage = "Something went wrong. Please try again."

// AuthError pairs a human-readable message with the full normalized error
// so callers can do field-level handling programmatically.
type AuthError struct {
	Message string
	Cause   *apierror.Normalized
}

func (e *AuthError) Error() string {
	return e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Cause
}

// normalizedCause coerces a collaborator error into the normalized shape.
// The API client already returns *apierror.Normalized; anything else is
// treated as a transport failure.
func normalizedCause(err error) *apierror.Normalized {
	var normalized *apierror.Normalized
	if errors.As(err, &normalized) {
		return normalized
	}
	return apierror.FromTransport(err)
}

func loginFailureMessage(n *apierror.Normalized) string {
	if n.Kind == apierror.KindNetworkError {
		return "Unable to reach the server. Check your connection and try again."
	}

	switch n.StatusCode {
	case http.StatusTooManyRequests:
		return "Too many login attempts. Please try again later."
	case http.StatusUnauthorized:
		return "Invalid email or password."
	case http.StatusForbidden:
		return "Your account has been disabled."
	case http.StatusNotFound:
		return "No account found for this email."
	}

	if n.Kind == apierror.KindValidation {
		return "Please correct the highlighted fields."
	}
	return genericLoginMessage
}

func signupFailureMessage(n *apierror.Normalized) string {
	switch n.Kind {
	case apierror.KindNetworkError:
		return "Unable to reach the server. Check your connection and try again."
	case apierror.KindConflict:
		return "An account with this email already exists."
	case apierror.KindValidation:
		return "Please correct the highlighted fields."
	}
	return genericLoginMessage
}
