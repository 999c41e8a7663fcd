package calendar

import (
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
)

// AuthError means no usable calendar credential could be produced.
type AuthError struct {
	Source string
	Err    error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("calendar auth (%s): %v", e.Source, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// RemoteServiceError wraps a failed calendar API call.
type RemoteServiceError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *RemoteServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("calendar %s failed with status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("calendar %s failed: %v", e.Op, e.Err)
}

func (e *RemoteServiceError) Unwrap() error { return e.Err }

// classify maps an API client error onto AuthError or RemoteServiceError.
func classify(op string, err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return &AuthError{Source: op, Err: err}
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusUnauthorized {
			return &AuthError{Source: op, Err: err}
		}
		return &RemoteServiceError{Op: op, StatusCode: apiErr.Code, Err: err}
	}
	return &RemoteServiceError{Op: op, Err: err}
}
