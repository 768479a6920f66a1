package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnavailable       = errors.New("server unavailable")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrMalformedResponse = errors.New("malformed response")
)

// RemoteError is returned for any non-2xx response.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request rejected: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("request rejected: %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Message)
}

// Is reports 401 and 403 rejections as ErrUnauthorized.
func (e *RemoteError) Is(target error) bool {
	if target != ErrUnauthorized {
		return false
	}
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}
