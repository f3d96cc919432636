// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

package eventapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrMalformedResponse wraps bodies that could not be decoded after cleanup.
var ErrMalformedResponse = errors.New("malformed response")

// StatusError is returned for non-2xx upstream responses.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// IsNotFound reports whether err is a 404 StatusError.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

// isClientError reports whether err is a 4xx StatusError. These do not
// count against the circuit breaker.
func isClientError(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode >= 400 && se.StatusCode < 500
}

// IsCanceled reports whether err stems from a cancelled context.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}
