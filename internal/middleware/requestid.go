// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/tomtom215/artpass/internal/logging"
)

type contextKey string

const RequestIDKey contextKey = "request_id"

const (
	requestIDHeader     = "X-Request-ID"
	correlationIDHeader = "X-Correlation-ID"

	// maxInboundIDLen bounds ids accepted from upstream proxies.
	maxInboundIDLen = 128
)

// RequestID assigns every request an id, echoes it in X-Request-ID and stores
// it in the context together with a correlation id for the logging package.
// An X-Correlation-ID sent by the caller is kept so a browser can tie a page
// load to its later WebSocket traffic.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := inboundID(r.Header.Get(requestIDHeader))
		if requestID == "" {
			requestID = uuid.New().String()
		}
		correlationID := inboundID(r.Header.Get(correlationIDHeader))
		if correlationID == "" {
			correlationID = logging.GenerateCorrelationID()
		}

		w.Header().Set(requestIDHeader, requestID)
		w.Header().Set(correlationIDHeader, correlationID)

		ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
		ctx = logging.ContextWithRequestID(ctx, requestID)
		ctx = logging.ContextWithCorrelationID(ctx, correlationID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID extracts the request ID from context
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

func inboundID(v string) string {
	if v == "" || len(v) > maxInboundIDLen {
		return ""
	}
	for _, c := range v {
		if c < 0x21 || c == 0x7F {
			return ""
		}
	}
	return v
}
