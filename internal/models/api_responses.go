// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

package models

import "time"

// APIResponse is the envelope of every public endpoint.
//
//	{
//	  "status": "success",
//	  "data": {...},
//	  "metadata": {"timestamp": "2026-10-19T12:00:00Z", "query_time_ms": 45}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries timing and paging for a response.
type Metadata struct {
	Timestamp   time.Time       `json:"timestamp"`
	QueryTimeMS int64           `json:"query_time_ms,omitempty"`
	Cached      bool            `json:"cached,omitempty"`
	Pagination  *PaginationInfo `json:"pagination,omitempty"`
}

// APIError is a machine-readable error.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// PaginationInfo is offset pagination as used by /search.
type PaginationInfo struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	Count   int  `json:"count"`
	HasMore bool `json:"has_more"`
}

// HealthStatus is returned by /health.
type HealthStatus struct {
	Status       string  `json:"status"`
	Version      string  `json:"version"`
	EventAPI     string  `json:"event_api"`
	BreakerState string  `json:"breaker_state"`
	Sessions     int     `json:"sessions"`
	Uptime       float64 `json:"uptime"`
}
