// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is built once and shared; it caches struct
// information and is safe for concurrent use. On top of the built-in tags
// the package registers the tags used by ArtPass requests:
//
//	uid              user id from the uid query parameter: 1-128 of [A-Za-z0-9_.-]
//	event_id         upstream event id: 1-128 characters, no '/', '?' or '#'
//	search_category  one of the search category options, 全部 included
//	search_price     one of the ticket type options, 全部 included
//	search_time      one of the time tags
//
// # Usage
//
//	type venueEventsRequest struct {
//	    Platform string `validate:"required,max=200"`
//	    Days     int    `validate:"min=1,max=90"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, verr)
//	    return
//	}
//
// # Errors
//
// ValidateStruct returns a *RequestValidationError listing every failed
// field. ToAPIError converts it to the VALIDATION_ERROR shape used by the
// HTTP API: a single failure carries field, tag and value in Details, several
// failures carry a "fields" list.
package validation
