// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

package models

import (
	"bytes"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

var jsonNull = []byte("null")

// FlexString decodes from a JSON string or number. null decodes to "".
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, jsonNull) {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = FlexString(str)
		return nil
	}
	*s = FlexString(data)
	return nil
}

func (s FlexString) String() string { return string(s) }

// FlexFloat is an optional float that decodes from a number, a numeric
// string, "" or null. Valid is false when no usable value was present.
type FlexFloat struct {
	Value float64
	Valid bool
}

// Float returns a present FlexFloat.
func Float(v float64) FlexFloat {
	return FlexFloat{Value: v, Valid: true}
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	*f = FlexFloat{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, jsonNull) {
		return nil
	}
	raw := string(data)
	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		raw = strings.TrimSpace(str)
		if raw == "" {
			return nil
		}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		// unusable values count as absent, not as a decode failure
		return nil
	}
	*f = FlexFloat{Value: v, Valid: true}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (f FlexFloat) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return jsonNull, nil
	}
	return strconv.AppendFloat(nil, f.Value, 'f', -1, 64), nil
}

// FlexInt64 is an optional epoch-seconds value; floats are truncated.
type FlexInt64 struct {
	Value int64
	Valid bool
}

// Int64 returns a present FlexInt64.
func Int64(v int64) FlexInt64 {
	return FlexInt64{Value: v, Valid: true}
}

// UnmarshalJSON implements json.Unmarshaler.
func (i *FlexInt64) UnmarshalJSON(data []byte) error {
	var f FlexFloat
	if err := f.UnmarshalJSON(data); err != nil {
		return err
	}
	*i = FlexInt64{Value: int64(f.Value), Valid: f.Valid}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (i FlexInt64) MarshalJSON() ([]byte, error) {
	if !i.Valid {
		return jsonNull, nil
	}
	return strconv.AppendInt(nil, i.Value, 10), nil
}

// FlexTime holds a timestamp sent either as epoch seconds (int or float)
// or as a date/datetime string. Numbers keep their decimal text.
type FlexTime string

// UnmarshalJSON implements json.Unmarshaler.
func (t *FlexTime) UnmarshalJSON(data []byte) error {
	var s FlexString
	if err := s.UnmarshalJSON(data); err != nil {
		return err
	}
	*t = FlexTime(strings.TrimSpace(string(s)))
	return nil
}

// MarshalJSON implements json.Marshaler. Epoch values stay numeric.
func (t FlexTime) MarshalJSON() ([]byte, error) {
	if _, ok := t.epoch(); ok {
		return []byte(t), nil
	}
	return json.Marshal(string(t))
}

func (t FlexTime) epoch() (float64, bool) {
	if t == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(string(t), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Time parses the value. Epoch seconds map through time.Unix; RFC3339,
// naive datetimes and plain dates are accepted, naive ones in Asia/Taipei.
func (t FlexTime) Time() (time.Time, bool) {
	if t == "" {
		return time.Time{}, false
	}
	if v, ok := t.epoch(); ok {
		sec, frac := math.Modf(v)
		return time.Unix(int64(sec), int64(frac*1e9)), true
	}
	raw := string(t)
	if parsed, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return parsed, true
	}
	loc := LoadLocation("")
	for _, layout := range []string{"2006-01-02T15:04:05.999999", "2006-01-02 15:04:05", "2006-01-02"} {
		if parsed, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}
