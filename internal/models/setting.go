// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"
)

// SettingType tags how a setting's text value is interpreted.
type SettingType string

const (
	SettingString  SettingType = "string"
	SettingBoolean SettingType = "boolean"
	SettingNumber  SettingType = "number"
	SettingJSON    SettingType = "json"
)

// ValidSettingType reports whether t is one of the known type tags.
func ValidSettingType(t SettingType) bool {
	switch t {
	case SettingString, SettingBoolean, SettingNumber, SettingJSON:
		return true
	}
	return false
}

// SiteSetting is a single typed configuration entry. Value holds the stored
// text form; DecodedValue gives the typed form per the Type tag.
type SiteSetting struct {
	Key         string      `json:"key"`
	Value       string      `json:"value"`
	Type        SettingType `json:"type"`
	IsPublic    bool        `json:"is_public"`
	Description *string     `json:"description,omitempty"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// DecodedValue interprets the stored text according to the setting's type tag.
func (s *SiteSetting) DecodedValue() any {
	return DecodeSetting(s.Type, s.Value)
}

// DecodeSetting converts a stored text value to its typed representation.
// Malformed values degrade rather than fail: bad JSON is returned as the raw
// string, a bad number becomes nil, and anything but "true" is false.
func DecodeSetting(t SettingType, raw string) any {
	switch t {
	case SettingJSON:
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			slog.Warn("setting holds malformed json, serving raw string", "error", err)
			return raw
		}
		return v
	case SettingBoolean:
		return raw == "true"
	case SettingNumber:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			// NaN and Inf have no JSON representation; a nil here keeps the
			// rest of the settings map serializable.
			slog.Warn("setting holds malformed number, serving null", "raw", raw)
			return nil
		}
		return f
	default:
		return raw
	}
}

// EncodeSetting converts a typed value to the text form stored in the
// database. It is the inverse of DecodeSetting: decoding an encoded value
// yields the original back.
func EncodeSetting(t SettingType, v any) (string, error) {
	switch t {
	case SettingJSON:
		b, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("marshal json setting: %w", err)
		}
		return string(b), nil
	case SettingBoolean:
		if b, ok := v.(bool); ok {
			return strconv.FormatBool(b), nil
		}
		return stringify(v), nil
	case SettingNumber:
		switch n := v.(type) {
		case float64:
			return strconv.FormatFloat(n, 'f', -1, 64), nil
		case int:
			return strconv.Itoa(n), nil
		case int64:
			return strconv.FormatInt(n, 10), nil
		}
		return stringify(v), nil
	default:
		return stringify(v), nil
	}
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
