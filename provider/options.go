package provider

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Options is a backend's raw option map as decoded from config.
// Values may arrive as strings from environment variables, so the accessors
// convert where it is unambiguous.
type Options map[string]any

// String returns the option as a string, or def when unset.
func (o Options) String(key, def string) string {
	switch v := o[key].(type) {
	case string:
		if v != "" {
			return v
		}
	case nil:
	default:
		if s, ok := v.(interface{ String() string }); ok {
			return s.String()
		}
	}
	return def
}

// Int returns the option as an int, or def when unset or malformed.
func (o Options) Int(key string, def int) int {
	switch v := o[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// Float returns the option as a float64, or def when unset or malformed.
func (o Options) Float(key string, def float64) float64 {
	switch v := o[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

// Bool returns the option as a bool, or def when unset or malformed.
func (o Options) Bool(key string, def bool) bool {
	switch v := o[key].(type) {
	case bool:
		return v
	case string:
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

// Duration returns the option as a time.Duration. Strings are parsed with
// time.ParseDuration and bare numbers are read as seconds.
func (o Options) Duration(key string, def time.Duration) time.Duration {
	switch v := o[key].(type) {
	case time.Duration:
		return v
	case int:
		return time.Duration(v) * time.Second
	case float64:
		return time.Duration(v * float64(time.Second))
	case string:
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

// secretMarkers identify option keys whose values must not be logged.
var secretMarkers = []string{"key", "token", "secret", "password"}

// Redacted returns a copy of o safe to log; secret values keep only a
// short prefix.
func (o Options) Redacted() map[string]any {
	out := make(map[string]any, len(o))
	for k, v := range o {
		if isSecretKey(k) {
			out[k] = maskSecret(fmt.Sprint(v), 3)
			continue
		}
		out[k] = v
	}
	return out
}

func isSecretKey(key string) bool {
	key = strings.ToLower(key)
	for _, m := range secretMarkers {
		if strings.Contains(key, m) {
			return true
		}
	}
	return false
}

// maskSecret keeps the first visible characters of s. Values not longer
// than twice that are masked entirely.
func maskSecret(s string, visible int) string {
	if len(s) <= visible*2 {
		return "***"
	}
	return s[:visible] + "***"
}
