// Package config provides typed access to node configuration fields.
//
// A node's configuration is a free-form map authored by an editor
// (loop counts, durations, weights, sub-graph names). Config wraps
// such a map with accessors that never fail: a missing key or a value
// of the wrong shape yields the caller's default. Port-dynamic
// behaviors derive their port lists from it.
package config

import "time"

// Config wraps a map[string]any for type-safe value extraction.
type Config struct {
	data map[string]any
}

// New creates a Config from the given map. A nil map yields an empty
// Config.
func New(data map[string]any) Config {
	if data == nil {
		data = make(map[string]any)
	}
	return Config{data: data}
}

// String returns the string value for key, or defaultVal.
func (c Config) String(key, defaultVal string) string {
	if s, ok := c.data[key].(string); ok {
		return s
	}
	return defaultVal
}

// Bool returns the boolean value for key, or defaultVal.
func (c Config) Bool(key string, defaultVal bool) bool {
	if b, ok := c.data[key].(bool); ok {
		return b
	}
	return defaultVal
}

// Int returns the integer value for key, or defaultVal.
// Floats convert only when they carry no fractional part.
func (c Config) Int(key string, defaultVal int) int {
	switch v := c.data[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		if v == float64(int(v)) {
			return int(v)
		}
	}
	return defaultVal
}

// Float returns the float64 value for key, or defaultVal.
func (c Config) Float(key string, defaultVal float64) float64 {
	switch v := c.data[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return defaultVal
}

// Duration returns the duration for key, or defaultVal.
//
// Accepts a time.Duration, a string parsed with time.ParseDuration,
// or a number interpreted as seconds.
func (c Config) Duration(key string, defaultVal time.Duration) time.Duration {
	switch v := c.data[key].(type) {
	case time.Duration:
		return v
	case string:
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	case int:
		return time.Duration(v) * time.Second
	case int64:
		return time.Duration(v) * time.Second
	case float64:
		return time.Duration(v * float64(time.Second))
	}
	return defaultVal
}

// Slice returns the []any value for key, or defaultVal.
func (c Config) Slice(key string, defaultVal []any) []any {
	if s, ok := c.data[key].([]any); ok {
		return s
	}
	return defaultVal
}

// Map returns the nested map value for key, or defaultVal.
func (c Config) Map(key string, defaultVal map[string]any) map[string]any {
	if m, ok := c.data[key].(map[string]any); ok {
		return m
	}
	return defaultVal
}

// Any returns the raw value for key, or defaultVal.
func (c Config) Any(key string, defaultVal any) any {
	if v, ok := c.data[key]; ok {
		return v
	}
	return defaultVal
}

// Has reports whether key exists.
func (c Config) Has(key string) bool {
	_, ok := c.data[key]
	return ok
}

// Raw returns the underlying map. Do not modify it.
func (c Config) Raw() map[string]any {
	return c.data
}
