package protocol

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ConfigString returns the first non-empty string value among keys. Node data
// coming from the editor uses camelCase while files often use snake_case, so
// callers pass both spellings.
func ConfigString(config map[string]any, keys ...string) string {
	for _, key := range keys {
		value, ok := config[key]
		if !ok || value == nil {
			continue
		}

		var s string

		switch v := value.(type) {
		case string:
			s = v
		case fmt.Stringer:
			s = v.String()
		default:
			s = fmt.Sprintf("%v", v)
		}

		if s != "" {
			return s
		}
	}

	return ""
}

// ConfigNumber returns the numeric value stored under key. Numeric strings are
// accepted. The boolean is false when the key is absent.
func ConfigNumber(config map[string]any, key string) (float64, bool, error) {
	value, ok := config[key]
	if !ok || value == nil {
		return 0, false, nil
	}

	switch v := value.(type) {
	case float64:
		return v, true, nil
	case float32:
		return float64(v), true, nil
	case int:
		return float64(v), true, nil
	case int64:
		return float64(v), true, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return 0, false, nil
		}

		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false, InvalidConfig(key, "must be a number")
		}

		return f, true, nil
	default:
		return 0, false, InvalidConfig(key, "must be a number")
	}
}

// ConfigDuration reads the number under key as a count of unit. The value must
// be finite, not negative and fit in a time.Duration. The boolean is false
// when the key is absent.
func ConfigDuration(config map[string]any, key string, unit time.Duration) (time.Duration, bool, error) {
	amount, ok, err := ConfigNumber(config, key)
	if err != nil || !ok {
		return 0, ok, err
	}

	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, false, InvalidConfig(key, "must be a finite number")
	}

	if amount < 0 {
		return 0, false, InvalidConfig(key, "must not be negative")
	}

	scaled := amount * float64(unit)
	if scaled >= math.MaxInt64 {
		return 0, false, InvalidConfig(key, "is too large")
	}

	return time.Duration(scaled), true, nil
}

// ConfigStringMap returns a string map stored under key, accepting both
// map[string]string and map[string]any values.
func ConfigStringMap(config map[string]any, key string) (map[string]string, error) {
	value, ok := config[key]
	if !ok || value == nil {
		return map[string]string{}, nil
	}

	switch v := value.(type) {
	case map[string]string:
		return v, nil
	case map[string]any:
		out := make(map[string]string, len(v))
		for k, item := range v {
			out[k] = fmt.Sprintf("%v", item)
		}

		return out, nil
	default:
		return nil, InvalidConfig(key, "must be an object of strings")
	}
}

// ConfigMap returns a nested object stored under key, or nil.
func ConfigMap(config map[string]any, key string) (map[string]any, error) {
	value, ok := config[key]
	if !ok || value == nil {
		return nil, nil
	}

	m, ok := value.(map[string]any)
	if !ok {
		return nil, InvalidConfig(key, "must be an object")
	}

	return m, nil
}
