package config

import (
	"fmt"
	"time"
)

// Stored values come back from JSON, so numbers are float64 and lists are
// []interface{}. These helpers accept both the JSON and the Go shapes.

func stringValue(key string, v interface{}) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("invalid value type for %s: expected string, got %T", key, v)
	}
	return s, nil
}

func boolValue(key string, v interface{}) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("invalid value type for %s: expected bool, got %T", key, v)
	}
	return b, nil
}

func intValue(key string, v interface{}) (int, error) {
	switch n := v.(type) {
	case float64:
		return int(n), nil
	case int:
		return n, nil
	case int64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("invalid value type for %s: expected number, got %T", key, v)
	}
}

func durationValue(key string, v interface{}) (time.Duration, error) {
	switch d := v.(type) {
	case string:
		parsed, err := time.ParseDuration(d)
		if err != nil {
			return 0, fmt.Errorf("invalid duration string for %s: %w", key, err)
		}
		return parsed, nil
	case float64:
		return time.Duration(d), nil
	case int64:
		return time.Duration(d), nil
	case time.Duration:
		return d, nil
	default:
		return 0, fmt.Errorf("invalid value type for %s: expected string or number, got %T", key, v)
	}
}

func stringsValue(key string, v interface{}) ([]string, error) {
	switch list := v.(type) {
	case []string:
		return append([]string(nil), list...), nil
	case []interface{}:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("invalid entry in %s: expected string, got %T", key, item)
			}
			out = append(out, s)
		}
		return out, nil
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("invalid value type for %s: expected list, got %T", key, v)
	}
}
