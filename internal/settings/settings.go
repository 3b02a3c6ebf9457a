// Package settings merges key/value configuration for the optional
// integrations (webhook, upload) from the environment, a JSON or YAML file,
// a JSON string and key=value flags.
package settings

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Map is a merged configuration object
type Map map[string]any

// Sources lists where a configuration object may come from. Later sources
// override earlier ones: env < file < JSON < KV.
type Sources struct {
	EnvPrefix string   // e.g. GRADEGHOST_WEBHOOK
	File      string   // JSON, or YAML when the extension is .yml/.yaml
	JSON      string   // Inline JSON object
	KV        []string // key=value pairs
}

// ParseKV parses a key=value pair, inferring int, float and bool values
func ParseKV(kvPair string) (string, any, error) {
	key, valueStr, ok := strings.Cut(kvPair, "=")
	if !ok {
		return "", nil, fmt.Errorf("invalid format, expected key=value: %s", kvPair)
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return "", nil, fmt.Errorf("empty key in key=value pair")
	}
	return key, inferValue(strings.TrimSpace(valueStr)), nil
}

func inferValue(s string) any {
	// Integers first so "1" does not become a bool
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if s == "true" || s == "false" {
		return s == "true"
	}
	return s
}

// ParseJSON parses a JSON object
func ParseJSON(jsonStr string) (Map, error) {
	var m Map
	if err := json.Unmarshal([]byte(jsonStr), &m); err != nil {
		return nil, fmt.Errorf("invalid JSON object: %w", err)
	}
	return m, nil
}

// ParseFile reads a JSON or YAML object from path
func ParseFile(path string) (Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var m Map
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("invalid JSON in %s: %w", path, err)
		}
	}
	return m, nil
}

// FromEnv collects PREFIX (a JSON object) and PREFIX_KEY=value variables.
// Keys are lowercased; returns nil when nothing is set.
func FromEnv(prefix string) Map {
	m := make(Map)

	if jsonStr := os.Getenv(prefix); jsonStr != "" {
		if parsed, err := ParseJSON(jsonStr); err == nil {
			maps.Copy(m, parsed)
		}
	}

	envPrefix := prefix + "_"
	for _, env := range os.Environ() {
		name, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(name, envPrefix) || value == "" {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(name, envPrefix))
		m[key] = inferValue(value)
	}

	if len(m) == 0 {
		return nil
	}
	return m
}

// Merge combines maps left to right; nil maps are skipped
func Merge(ms ...Map) Map {
	result := make(Map)
	for _, m := range ms {
		maps.Copy(result, m)
	}
	return result
}

// Build merges every configured source
func Build(src Sources) (Map, error) {
	layers := []Map{}

	if src.EnvPrefix != "" {
		layers = append(layers, FromEnv(src.EnvPrefix))
	}

	if src.File != "" {
		m, err := ParseFile(src.File)
		if err != nil {
			return nil, err
		}
		layers = append(layers, m)
	}

	if src.JSON != "" {
		m, err := ParseJSON(src.JSON)
		if err != nil {
			return nil, err
		}
		layers = append(layers, m)
	}

	if len(src.KV) > 0 {
		kv := make(Map)
		for _, pair := range src.KV {
			key, value, err := ParseKV(pair)
			if err != nil {
				return nil, err
			}
			kv[key] = value
		}
		layers = append(layers, kv)
	}

	return Merge(layers...), nil
}

// String returns the string stored at key
func (m Map) String(key string) (string, bool) {
	s, ok := m[key].(string)
	return s, ok && s != ""
}

// StringOr returns the string at key or def
func (m Map) StringOr(key, def string) string {
	if s, ok := m.String(key); ok {
		return s
	}
	return def
}

// Bool accepts real booleans and parseable strings
func (m Map) Bool(key string, def bool) bool {
	switch v := m[key].(type) {
	case bool:
		return v
	case string:
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

// Int accepts ints and JSON numbers
func (m Map) Int(key string, def int) int {
	switch v := m[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return def
}

// Duration accepts duration strings ("1s") or milliseconds
func (m Map) Duration(key string, def time.Duration) (time.Duration, error) {
	switch v := m[key].(type) {
	case nil:
		return def, nil
	case string:
		if v == "" {
			return def, nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
		}
		return d, nil
	case int:
		return time.Duration(v) * time.Millisecond, nil
	case float64:
		return time.Duration(v) * time.Millisecond, nil
	default:
		return 0, fmt.Errorf("invalid duration for %s: %v", key, v)
	}
}
