// config_keys.go provides key-value access to configuration settings.
//
// Separated from config.go to isolate the key enumeration and string-based
// get/set logic used by the CLI and MCP config commands, where settings are
// addressed by dotted keys (e.g., "limits.max_source").

package config

import (
	"fmt"
	"slices"
	"strconv"
)

// limitKey describes one integer limit setting.
type limitKey struct {
	name  string
	max   int
	field func(*Limits) **int
	get   func(*Config) int
}

var limitKeys = []limitKey{
	{"limits.max_type", MaxTextLimit, func(l *Limits) **int { return &l.MaxType }, (*Config).MaxType},
	{"limits.max_title", MaxTextLimit, func(l *Limits) **int { return &l.MaxTitle }, (*Config).MaxTitle},
	{"limits.max_summary", MaxTextLimit, func(l *Limits) **int { return &l.MaxSummary }, (*Config).MaxSummary},
	{"limits.max_blocks", MaxBlocks, func(l *Limits) **int { return &l.MaxBlocks }, (*Config).MaxBlocks},
	{"limits.max_source", MaxSource, func(l *Limits) **int { return &l.MaxSource }, (*Config).MaxSource},
}

func findLimit(key string) (limitKey, bool) {
	for _, k := range limitKeys {
		if k.name == key {
			return k, true
		}
	}
	return limitKey{}, false
}

// ValidKeys returns all valid configuration keys.
func ValidKeys() []string {
	keys := []string{"author.name", "author.email"}
	for _, k := range limitKeys {
		keys = append(keys, k.name)
	}
	return keys
}

// IsValidKey returns true if the key is a valid configuration key.
func IsValidKey(key string) bool {
	return slices.Contains(ValidKeys(), key)
}

// Get returns the value of a configuration key as a string.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "author.name":
		return c.Author.Name, nil
	case "author.email":
		return c.Author.Email, nil
	}
	if k, ok := findLimit(key); ok {
		return strconv.Itoa(k.get(c)), nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
}

// Set sets the value of a configuration key.
func (c *Config) Set(key, value string) error {
	switch key {
	case "author.name":
		c.Author.Name = value
		return nil
	case "author.email":
		c.Author.Email = value
		return nil
	}

	k, ok := findLimit(key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < MinLimit || n > k.max {
		return fmt.Errorf("%w: %s must be an integer between %d and %d", ErrInvalidValue, key, MinLimit, k.max)
	}
	*k.field(&c.Limits) = &n
	return nil
}

// All returns all configuration values as a map.
func (c *Config) All() map[string]string {
	m := map[string]string{
		"author.name":  c.Author.Name,
		"author.email": c.Author.Email,
	}
	for _, k := range limitKeys {
		m[k.name] = strconv.Itoa(k.get(c))
	}
	return m
}

// IsSet returns true if the key has an explicit value (not just defaults).
func (c *Config) IsSet(key string) bool {
	switch key {
	case "author.name":
		return c.Author.Name != ""
	case "author.email":
		return c.Author.Email != ""
	}
	if k, ok := findLimit(key); ok {
		return *k.field(&c.Limits) != nil
	}
	return false
}
