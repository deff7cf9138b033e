package policy

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidKey is returned when a key does not satisfy the active policy.
var ErrInvalidKey = errors.New("invalid key")

// KeyValidator decides whether a waiter key is acceptable.
type KeyValidator interface {
	ValidateKey(key string) error
}

// Func adapts an ordinary function to KeyValidator. Returned errors should
// wrap ErrInvalidKey so callers can match them with errors.Is.
type Func func(key string) error

// ValidateKey calls f(key).
func (f Func) ValidateKey(key string) error { return f(key) }

// Policy is the configurable key policy.
//
//   - Pattern, when set, must match the whole key.
//   - MaxLength limits the key length in bytes (0 => unlimited).
//   - ReservedPrefixes rejects keys starting with any of the listed prefixes
//     (case-insensitive).
//
// A nil *Policy only requires the key to be non-empty.
type Policy struct {
	Pattern          *regexp.Regexp
	MaxLength        int
	ReservedPrefixes []string
}

// Default returns the baseline policy: any non-empty key.
func Default() *Policy {
	return &Policy{}
}

// ValidateKey implements KeyValidator.
func (p *Policy) ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: key is empty", ErrInvalidKey)
	}
	if p == nil {
		return nil
	}
	if p.MaxLength > 0 && len(key) > p.MaxLength {
		return fmt.Errorf("%w: %q exceeds %d bytes", ErrInvalidKey, key, p.MaxLength)
	}
	normalized := strings.ToLower(key)
	for _, prefix := range p.ReservedPrefixes {
		if prefix != "" && strings.HasPrefix(normalized, strings.ToLower(prefix)) {
			return fmt.Errorf("%w: %q uses reserved prefix %q", ErrInvalidKey, key, prefix)
		}
	}
	if p.Pattern != nil && !p.Pattern.MatchString(key) {
		return fmt.Errorf("%w: %q does not match %s", ErrInvalidKey, key, p.Pattern.String())
	}
	return nil
}

// ---------------------------------------------------------------------------
// Config <-> Policy converters
// ---------------------------------------------------------------------------

// Config represents the serialisable part of a Policy.
type Config struct {
	Pattern          string   `json:"pattern,omitempty" yaml:"pattern,omitempty" toml:"pattern,omitempty"`
	MaxLength        int      `json:"maxLength,omitempty" yaml:"maxLength,omitempty" toml:"maxLength,omitempty"`
	ReservedPrefixes []string `json:"reservedPrefixes,omitempty" yaml:"reservedPrefixes,omitempty" toml:"reservedPrefixes,omitempty"`
}

// ToConfig converts a runtime Policy into a persistable Config.
func ToConfig(p *Policy) *Config {
	if p == nil {
		return nil
	}
	ret := &Config{
		MaxLength:        p.MaxLength,
		ReservedPrefixes: append([]string(nil), p.ReservedPrefixes...),
	}
	if p.Pattern != nil {
		ret.Pattern = p.Pattern.String()
	}
	return ret
}

// FromConfig compiles a stored Config into a Policy. The pattern is anchored
// so that it must match the whole key.
func FromConfig(c *Config) (*Policy, error) {
	if c == nil {
		return Default(), nil
	}
	if c.MaxLength < 0 {
		return nil, fmt.Errorf("keys.maxLength must be >= 0")
	}
	ret := &Policy{
		MaxLength:        c.MaxLength,
		ReservedPrefixes: append([]string(nil), c.ReservedPrefixes...),
	}
	if c.Pattern != "" {
		expr, err := regexp.Compile(anchor(c.Pattern))
		if err != nil {
			return nil, fmt.Errorf("keys.pattern: %w", err)
		}
		ret.Pattern = expr
	}
	return ret, nil
}

func anchor(pattern string) string {
	if !strings.HasPrefix(pattern, "^") {
		pattern = "^(?:" + pattern + ")"
	}
	if !strings.HasSuffix(pattern, "$") {
		pattern += "$"
	}
	return pattern
}
