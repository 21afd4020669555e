// Package matcher compiles vanity patterns into fast predicates over the
// 32-character hex rendering of a destination hash, and estimates how
// expensive a pattern will be to find.
package matcher

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/defidude/revanity/pkg/identity"
)

// Mode selects how a pattern is applied to the hex address.
type Mode int

const (
	Prefix Mode = iota // address starts with the pattern
	Suffix             // address ends with the pattern
	Contains           // pattern appears anywhere
	Regex              // pattern is a regular expression, searched unanchored
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case Prefix:
		return "prefix"
	case Suffix:
		return "suffix"
	case Contains:
		return "contains"
	case Regex:
		return "regex"
	default:
		return "unknown"
	}
}

// ValidationError describes a rejected pattern or configuration value.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Spec is an immutable pattern specification. It is a plain value so it
// can be handed to every worker by copy; each worker compiles its own
// Compiled form.
type Spec struct {
	Mode          Mode
	Pattern       string
	CaseSensitive bool // regex mode only; hex addresses are always lowercase
}

// ValidatePattern checks that a hex pattern is usable against a 32-char
// address and returns it normalized to lowercase.
func ValidatePattern(raw string) (string, error) {
	cleaned := strings.ToLower(strings.TrimSpace(raw))
	if cleaned == "" {
		return "", &ValidationError{Reason: "pattern cannot be empty"}
	}
	for _, c := range cleaned {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return "", &ValidationError{Reason: fmt.Sprintf(
				"pattern %q contains non-hex characters, only 0-9 and a-f are valid", raw)}
		}
	}
	if len(cleaned) > identity.HexAddressLen {
		return "", &ValidationError{Reason: fmt.Sprintf(
			"pattern length %d exceeds maximum address length of %d hex chars",
			len(cleaned), identity.HexAddressLen)}
	}
	return cleaned, nil
}

// Normalize validates the spec and returns a copy with the pattern in
// canonical form. Hex modes are lowercased and checked; regex mode
// only has to compile.
func (s Spec) Normalize() (Spec, error) {
	if s.Mode == Regex {
		if s.Pattern == "" {
			return s, &ValidationError{Reason: "pattern cannot be empty"}
		}
		if _, err := s.Compile(); err != nil {
			return s, err
		}
		return s, nil
	}
	cleaned, err := ValidatePattern(s.Pattern)
	if err != nil {
		return s, err
	}
	s.Pattern = cleaned
	return s, nil
}

// Compiled is the worker-local form of a Spec. It pre-converts the pattern
// to bytes so the hot loop can match against a stack hex buffer without
// allocating.
type Compiled struct {
	mode    Mode
	pattern []byte
	re      *regexp.Regexp
}

// Compile builds a Compiled matcher. It is idempotent and side-effect
// free; each worker calls it once on its own copy of the spec.
func (s Spec) Compile() (*Compiled, error) {
	c := &Compiled{mode: s.Mode, pattern: []byte(s.Pattern)}
	if s.Mode == Regex {
		expr := s.Pattern
		if !s.CaseSensitive {
			expr = "(?i)" + expr
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, &ValidationError{Reason: fmt.Sprintf("invalid regex %q: %v", s.Pattern, err)}
		}
		c.re = re
	}
	return c, nil
}

// Match tests the predicate against a hex-rendered address. The slice is
// the 32-byte lowercase hex form; it is never retained.
func (c *Compiled) Match(hexAddr []byte) bool {
	switch c.mode {
	case Prefix:
		return bytes.HasPrefix(hexAddr, c.pattern)
	case Suffix:
		return bytes.HasSuffix(hexAddr, c.pattern)
	case Contains:
		return bytes.Contains(hexAddr, c.pattern)
	case Regex:
		return c.re.Match(hexAddr)
	default:
		return false
	}
}

// MatchString is Match over a string form of the address.
func (c *Compiled) MatchString(hexAddr string) bool {
	return c.Match([]byte(hexAddr))
}
