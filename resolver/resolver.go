// Package resolver implements the MULTIX Value Resolver: turning a textual
// token into a 64-bit integer by trying unit suffixes, constants, labels,
// hex literals, character literals, and finally decimal.
package resolver

import (
	"strconv"
	"strings"
)

// SymbolLookup is the narrow view of a symbol table the resolver needs.
// Constants and labels are resolved in that order — constants first.
type SymbolLookup interface {
	Constant(name string) (int64, bool)
	Label(name string) (int64, bool)
}

// Resolve converts a token into its 64-bit integer value per spec: unit
// suffix, then constant, then label, then hex, then char literal, then
// decimal. A token that cannot be parsed falls back to 0 — this is by
// design, not an error (spec.md §4.2).
func Resolve(token string, syms SymbolLookup) int64 {
	if token == "" {
		return 0
	}

	stripped, multiplier := stripUnitSuffix(token)

	if syms != nil {
		if v, ok := syms.Constant(stripped); ok {
			return v * multiplier
		}
		if v, ok := syms.Label(stripped); ok {
			return v // labels are never scaled
		}
	}

	if strings.HasPrefix(stripped, "0x") || strings.HasPrefix(stripped, "0X") {
		v, err := strconv.ParseInt(stripped[2:], 16, 64)
		if err != nil {
			return 0
		}
		return v * multiplier
	}

	if strings.HasPrefix(stripped, "'") {
		if len(stripped) < 2 {
			return 0
		}
		r := []rune(stripped[1:])
		if len(r) == 0 {
			return 0
		}
		return int64(r[0]) * multiplier
	}

	v, err := strconv.ParseInt(stripped, 10, 64)
	if err != nil {
		return 0
	}
	return v * multiplier
}

// stripUnitSuffix strips a case-insensitive kb/mb suffix and returns the
// remaining token along with the multiplier (1 if no suffix present).
func stripUnitSuffix(token string) (string, int64) {
	lower := strings.ToLower(token)

	switch {
	case strings.HasSuffix(lower, "kb"):
		return token[:len(token)-2], 1024
	case strings.HasSuffix(lower, "mb"):
		return token[:len(token)-2], 1024 * 1024
	default:
		return token, 1
	}
}
