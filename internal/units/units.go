// Package units parses human-readable byte sizes used for segment limits.
package units

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidSizeFormat is returned when a size string does not match
// <integer><unit?> with unit one of K, M, G (case-insensitive).
var ErrInvalidSizeFormat = errors.New("invalid size format")

// Base-1024 multipliers.
const (
	Kibibyte int64 = 1 << 10
	Mebibyte int64 = 1 << 20
	Gibibyte int64 = 1 << 30
)

// ParseSize converts a size string like "60M" or "500K" into a byte count.
// Units use base-1024 multipliers; a bare number is taken as bytes.
//
// Example:
//
//	ParseSize("60M")  // 62914560, nil
//	ParseSize("1024") // 1024, nil
//	ParseSize("60X")  // 0, ErrInvalidSizeFormat
func ParseSize(s string) (int64, error) {
	if s == "" {
		return 0, fmt.Errorf("%w: empty string", ErrInvalidSizeFormat)
	}

	numPart := s
	multiplier := int64(1)

	switch last := s[len(s)-1]; last {
	case 'K', 'k':
		multiplier = Kibibyte
		numPart = s[:len(s)-1]
	case 'M', 'm':
		multiplier = Mebibyte
		numPart = s[:len(s)-1]
	case 'G', 'g':
		multiplier = Gibibyte
		numPart = s[:len(s)-1]
	default:
		if last < '0' || last > '9' {
			return 0, fmt.Errorf("%w: unknown unit %q in %q", ErrInvalidSizeFormat, string(last), s)
		}
	}

	if numPart == "" || strings.TrimLeft(numPart, "0123456789") != "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSizeFormat, s)
	}

	n, err := strconv.ParseInt(numPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidSizeFormat, s, err)
	}

	return n * multiplier, nil
}
