package flhash

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrInvalidHash = errors.New("invalid hash code")

// ParseHash converts the textual form of a hash code to a number. Accepted
// forms are unsigned decimal, 0x-prefixed hexadecimal and negative decimal,
// which is how signed 32-bit dumps print entity hashes.
func ParseHash(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidHash
	}

	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err := strconv.ParseUint(s[2:], 16, 32)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidHash, s)
		}
		return uint32(v), nil
	}

	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v < math.MinInt32 || v > math.MaxUint32 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidHash, s)
	}
	if v < 0 {
		return uint32(int32(v)), nil
	}
	return uint32(v), nil
}

// FormatHash returns the decimal form of a hash code.
func FormatHash(code uint32) string {
	return strconv.FormatUint(uint64(code), 10)
}

// FormatHex returns the hexadecimal form of a hash code, zero padded to
// eight digits for entity codes and four for faction codes.
func FormatHex(code uint32) string {
	if code <= math.MaxUint16 {
		return fmt.Sprintf("0x%04X", code)
	}
	return fmt.Sprintf("0x%08X", code)
}

// Signed returns the code as the signed 32-bit integer the game stores.
func Signed(code uint32) int32 {
	return int32(code)
}
