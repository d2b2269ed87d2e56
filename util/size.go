package util

import (
	"strconv"
	"strings"
)

var sizeUnits = []struct {
	suffix string
	mult   float64
}{
	{"GB", 1 << 30},
	{"MB", 1 << 20},
	{"KB", 1 << 10},
	{"B", 1},
}

// ParseSize parses a size such as "25MB", "1.5GB" or "512KB" into bytes.
// Units are binary. It returns defaultBytes for empty or malformed input.
func ParseSize(s string, defaultBytes int64) int64 {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return defaultBytes
	}
	mult := 1.0
	for _, u := range sizeUnits {
		if strings.HasSuffix(s, u.suffix) {
			mult = u.mult
			s = strings.TrimSpace(strings.TrimSuffix(s, u.suffix))
			break
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return defaultBytes
	}
	return int64(v * mult)
}

// MaskSecret keeps the first visiblePrefix characters of s, enough to show
// a key's provider prefix in logs, and masks the rest.
func MaskSecret(s string, visiblePrefix int) string {
	if s == "" {
		return ""
	}
	if len(s) <= visiblePrefix {
		return "***"
	}
	return s[:visiblePrefix] + "***"
}
