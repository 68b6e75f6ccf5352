package parse

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	nonDigitRe = regexp.MustCompile(`[^0-9]`)
	isoDateRe  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// Digits keeps only the ASCII digits of raw and parses them, so "15대" and
// "1,200" give 15 and 1200. Anything without digits, or too large, gives 0.
func Digits(raw string) int64 {
	s := nonDigitRe.ReplaceAllString(raw, "")
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// Count is Digits for small counters such as floors or parking spaces.
func Count(raw string) int {
	n := Digits(raw)
	if n > int64(^uint32(0)>>1) {
		return 0
	}
	return int(n)
}

// IsISODate reports whether raw, trimmed, has the YYYY-MM-DD shape.
func IsISODate(raw string) bool {
	return isoDateRe.MatchString(strings.TrimSpace(raw))
}
