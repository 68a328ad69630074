package utils

import (
	"strconv"
)

// FirstInvalidByte returns the index of the first byte outside a-z, or -1
func FirstInvalidByte(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return i
		}
	}
	return -1
}

// FormatWithCommas formats an integer with comma separators
func FormatWithCommas(n int) string {
	if n < 0 {
		return "-" + FormatWithCommas(-n)
	}
	str := strconv.Itoa(n)
	if len(str) <= 3 {
		return str
	}
	out := make([]byte, 0, len(str)+len(str)/3)
	for i := 0; i < len(str); i++ {
		if i > 0 && (len(str)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, str[i])
	}
	return string(out)
}
