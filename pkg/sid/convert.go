package sid

import "strings"

const base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// IntToBase62 Convert int to base62 string
func IntToBase62(n int) string {
	if n == 0 {
		return string(base62Chars[0])
	}

	var result strings.Builder
	for n > 0 {
		result.WriteByte(base62Chars[n%62])
		n /= 62
	}

	// Reverse the string
	str := result.String()
	runes := []rune(str)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}

	return string(runes)
}

// Base62ToInt Convert base62 string to int
func Base62ToInt(s string) int {
	var result int
	for _, c := range s {
		result = result*62 + strings.IndexRune(base62Chars, c)
	}
	return result
}
