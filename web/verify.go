package web

import (
	"fmt"
	"strconv"
	"time"
	"unicode"
)

const (
	maxNameLength = 100
	maxListLength = 100
)

// 定義允許的「安全符號」
var allowedSafeSymbols = map[rune]bool{
	'_': true,
	'-': true,
	'.': true,
	'@': true,
	'#': true,
	' ': true,
	'(': true,
	')': true,
}

// IsSecureString reports whether s holds only letters, digits and a few
// punctuation marks. Hangul counts as letters.
func IsSecureString(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			continue
		}
		// 不是字母也不是數字，檢查是否在安全符號清單中
		if !allowedSafeSymbols[r] {
			return false // 發現不允許的特殊字元
		}
	}
	return true // 所有字元都符合安全規範
}

// VerifyStringRequest checks a user-typed name: non-empty, at most 100 runes
// and secure.
func VerifyStringRequest(s string) bool {
	n := len([]rune(s))
	if n == 0 || n > maxNameLength {
		return false
	}
	return IsSecureString(s)
}

// VerifyStringListRequest checks every name of a bounded list.
func VerifyStringListRequest(s []string) bool {
	if len(s) > maxListLength {
		return false
	}
	for _, str := range s {
		if !VerifyStringRequest(str) {
			return false
		}
	}
	return true
}

// ParseJSTimestampString parses a JavaScript Date.now() string (milliseconds
// since epoch).
func ParseJSTimestampString(jsTimestampStr string) (time.Time, error) {
	unixMilli, err := strconv.ParseInt(jsTimestampStr, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp string '%s' to int64: %w", jsTimestampStr, err)
	}
	return time.UnixMilli(unixMilli), nil
}
