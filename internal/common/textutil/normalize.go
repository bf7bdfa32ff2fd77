// Package textutil 은 사용자 입력 문자열 정규화 헬퍼를 제공한다.
package textutil

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Normalize: 앞뒤 공백을 제거하고 NFC 로 정규화합니다.
// 조합형(NFD)으로 입력된 한글도 완성형과 같은 문자열이 됩니다.
func Normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// IsBlank: 공백만 있거나 비어 있는지 확인합니다.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// RuneLen: 문자(rune) 단위 길이
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}

// TruncateRunes: limit 문자를 넘으면 잘라냅니다.
func TruncateRunes(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	count := 0
	for i := range s {
		if count == limit {
			return s[:i]
		}
		count++
	}
	return s
}
