package service

import (
	"unicode"
	"unicode/utf8"
)

// capitalize делает первую букву фразы заглавной (для начала предложения).
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	if unicode.IsUpper(r) {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
