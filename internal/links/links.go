package links

import (
	"strings"

	gonanoid "github.com/jaevor/go-nanoid"
)

// Join codes are short enough to read over a call but still
// collision-resistant: 12 chars over a 36-symbol alphabet.
const (
	codeAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	CodeLength   = 12
)

var newCode = mustGenerator()

func mustGenerator() func() string {
	gen, err := gonanoid.CustomASCII(codeAlphabet, CodeLength)
	if err != nil {
		panic(err)
	}
	return gen
}

// NewJoinCode generates a fresh room join code.
func NewJoinCode() string {
	return newCode()
}

// IsValidJoinCode rejects anything that could not have been produced
// by NewJoinCode before it reaches a database lookup.
func IsValidJoinCode(code string) bool {
	if len(code) != CodeLength {
		return false
	}
	for _, c := range code {
		if !strings.ContainsRune(codeAlphabet, c) {
			return false
		}
	}
	return true
}

// Shareable builds the frontend join URL for a code.
func Shareable(clientURL, code string) string {
	return strings.TrimSuffix(clientURL, "/") + "/join/" + code
}
