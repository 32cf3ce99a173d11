package game

import (
	"regexp"
	"unicode/utf8"
)

const (
	nicknameMinLen = 2
	nicknameMaxLen = 20
)

// Letters, digits, whitespace, underscore, hyphen, dot. Anything else is
// rejected outright rather than stripped.
var nicknameRE = regexp.MustCompile(`^[\p{L}\p{N}\s._-]+$`)

// ValidateNickname checks the leaderboard nickname rules and returns an
// *InvalidNicknameError naming the violated rule.
func ValidateNickname(nickname string) error {
	n := utf8.RuneCountInString(nickname)
	if n < nicknameMinLen {
		return &InvalidNicknameError{Reason: "must be at least 2 characters"}
	}
	if n > nicknameMaxLen {
		return &InvalidNicknameError{Reason: "must be at most 20 characters"}
	}
	if !nicknameRE.MatchString(nickname) {
		return &InvalidNicknameError{Reason: "may only contain letters, digits, spaces, '_', '-' and '.'"}
	}
	return nil
}
