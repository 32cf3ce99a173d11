package game

import (
	"strings"
	"testing"
)

func TestValidateNickname(t *testing.T) {
	valid := []string{"ab", "player one", "Jo-Jo_99", "name.with.dots", strings.Repeat("x", 20)}
	for _, nick := range valid {
		if err := ValidateNickname(nick); err != nil {
			t.Errorf("ValidateNickname(%q) = %v, want nil", nick, err)
		}
	}

	invalid := []string{
		"",
		"a",
		strings.Repeat("a", 21),
		"bad;name",
		"nope!",
		"<script>",
	}
	for _, nick := range invalid {
		if err := ValidateNickname(nick); err == nil {
			t.Errorf("ValidateNickname(%q) = nil, want error", nick)
		}
	}
}
