package domain

import (
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// MaxContentLength is the maximum accepted post content length in
// characters (runes).
const MaxContentLength = 255

// isEmojiCluster reports whether a grapheme cluster is an emoji. The check
// looks at the cluster's leading rune: the main emoji blocks plus the
// miscellaneous-symbols and dingbats ranges. Modifier and ZWJ sequences
// attach to the leading rune, so whole clusters like 👍🏽 or 👩‍💻 pass.
func isEmojiCluster(runes []rune) bool {
	if len(runes) == 0 {
		return false
	}
	r := runes[0]
	switch {
	case r >= 0x1F000 && r <= 0x1FFFF:
		return true
	case r >= 0x2600 && r <= 0x27BF:
		return true
	case r >= 0x2190 && r <= 0x21FF && len(runes) > 1 && runes[1] == 0xFE0F:
		// arrows only in their emoji presentation form
		return true
	case r == 0x2B50 || r == 0x2B55:
		return true
	default:
		return false
	}
}

// ValidateContent checks that content is 1-255 characters and consists
// solely of emoji grapheme clusters. Returns a *ValidationError naming
// the content field on violation.
func ValidateContent(content string) error {
	if len(content) == 0 {
		return &ValidationError{Field: "content", Message: "post must not be empty"}
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return &ValidationError{Field: "content", Message: "post must be at most 255 characters"}
	}

	gr := uniseg.NewGraphemes(content)
	for gr.Next() {
		if !isEmojiCluster(gr.Runes()) {
			return &ValidationError{Field: "content", Message: "posts can only contain emojis"}
		}
	}
	return nil
}
