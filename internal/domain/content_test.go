package domain

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestValidateContent_AcceptsEmoji(t *testing.T) {
	valid := []string{
		"👍",
		"🔥🔥🔥",
		"👍🏽",
		"👩‍💻",
		"☀️⭐",
		"🎉🎊🥳",
	}

	for _, content := range valid {
		if err := ValidateContent(content); err != nil {
			t.Errorf("ValidateContent(%q): unexpected error: %v", content, err)
		}
	}
}

func TestValidateContent_RejectsNonEmoji(t *testing.T) {
	invalid := []string{
		"hello",
		"👍 nice",
		"a👍",
		"👍1",
		" ",
	}

	for _, content := range invalid {
		err := ValidateContent(content)
		if err == nil {
			t.Errorf("ValidateContent(%q): expected error, got nil", content)
			continue
		}
		ve, ok := AsValidation(err)
		if !ok {
			t.Errorf("ValidateContent(%q): expected *ValidationError, got %T", content, err)
			continue
		}
		if ve.Field != "content" {
			t.Errorf("ValidateContent(%q): Field = %q, want content", content, ve.Field)
		}
	}
}

func TestValidateContent_RejectsEmpty(t *testing.T) {
	err := ValidateContent("")
	ve, ok := AsValidation(err)
	if !ok {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if ve.Field != "content" {
		t.Errorf("Field = %q, want content", ve.Field)
	}
}

func TestValidateContent_RejectsOverlong(t *testing.T) {
	// 256 single-rune emoji, one character over the limit
	content := strings.Repeat("👍", 256)
	if utf8.RuneCountInString(content) <= MaxContentLength {
		t.Fatalf("fixture too short: %d characters", utf8.RuneCountInString(content))
	}

	err := ValidateContent(content)
	if _, ok := AsValidation(err); !ok {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
}

func TestValidateContent_LimitBoundary(t *testing.T) {
	// exactly 255 characters, at the limit
	content := strings.Repeat("👍", 255)
	if err := ValidateContent(content); err != nil {
		t.Errorf("unexpected error at boundary: %v", err)
	}
}

func TestValidateContent_LengthCountsCharactersNotBytes(t *testing.T) {
	// 64 four-byte emoji: 256 bytes but only 64 characters, well under
	// the limit. A byte-based check would wrongly reject this.
	content := strings.Repeat("👍", 64)
	if len(content) <= MaxContentLength {
		t.Fatalf("fixture does not exceed %d bytes: %d", MaxContentLength, len(content))
	}

	if err := ValidateContent(content); err != nil {
		t.Errorf("ValidateContent rejected a %d-character post: %v",
			utf8.RuneCountInString(content), err)
	}
}
