package middleware

import (
	"net/mail"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/bryanwahyu/healthcare-collab/internal/domain"
)

// Input validation and sanitization utilities

// ParseUUID validates a path or body identifier.
func ParseUUID(field, raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, domain.Missing(field)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.Invalid(field, "must be a UUID")
	}
	return id, nil
}

// ValidateEmail accepts a bare address without display name.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return domain.Missing("email")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return domain.Invalid("email", "invalid email format")
	}
	return nil
}

// MinPasswordLength is enforced on registration only.
const MinPasswordLength = 6

func ValidatePassword(pw string) error {
	if pw == "" {
		return domain.Missing("password")
	}
	if len(pw) < MinPasswordLength {
		return domain.Invalid("password", "must be at least 6 characters")
	}
	return nil
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters
	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}

// ValidateLimit validates pagination limit
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 20 // default
	}
	if limit > 100 {
		return 100 // max limit
	}
	return limit
}

// ValidatePage clamps a 1-based page number.
func ValidatePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// QueryInt reads an integer query value, returning def when absent or malformed.
func QueryInt(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
