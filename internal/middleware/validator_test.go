package middleware

import (
	"testing"

	"github.com/google/uuid"

	"github.com/bryanwahyu/healthcare-collab/internal/domain"
)

func TestParseUUID(t *testing.T) {
	id := uuid.New()
	got, err := ParseUUID("id", " "+id.String()+" ")
	if err != nil || got != id {
		t.Fatalf("expected %s, got %s (%v)", id, got, err)
	}
	if _, err := ParseUUID("id", ""); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for empty id, got %v", err)
	}
	if _, err := ParseUUID("id", "42"); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for malformed id, got %v", err)
	}
}

func TestValidateEmail(t *testing.T) {
	for _, ok := range []string{"doc@example.com", "a.b+c@clinic.org"} {
		if err := ValidateEmail(ok); err != nil {
			t.Errorf("%q: unexpected error %v", ok, err)
		}
	}
	for _, bad := range []string{"", "plain", "Doc <doc@example.com>"} {
		if err := ValidateEmail(bad); err == nil {
			t.Errorf("%q: expected error", bad)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("12345"); err == nil {
		t.Fatalf("expected short password to fail")
	}
	if err := ValidatePassword("123456"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  Jane\x00\x07 Doe\n "); got != "Jane Doe" {
		t.Fatalf("unexpected sanitised value %q", got)
	}
}

func TestPaging(t *testing.T) {
	if ValidateLimit(0) != 20 || ValidateLimit(500) != 100 || ValidateLimit(10) != 10 {
		t.Fatalf("unexpected limit clamping")
	}
	if ValidatePage(-3) != 1 || ValidatePage(4) != 4 {
		t.Fatalf("unexpected page clamping")
	}
	if QueryInt("abc", 7) != 7 || QueryInt("", 7) != 7 || QueryInt("3", 7) != 3 {
		t.Fatalf("unexpected QueryInt behaviour")
	}
}
