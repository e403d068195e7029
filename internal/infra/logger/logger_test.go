package logger

import "testing"

func TestSanitizeKVsRedactsSecrets(t *testing.T) {
	out := sanitizeKVs([]any{
		"password", "hunter2",
		"Authorization", "Bearer abc",
		"patient_id", "p-1",
		"raw", "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxMjM0NTY3ODkwIn0.sig",
		"dangling",
	})
	if len(out) != 9 {
		t.Fatalf("expected 9 elements, got %d", len(out))
	}
	if out[1] != redacted || out[3] != redacted {
		t.Fatalf("expected secrets redacted, got %v", out)
	}
	if out[5] != "p-1" {
		t.Fatalf("expected patient_id untouched, got %v", out[5])
	}
	if out[7] != redacted {
		t.Fatalf("expected JWT-looking value redacted, got %v", out[7])
	}
	if out[8] != "dangling" {
		t.Fatalf("expected trailing key kept, got %v", out[8])
	}
}

func TestNewModes(t *testing.T) {
	for _, mode := range []string{"dev", "prod"} {
		l, err := New(mode)
		if err != nil {
			t.Fatalf("mode %s: unexpected error: %v", mode, err)
		}
		l.With("component", "test").Debug("hello")
	}
}
