package user

import (
	"strings"
	"testing"
)

func TestValidateUsername(t *testing.T) {
	ok := []string{"alice1", "alice_01", "a1234", "john-doe", "alice.dev"}
	for _, v := range ok {
		if err := ValidateUsername(v); err != nil {
			t.Fatalf("expected valid username %q: %v", v, err)
		}
	}
	bad := []string{"", "1alice", "a", "ab", "a_", "a..", "a*", "toolongusername_over_32_chars_abc"}
	for _, v := range bad {
		if err := ValidateUsername(v); err == nil {
			t.Fatalf("expected invalid username %q", v)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("S3cure!Passw0rd", "alice"); err != nil {
		t.Fatalf("expected valid password: %v", err)
	}
	if err := ValidatePassword("short1!", "alice"); err == nil {
		t.Fatalf("expected error for short password")
	}
	if err := ValidatePassword("alllowercase123!", "alice"); err == nil {
		t.Fatalf("expected error for missing upper")
	}
	if err := ValidatePassword("NoSpecial12345", "alice"); err == nil {
		t.Fatalf("expected error for missing special")
	}
	if err := ValidatePassword("Alice!Passw0rd", "alice"); err == nil {
		t.Fatalf("expected error for containing username")
	}
}

func TestNormalizeDisplayName(t *testing.T) {
	name, err := NormalizeDisplayName("  小明 ")
	if err != nil || name != "小明" {
		t.Fatalf("expected trimmed name, got %q (%v)", name, err)
	}
	if _, err := NormalizeDisplayName("   "); err == nil {
		t.Fatalf("expected error for blank name")
	}
	if _, err := NormalizeDisplayName(strings.Repeat("灯", 33)); err == nil {
		t.Fatalf("expected error for long name")
	}
	if _, err := NormalizeDisplayName("bad\x00name"); err == nil {
		t.Fatalf("expected error for control characters")
	}
}

func TestNewParticipant(t *testing.T) {
	avatar := "/avatar/2026/02/12/a.png"
	u, err := NewParticipant("Lily", &avatar)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Role != RoleParticipant || !u.IsActive() || u.IsAdmin() {
		t.Fatalf("unexpected participant state: %+v", u)
	}
	if len(u.UserCode) != 8 || strings.ToUpper(u.UserCode) != u.UserCode {
		t.Fatalf("unexpected user code %q", u.UserCode)
	}
	if u.AvatarRef() != avatar {
		t.Fatalf("unexpected avatar %q", u.AvatarRef())
	}
}

func TestNewAdmin(t *testing.T) {
	u, err := NewAdmin(" Organizer ", "S3cure!Passw0rd")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Username != "organizer" || !u.IsAdmin() {
		t.Fatalf("unexpected admin: %+v", u)
	}
	if !VerifyPassword(u.PasswordHash, "S3cure!Passw0rd") {
		t.Fatalf("expected password to verify")
	}
	if VerifyPassword(u.PasswordHash, "wrong") {
		t.Fatalf("expected wrong password to fail")
	}
	if _, err := NewAdmin("organizer", "weak"); err == nil {
		t.Fatalf("expected weak password to be rejected")
	}
}
