package auth

import (
	"testing"
	"time"
)

func TestIdentity_Anonymous(t *testing.T) {
	if !Anonymous().Anonymous() {
		t.Fatalf("expected anonymous marker")
	}
	if (Identity{UserID: "u"}).Anonymous() {
		t.Fatalf("did not expect anonymous")
	}
}

func TestSession_Expired(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s := Session{ID: "s", UserID: "u", ExpiresAt: now.Add(time.Minute)}
	if s.Expired(now) {
		t.Fatalf("session should be live")
	}
	if !s.Expired(now.Add(2 * time.Minute)) {
		t.Fatalf("session should be expired")
	}
}

func TestUserRecord_IsAdmin(t *testing.T) {
	if !DevAdminRecord.IsAdmin() {
		t.Fatalf("dev admin must carry the admin role")
	}
	if (UserRecord{Role: RoleUser}).IsAdmin() {
		t.Fatalf("user role is not admin")
	}
}
