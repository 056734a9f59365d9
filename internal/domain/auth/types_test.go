package auth

import (
	"testing"
	"time"

	"github.com/confide/confide/internal/domain/model"
)

func TestSession_Expired(t *testing.T) {
	now := time.Now()
	s := Session{ExpiresAt: now.Add(time.Hour)}
	if s.Expired(now) {
		t.Fatalf("did not expect expired")
	}
	if !s.Expired(now.Add(2 * time.Hour)) {
		t.Fatalf("expected expired")
	}
}

func TestSession_CarriesUserSnapshot(t *testing.T) {
	secret := "old"
	s := Session{
		ID:        "s1",
		User:      model.User{ID: 1, Email: "a@example.com", Secret: &secret},
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if s.User.Email != "a@example.com" || s.User.RevealSecret() != "old" {
		t.Fatalf("unexpected session user: %+v", s.User)
	}
}
