package auth

import (
	"testing"
	"time"

	"github.com/arogyacare/appointment-api/internal/apperr"
)

func TestIssueAndVerify(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	want := Identity{ID: "user-1", Role: RolePatient, Email: "p@example.com"}

	token, err := issuer.Issue(want)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	got, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got != want {
		t.Errorf("identity mismatch: got %+v want %+v", got, want)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", -time.Minute)
	token, err := issuer.Issue(Identity{ID: "user-1", Role: RolePatient})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := issuer.Verify(token); !apperr.Is(err, apperr.KindAuth) {
		t.Errorf("expected auth error for expired token, got %v", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("secret-a", time.Hour)
	token, _ := issuer.Issue(Identity{ID: "user-1", Role: RoleAdmin})

	other := NewTokenIssuer("secret-b", time.Hour)
	if _, err := other.Verify(token); !apperr.Is(err, apperr.KindAuth) {
		t.Errorf("expected auth error for wrong secret, got %v", err)
	}
}

func TestVerifyGarbage(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	if _, err := issuer.Verify("not.a.token"); !apperr.Is(err, apperr.KindAuth) {
		t.Errorf("expected auth error, got %v", err)
	}
}

func TestValidRole(t *testing.T) {
	for _, role := range []string{RolePatient, RoleDoctor, RoleAdmin} {
		if !ValidRole(role) {
			t.Errorf("expected %s to be valid", role)
		}
	}
	if ValidRole("superuser") {
		t.Errorf("unexpected valid role")
	}
}
