package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/hongminglow/void-bio-be/internal/apperr"
	"github.com/hongminglow/void-bio-be/internal/models"
	"github.com/hongminglow/void-bio-be/internal/storage/memory"
)

func newTestIssuer(t *testing.T) *Issuer {
	t.Helper()
	tokens := NewTokenManager("test-secret", "void-bio-test", time.Hour)
	return NewIssuer(memory.New(), tokens, IssuerOptions{MinPasswordLength: 6, BcryptCost: bcrypt.MinCost})
}

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokenManager("secret", "issuer", time.Hour)
	identity := models.Identity{ID: uuid.New(), Email: "a@example.com"}

	raw, session, err := tokens.Generate(identity)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	got, err := tokens.Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.UserID != identity.ID || got.Email != identity.Email || got.TokenID != session.TokenID {
		t.Fatalf("unexpected session %+v", got)
	}
	if !got.ExpiresAt.Equal(session.ExpiresAt) {
		t.Fatalf("expiry mismatch: %v vs %v", got.ExpiresAt, session.ExpiresAt)
	}
}

func TestTokenRejectsWrongSecretAndIssuer(t *testing.T) {
	identity := models.Identity{ID: uuid.New(), Email: "a@example.com"}
	raw, _, err := NewTokenManager("secret", "issuer", time.Hour).Generate(identity)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := NewTokenManager("other", "issuer", time.Hour).Parse(raw); err == nil {
		t.Fatal("expected signature failure")
	}
	if _, err := NewTokenManager("secret", "someone-else", time.Hour).Parse(raw); err == nil {
		t.Fatal("expected issuer failure")
	}
}

func TestTokenExpires(t *testing.T) {
	tokens := NewTokenManager("secret", "issuer", time.Minute)
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tokens.now = func() time.Time { return start }
	raw, _, err := tokens.Generate(models.Identity{ID: uuid.New()})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	tokens.now = func() time.Time { return start.Add(2 * time.Minute) }
	if _, err := tokens.Parse(raw); err == nil {
		t.Fatal("expected expired token to fail")
	}
}

func TestCreateIdentityPolicy(t *testing.T) {
	issuer := newTestIssuer(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
		reason   string
	}{
		{"malformed email", "not-an-email", "secret123", "invalid email address"},
		{"weak password", "a@example.com", "123", "password must be at least 6 characters"},
		{"too long password", "a@example.com", strings.Repeat("x", 80), "password is too long"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := issuer.CreateIdentity(ctx, tt.email, tt.password)
			if apperr.CodeOf(err) != apperr.CodeIssuerRejected {
				t.Fatalf("expected issuer rejection, got %v", err)
			}
			if apperr.MessageOf(err) != tt.reason {
				t.Fatalf("reason = %q, want %q", apperr.MessageOf(err), tt.reason)
			}
		})
	}
}

func TestCreateIdentityDuplicateEmail(t *testing.T) {
	issuer := newTestIssuer(t)
	ctx := context.Background()

	if _, err := issuer.CreateIdentity(ctx, "A@Example.com", "secret123"); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := issuer.CreateIdentity(ctx, "a@example.com ", "secret123")
	if apperr.CodeOf(err) != apperr.CodeIssuerRejected || apperr.MessageOf(err) != "email already registered" {
		t.Fatalf("expected duplicate rejection, got %v", err)
	}
}

func TestSignInSessionSignOut(t *testing.T) {
	issuer := newTestIssuer(t)
	ctx := context.Background()

	identity, err := issuer.CreateIdentity(ctx, "user@example.com", "secret123")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := issuer.SignIn(ctx, "user@example.com", "wrong-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, err := issuer.SignIn(ctx, "nobody@example.com", "secret123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown email, got %v", err)
	}

	issued, err := issuer.SignIn(ctx, "USER@example.com", "secret123")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	session, err := issuer.Session(ctx, issued.Token)
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	if session.UserID != identity.ID {
		t.Fatalf("session user = %s, want %s", session.UserID, identity.ID)
	}

	if err := issuer.SignOut(ctx, session); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	if _, err := issuer.Session(ctx, issued.Token); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected revoked session, got %v", err)
	}
}

func TestSessionContext(t *testing.T) {
	if _, ok := SessionFrom(context.Background()); ok {
		t.Fatal("empty context should carry no session")
	}
	want := Session{UserID: uuid.New(), TokenID: "jti"}
	got, ok := SessionFrom(WithSession(context.Background(), want))
	if !ok || got.UserID != want.UserID || got.TokenID != want.TokenID {
		t.Fatalf("unexpected session %+v", got)
	}
}
