package invite

import (
	"errors"
	"strings"
	"testing"

	"github.com/hongminglow/void-bio-be/internal/apperr"
	"github.com/hongminglow/void-bio-be/internal/models"
)

func TestStateOf(t *testing.T) {
	tests := []struct {
		name string
		code models.InviteCode
		want State
	}{
		{"fresh single use", models.InviteCode{UsesLeft: 1, MaxUses: 1}, StateUnused},
		{"fresh multi use", models.InviteCode{UsesLeft: 5, MaxUses: 5}, StateUnused},
		{"partially used", models.InviteCode{UsesLeft: 2, MaxUses: 5}, StatePartiallyUsed},
		{"exhausted", models.InviteCode{UsesLeft: 0, MaxUses: 5}, StateExhausted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StateOf(tt.code); got != tt.want {
				t.Fatalf("StateOf = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestGenerate(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := Generate()
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if len(code) != CodeLength {
			t.Fatalf("code %q has length %d", code, len(code))
		}
		if strings.Trim(code, alphabet) != "" {
			t.Fatalf("code %q contains characters outside the alphabet", code)
		}
		seen[code] = true
	}
	if len(seen) < 45 {
		t.Fatalf("expected mostly unique codes, got %d distinct of 50", len(seen))
	}
}

func TestNewBounds(t *testing.T) {
	for _, uses := range []int{0, -1, MaxUsesLimit + 1} {
		if _, err := New("ABC", uses); apperr.CodeOf(err) != apperr.CodeValidation {
			t.Fatalf("New(%d) error = %v, want validation", uses, err)
		}
	}
	code, err := New("ABC123", 3)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if code.UsesLeft != 3 || code.MaxUses != 3 || StateOf(code) != StateUnused {
		t.Fatalf("unexpected code %+v", code)
	}
}

func TestErrInvalidMatchesByCode(t *testing.T) {
	wrapped := apperr.Wrap(apperr.CodeInvalidInviteCode, "other text", errors.New("x"))
	if !errors.Is(wrapped, ErrInvalid) {
		t.Fatal("errors with the same code should match")
	}
}
