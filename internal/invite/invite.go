// Package invite holds the invite code lifecycle rules.
package invite

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/hongminglow/void-bio-be/internal/apperr"
	"github.com/hongminglow/void-bio-be/internal/models"
)

// State is the redemption state of a code.
type State string

const (
	StateUnused        State = "unused"
	StatePartiallyUsed State = "partially_used"
	StateExhausted     State = "exhausted"
)

const (
	// CodeLength is the length of generated codes.
	CodeLength = 8
	// MaxUsesLimit caps how many uses an admin can grant a single code.
	MaxUsesLimit = 100
)

const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// ErrInvalid is returned when a submitted code is unknown or exhausted.
var ErrInvalid = apperr.New(apperr.CodeInvalidInviteCode, "invalid or expired invite code")

// StateOf classifies a code. Exhausted is terminal.
func StateOf(code models.InviteCode) State {
	switch {
	case code.UsesLeft <= 0:
		return StateExhausted
	case code.UsesLeft >= code.MaxUses:
		return StateUnused
	default:
		return StatePartiallyUsed
	}
}

// Generate returns a random uppercase base36 code.
func Generate() (string, error) {
	buf := make([]byte, CodeLength)
	limit := big.NewInt(int64(len(alphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("generate invite code: %w", err)
		}
		buf[i] = alphabet[n.Int64()]
	}
	return string(buf), nil
}

// New builds a fresh code in the Unused state.
func New(code string, maxUses int) (models.InviteCode, error) {
	if maxUses < 1 || maxUses > MaxUsesLimit {
		return models.InviteCode{}, apperr.New(apperr.CodeValidation, fmt.Sprintf("max uses must be between 1 and %d", MaxUsesLimit))
	}
	return models.InviteCode{Code: code, UsesLeft: maxUses, MaxUses: maxUses}, nil
}
