// Package registration turns an invite code and credentials into a fully
// provisioned account.
package registration

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hongminglow/void-bio-be/internal/apperr"
	"github.com/hongminglow/void-bio-be/internal/auth"
	"github.com/hongminglow/void-bio-be/internal/invite"
	"github.com/hongminglow/void-bio-be/internal/models"
	"github.com/hongminglow/void-bio-be/internal/storage"
	"github.com/hongminglow/void-bio-be/internal/username"
)

var (
	ErrInvalidInviteCode = invite.ErrInvalid
	ErrUsernameTaken     = username.ErrTaken
	ErrInvalidUsername   = username.ErrInvalid
	// ErrProvisioningFailed means the identity was created but its profile
	// could not be; the identity has been rolled back where possible.
	ErrProvisioningFailed = apperr.New(apperr.CodeProvisioningFailed, "account setup failed after sign-up; please contact support before retrying")
	// ErrRedemptionRaceLost means the account exists but another registration
	// used the last invite slot between validation and redemption.
	ErrRedemptionRaceLost = apperr.New(apperr.CodeRedemptionRaceLost, "account created, but the invite code was used up by another registration at the same time")
	// ErrRedemptionFailed means the account exists but the invite could not
	// be marked as used because the store failed.
	ErrRedemptionFailed = apperr.New(apperr.CodeRedemptionFailed, "account created, but the invite code could not be recorded as used")
	// ErrIssuerUnavailable means the credential issuer failed for reasons
	// other than its own policy. Nothing was written.
	ErrIssuerUnavailable = apperr.New(apperr.CodeIssuerUnavailable, "sign-up is temporarily unavailable; please try again")
)

// Request is the registration form.
type Request struct {
	Email      string
	Password   string
	InviteCode string
	Username   string
}

// Result describes the provisioned account. Token is empty when issuing the
// first session failed; the caller should fall back to a normal sign-in.
type Result struct {
	UserID  uuid.UUID
	Profile models.Profile
	Token   auth.IssuedToken
}

// Issuer is the slice of the credential issuer the coordinator needs.
type Issuer interface {
	CreateIdentity(ctx context.Context, email, password string) (models.Identity, error)
	DeleteIdentity(ctx context.Context, id uuid.UUID) error
	Issue(identity models.Identity) (auth.IssuedToken, error)
}

// Store is the slice of persistence the coordinator needs.
type Store interface {
	FindRedeemableInvite(ctx context.Context, code string) (models.InviteCode, error)
	RedeemInvite(ctx context.Context, code string, userID uuid.UUID, at time.Time) (bool, error)
	FindProfileByUsername(ctx context.Context, username string) (models.Profile, error)
	InsertProfile(ctx context.Context, profile models.Profile) (models.Profile, error)
	InsertVisualSettings(ctx context.Context, settings models.VisualSettings) (models.VisualSettings, error)
}

// Coordinator runs the registration steps strictly in order.
type Coordinator struct {
	store   Store
	issuer  Issuer
	checker *username.Checker
	now     func() time.Time
}

// NewCoordinator wires a Coordinator.
func NewCoordinator(store Store, issuer Issuer) *Coordinator {
	return &Coordinator{
		store:   store,
		issuer:  issuer,
		checker: username.NewChecker(store),
		now:     time.Now,
	}
}

// Register validates the invite and username, creates the identity, then
// provisions the profile and visual settings, and redeems the invite last.
//
// Failures before the identity exists leave nothing behind. Profile or visual
// settings failures roll the identity back. A lost redemption race keeps the
// account and returns ErrRedemptionRaceLost alongside a populated Result; a
// store failure while redeeming does the same with ErrRedemptionFailed.
func (c *Coordinator) Register(ctx context.Context, req Request) (Result, error) {
	normalized := username.Normalize(req.Username)
	if err := username.Validate(normalized); err != nil {
		return Result{}, err
	}

	if _, err := c.store.FindRedeemableInvite(ctx, req.InviteCode); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Result{}, ErrInvalidInviteCode
		}
		return Result{}, fmt.Errorf("lookup invite code: %w", err)
	}

	_, available, err := c.checker.Available(ctx, normalized, uuid.Nil)
	if err != nil {
		return Result{}, err
	}
	if !available {
		return Result{}, ErrUsernameTaken
	}

	identity, err := c.issuer.CreateIdentity(ctx, req.Email, req.Password)
	if err != nil {
		if apperr.CodeOf(err) == apperr.CodeIssuerRejected {
			return Result{}, err
		}
		return Result{}, apperr.Wrap(apperr.CodeIssuerUnavailable, ErrIssuerUnavailable.Message, err)
	}

	profile, err := c.store.InsertProfile(ctx, models.Profile{
		UserID:      identity.ID,
		Username:    normalized,
		DisplayName: strings.TrimSpace(req.Username),
	})
	if err != nil {
		rolledBack := c.rollback(ctx, identity.ID, "insert profile", err)
		if rolledBack && errors.Is(err, storage.ErrAlreadyExists) {
			// Lost the username race to a concurrent registration.
			return Result{}, ErrUsernameTaken
		}
		return Result{}, apperr.Wrap(apperr.CodeProvisioningFailed, ErrProvisioningFailed.Message, err)
	}

	if _, err := c.store.InsertVisualSettings(ctx, models.DefaultVisualSettings(identity.ID)); err != nil {
		c.rollback(ctx, identity.ID, "insert visual settings", err)
		return Result{}, apperr.Wrap(apperr.CodeProvisioningFailed, ErrProvisioningFailed.Message, err)
	}

	var redeemErr error
	redeemed, err := c.store.RedeemInvite(ctx, req.InviteCode, identity.ID, c.now().UTC())
	switch {
	case err != nil:
		log.Printf("registration: redeem invite %q for %s: %v", req.InviteCode, identity.ID, err)
		redeemErr = apperr.Wrap(apperr.CodeRedemptionFailed, ErrRedemptionFailed.Message, err)
	case !redeemed:
		log.Printf("registration: invite %q exhausted before redemption by %s", req.InviteCode, identity.ID)
		redeemErr = ErrRedemptionRaceLost
	}

	result := Result{UserID: identity.ID, Profile: profile}
	if token, err := c.issuer.Issue(identity); err != nil {
		log.Printf("registration: issue session for %s: %v", identity.ID, err)
	} else {
		result.Token = token
	}
	return result, redeemErr
}

// rollback deletes a freshly created identity after a provisioning failure.
// It runs detached from ctx so a client disconnect cannot strand the orphan.
func (c *Coordinator) rollback(ctx context.Context, userID uuid.UUID, step string, cause error) bool {
	log.Printf("registration: %s failed for %s: %v", step, userID, cause)
	cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := c.issuer.DeleteIdentity(cleanupCtx, userID); err != nil {
		log.Printf("registration: orphaned identity %s needs manual cleanup: %v", userID, err)
		return false
	}
	return true
}
