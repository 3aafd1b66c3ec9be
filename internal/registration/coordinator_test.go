package registration

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/hongminglow/void-bio-be/internal/apperr"
	"github.com/hongminglow/void-bio-be/internal/auth"
	"github.com/hongminglow/void-bio-be/internal/invite"
	"github.com/hongminglow/void-bio-be/internal/models"
	"github.com/hongminglow/void-bio-be/internal/storage"
	"github.com/hongminglow/void-bio-be/internal/storage/memory"
)

// faultyStore injects failures into individual provisioning steps.
type faultyStore struct {
	*memory.Store
	identityErr  error
	profileErr   error
	visualsErr   error
	redeemErr    error
	beforeRedeem func()
}

func (f *faultyStore) CreateIdentity(ctx context.Context, identity models.Identity) (models.Identity, error) {
	if f.identityErr != nil {
		return models.Identity{}, f.identityErr
	}
	return f.Store.CreateIdentity(ctx, identity)
}

func (f *faultyStore) InsertProfile(ctx context.Context, p models.Profile) (models.Profile, error) {
	if f.profileErr != nil {
		return models.Profile{}, f.profileErr
	}
	return f.Store.InsertProfile(ctx, p)
}

func (f *faultyStore) InsertVisualSettings(ctx context.Context, v models.VisualSettings) (models.VisualSettings, error) {
	if f.visualsErr != nil {
		return models.VisualSettings{}, f.visualsErr
	}
	return f.Store.InsertVisualSettings(ctx, v)
}

func (f *faultyStore) RedeemInvite(ctx context.Context, code string, userID uuid.UUID, at time.Time) (bool, error) {
	if f.beforeRedeem != nil {
		f.beforeRedeem()
	}
	if f.redeemErr != nil {
		return false, f.redeemErr
	}
	return f.Store.RedeemInvite(ctx, code, userID, at)
}

type fixture struct {
	store       *faultyStore
	issuer      *auth.Issuer
	coordinator *Coordinator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := &faultyStore{Store: memory.New()}
	tokens := auth.NewTokenManager("test-secret", "void-bio-test", time.Hour)
	issuer := auth.NewIssuer(store, tokens, auth.IssuerOptions{BcryptCost: bcrypt.MinCost})
	return &fixture{store: store, issuer: issuer, coordinator: NewCoordinator(store, issuer)}
}

func (f *fixture) seedInvite(t *testing.T, code string, uses int) {
	t.Helper()
	inv, err := invite.New(code, uses)
	if err != nil {
		t.Fatalf("build invite: %v", err)
	}
	if _, err := f.store.CreateInvite(context.Background(), inv); err != nil {
		t.Fatalf("seed invite: %v", err)
	}
}

func (f *fixture) invite(t *testing.T, code string) models.InviteCode {
	t.Helper()
	all, err := f.store.ListInvites(context.Background())
	if err != nil {
		t.Fatalf("list invites: %v", err)
	}
	for _, inv := range all {
		if inv.Code == code {
			return inv
		}
	}
	t.Fatalf("invite %q not found", code)
	return models.InviteCode{}
}

func request(code, name string) Request {
	return Request{
		Email:      name + "@example.com",
		Password:   "secret123",
		InviteCode: code,
		Username:   name,
	}
}

func TestRegisterProvisionsAccount(t *testing.T) {
	f := newFixture(t)
	f.seedInvite(t, "ABC123", 1)
	ctx := context.Background()

	result, err := f.coordinator.Register(ctx, request("ABC123", "alice"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	profile, err := f.store.FindProfileByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("profile missing: %v", err)
	}
	if profile.UserID != result.UserID || profile.DisplayName != "alice" {
		t.Fatalf("unexpected profile %+v", profile)
	}
	visuals, err := f.store.GetVisualSettings(ctx, result.UserID)
	if err != nil {
		t.Fatalf("visual settings missing: %v", err)
	}
	if visuals.BackgroundType != models.BackgroundGradient {
		t.Fatalf("unexpected default background %q", visuals.BackgroundType)
	}

	inv := f.invite(t, "ABC123")
	if inv.UsesLeft != 0 || invite.StateOf(inv) != invite.StateExhausted {
		t.Fatalf("invite not exhausted: %+v", inv)
	}
	if inv.UsedBy == nil || *inv.UsedBy != result.UserID || inv.UsedAt == nil {
		t.Fatalf("invite not stamped: %+v", inv)
	}
	if result.Token.Token == "" {
		t.Fatal("expected a session token")
	}
	if session, err := f.issuer.Session(ctx, result.Token.Token); err != nil || session.UserID != result.UserID {
		t.Fatalf("token does not resolve to the new user: %+v, %v", session, err)
	}
}

func TestRegisterKeepsRawUsernameAsDisplayName(t *testing.T) {
	f := newFixture(t)
	f.seedInvite(t, "MIXED1", 1)

	result, err := f.coordinator.Register(context.Background(), request("MIXED1", "Void_Walker"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if result.Profile.Username != "void_walker" || result.Profile.DisplayName != "Void_Walker" {
		t.Fatalf("unexpected profile %+v", result.Profile)
	}
}

func TestRegisterReusedCodeIsInvalid(t *testing.T) {
	f := newFixture(t)
	f.seedInvite(t, "ABC123", 1)
	ctx := context.Background()

	if _, err := f.coordinator.Register(ctx, request("ABC123", "alice")); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := f.coordinator.Register(ctx, request("ABC123", "bob"))
	if !errors.Is(err, ErrInvalidInviteCode) {
		t.Fatalf("expected invalid invite code, got %v", err)
	}
	if _, err := f.store.FindIdentityByEmail(ctx, "bob@example.com"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("no identity should exist for bob, got %v", err)
	}
}

func TestRegisterInviteLookupIsExact(t *testing.T) {
	f := newFixture(t)
	f.seedInvite(t, "ABC123", 1)

	for _, code := range []string{"abc123", " ABC123", "ABC12", ""} {
		if _, err := f.coordinator.Register(context.Background(), request(code, "alice")); !errors.Is(err, ErrInvalidInviteCode) {
			t.Fatalf("code %q: expected invalid invite code, got %v", code, err)
		}
	}
}

func TestRegisterUsernameTakenCaseInsensitive(t *testing.T) {
	f := newFixture(t)
	f.seedInvite(t, "MULTI", 5)
	ctx := context.Background()

	if _, err := f.coordinator.Register(ctx, request("MULTI", "alice")); err != nil {
		t.Fatalf("register alice: %v", err)
	}
	req := request("MULTI", "Alice")
	req.Email = "other@example.com"
	_, err := f.coordinator.Register(ctx, req)
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected username taken, got %v", err)
	}
	if got := f.invite(t, "MULTI").UsesLeft; got != 4 {
		t.Fatalf("uses_left = %d, want 4", got)
	}
}

func TestRegisterRejectsShortUsername(t *testing.T) {
	f := newFixture(t)
	f.seedInvite(t, "ABC123", 1)

	_, err := f.coordinator.Register(context.Background(), request("ABC123", "a!"))
	if !errors.Is(err, ErrInvalidUsername) {
		t.Fatalf("expected invalid username, got %v", err)
	}
}

func TestRegisterSurfacesIssuerRejection(t *testing.T) {
	f := newFixture(t)
	f.seedInvite(t, "ABC123", 1)

	req := request("ABC123", "alice")
	req.Password = "123"
	_, err := f.coordinator.Register(context.Background(), req)
	if apperr.CodeOf(err) != apperr.CodeIssuerRejected {
		t.Fatalf("expected issuer rejection, got %v", err)
	}
	if apperr.MessageOf(err) != "password must be at least 6 characters" {
		t.Fatalf("issuer reason not surfaced verbatim: %q", apperr.MessageOf(err))
	}
	if got := f.invite(t, "ABC123").UsesLeft; got != 1 {
		t.Fatalf("uses_left = %d, want 1", got)
	}
}

func TestRegisterProfileFailureRollsBackIdentity(t *testing.T) {
	f := newFixture(t)
	f.seedInvite(t, "ABC123", 1)
	f.store.profileErr = errors.New("simulated store fault")
	ctx := context.Background()

	_, err := f.coordinator.Register(ctx, request("ABC123", "alice"))
	if !errors.Is(err, ErrProvisioningFailed) {
		t.Fatalf("expected provisioning failure, got %v", err)
	}
	if got := f.invite(t, "ABC123").UsesLeft; got != 1 {
		t.Fatalf("invite should be untouched, uses_left = %d", got)
	}
	if _, err := f.store.FindIdentityByEmail(ctx, "alice@example.com"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("identity should have been rolled back, got %v", err)
	}

	// With the fault cleared the same request succeeds.
	f.store.profileErr = nil
	if _, err := f.coordinator.Register(ctx, request("ABC123", "alice")); err != nil {
		t.Fatalf("retry after rollback: %v", err)
	}
}

func TestRegisterVisualsFailureRollsBackProfile(t *testing.T) {
	f := newFixture(t)
	f.seedInvite(t, "ABC123", 1)
	f.store.visualsErr = errors.New("simulated store fault")
	ctx := context.Background()

	_, err := f.coordinator.Register(ctx, request("ABC123", "alice"))
	if !errors.Is(err, ErrProvisioningFailed) {
		t.Fatalf("expected provisioning failure, got %v", err)
	}
	if _, err := f.store.FindProfileByUsername(ctx, "alice"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("profile should cascade away with the identity, got %v", err)
	}
	if got := f.invite(t, "ABC123").UsesLeft; got != 1 {
		t.Fatalf("invite should be untouched, uses_left = %d", got)
	}
}

type stuckIssuer struct{ *auth.Issuer }

func (stuckIssuer) DeleteIdentity(context.Context, uuid.UUID) error {
	return errors.New("issuer offline")
}

func TestRegisterReportsProvisioningFailureWhenRollbackFails(t *testing.T) {
	f := newFixture(t)
	f.seedInvite(t, "ABC123", 1)
	f.store.profileErr = storage.ErrAlreadyExists
	coordinator := NewCoordinator(f.store, stuckIssuer{f.issuer})

	_, err := coordinator.Register(context.Background(), request("ABC123", "alice"))
	if !errors.Is(err, ErrProvisioningFailed) {
		t.Fatalf("expected provisioning failure when rollback fails, got %v", err)
	}
}

func TestRegisterIdentityStoreOutageIsServerSide(t *testing.T) {
	f := newFixture(t)
	f.seedInvite(t, "ABC123", 1)
	f.store.identityErr = errors.New("connection refused")

	_, err := f.coordinator.Register(context.Background(), request("ABC123", "alice"))
	code := apperr.CodeOf(err)
	if code != apperr.CodeIssuerUnavailable {
		t.Fatalf("expected issuer unavailable, got %v", err)
	}
	if status := code.HTTPStatus(); status < 500 {
		t.Fatalf("store outage mapped to status %d", status)
	}
	if !code.Retryable() {
		t.Fatalf("nothing was written, so the request should be retryable")
	}
	if got := f.invite(t, "ABC123").UsesLeft; got != 1 {
		t.Fatalf("uses_left = %d, want 1", got)
	}
}

func TestRegisterUsernameRaceMapsToTaken(t *testing.T) {
	f := newFixture(t)
	f.seedInvite(t, "ABC123", 1)
	f.store.profileErr = storage.ErrAlreadyExists

	_, err := f.coordinator.Register(context.Background(), request("ABC123", "alice"))
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected username taken, got %v", err)
	}
}

func TestRegisterRedemptionRaceLostKeepsAccount(t *testing.T) {
	f := newFixture(t)
	f.seedInvite(t, "LAST1", 1)
	ctx := context.Background()
	f.store.beforeRedeem = func() {
		f.store.beforeRedeem = nil
		if ok, err := f.store.Store.RedeemInvite(ctx, "LAST1", uuid.New(), time.Now()); err != nil || !ok {
			t.Errorf("competing redemption failed: %v %v", ok, err)
		}
	}

	result, err := f.coordinator.Register(ctx, request("LAST1", "alice"))
	if !errors.Is(err, ErrRedemptionRaceLost) {
		t.Fatalf("expected redemption race lost, got %v", err)
	}
	if result.UserID == uuid.Nil || result.Token.Token == "" {
		t.Fatalf("account should still be usable: %+v", result)
	}
	if _, err := f.store.GetProfile(ctx, result.UserID); err != nil {
		t.Fatalf("profile should exist: %v", err)
	}
	if got := f.invite(t, "LAST1").UsesLeft; got != 0 {
		t.Fatalf("uses_left = %d, want 0", got)
	}
}

func TestRegisterRedemptionStoreFailureKeepsAccount(t *testing.T) {
	f := newFixture(t)
	f.seedInvite(t, "ABC123", 1)
	f.store.redeemErr = errors.New("connection reset")

	result, err := f.coordinator.Register(context.Background(), request("ABC123", "alice"))
	if !errors.Is(err, ErrRedemptionFailed) {
		t.Fatalf("expected redemption failure, got %v", err)
	}
	if errors.Is(err, ErrRedemptionRaceLost) {
		t.Fatalf("store failure must not read as a lost race: %v", err)
	}
	if result.UserID == uuid.Nil || result.Token.Token == "" {
		t.Fatalf("account should still be usable: %+v", result)
	}
}

func TestConcurrentRegistrationsOnSingleUseCode(t *testing.T) {
	f := newFixture(t)
	f.seedInvite(t, "RACE", 1)

	const attempts = 2
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = f.coordinator.Register(context.Background(), request("RACE", fmt.Sprintf("racer%d", i)))
		}(i)
	}
	close(start)
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrInvalidInviteCode), errors.Is(err, ErrRedemptionRaceLost):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("expected exactly one clean redemption, got %d (%v)", succeeded, errs)
	}
	if got := f.invite(t, "RACE").UsesLeft; got != 0 {
		t.Fatalf("uses_left = %d, want 0", got)
	}
}

func TestUsesLeftNeverNegativeUnderLoad(t *testing.T) {
	f := newFixture(t)
	f.seedInvite(t, "BULK", 5)

	const attempts = 20
	var mu sync.Mutex
	redeemed := 0
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.coordinator.Register(context.Background(), request("BULK", fmt.Sprintf("bulk%02d", i)))
			if err == nil {
				mu.Lock()
				redeemed++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	if redeemed != 5 {
		t.Fatalf("expected 5 redemptions, got %d", redeemed)
	}
	if got := f.invite(t, "BULK").UsesLeft; got != 0 {
		t.Fatalf("uses_left = %d, want 0", got)
	}
}

func TestUsesLeftMonotonic(t *testing.T) {
	f := newFixture(t)
	f.seedInvite(t, "STEP", 3)
	ctx := context.Background()

	prev := f.invite(t, "STEP").UsesLeft
	for i := 0; i < 5; i++ {
		_, _ = f.coordinator.Register(ctx, request("STEP", fmt.Sprintf("step%d", i)))
		cur := f.invite(t, "STEP").UsesLeft
		if cur > prev || cur < 0 {
			t.Fatalf("uses_left went from %d to %d", prev, cur)
		}
		prev = cur
	}
	if prev != 0 {
		t.Fatalf("uses_left = %d, want 0", prev)
	}
}
