package profile

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/hongminglow/void-bio-be/internal/apperr"
	"github.com/hongminglow/void-bio-be/internal/auth"
	"github.com/hongminglow/void-bio-be/internal/invite"
	"github.com/hongminglow/void-bio-be/internal/models"
	"github.com/hongminglow/void-bio-be/internal/registration"
	"github.com/hongminglow/void-bio-be/internal/storage/memory"
	"github.com/hongminglow/void-bio-be/internal/username"
)

type fixture struct {
	store       *memory.Store
	service     *Service
	coordinator *registration.Coordinator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	tokens := auth.NewTokenManager("test-secret", "void-bio-test", time.Hour)
	issuer := auth.NewIssuer(store, tokens, auth.IssuerOptions{BcryptCost: bcrypt.MinCost})
	return &fixture{
		store:       store,
		service:     NewService(store),
		coordinator: registration.NewCoordinator(store, issuer),
	}
}

func (f *fixture) register(t *testing.T, email, name string) uuid.UUID {
	t.Helper()
	code, err := invite.Generate()
	if err != nil {
		t.Fatalf("generate code: %v", err)
	}
	inv, err := invite.New(code, 1)
	if err != nil {
		t.Fatalf("build invite: %v", err)
	}
	if _, err := f.store.CreateInvite(context.Background(), inv); err != nil {
		t.Fatalf("seed invite: %v", err)
	}
	res, err := f.coordinator.Register(context.Background(), registration.Request{
		Email:      email,
		Password:   "hunter22",
		InviteCode: code,
		Username:   name,
	})
	if err != nil {
		t.Fatalf("register %s: %v", name, err)
	}
	return res.UserID
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func TestUpdateProfileSelfRename(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := f.register(t, "alice@x.io", "alice")

	_, available, err := f.service.Checker().Available(ctx, "alice", userID)
	if err != nil {
		t.Fatalf("Available: %v", err)
	}
	if !available {
		t.Fatalf("own username reported as taken")
	}

	updated, err := f.service.UpdateProfile(ctx, userID, models.ProfileUpdate{
		Username:    strPtr("Alice"),
		DisplayName: strPtr("  Alice A.  "),
	})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.Username != "alice" {
		t.Fatalf("expected username alice, got %q", updated.Username)
	}
	if updated.DisplayName != "Alice A." {
		t.Fatalf("expected trimmed display name, got %q", updated.DisplayName)
	}
}

func TestUpdateProfileRejectsTakenUsername(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "alice@x.io", "alice")
	bob := f.register(t, "bob@x.io", "bob")

	_, err := f.service.UpdateProfile(ctx, bob, models.ProfileUpdate{Username: strPtr("ALICE")})
	if !errors.Is(err, username.ErrTaken) {
		t.Fatalf("expected ErrTaken, got %v", err)
	}
	if apperr.CodeOf(err).HTTPStatus() != 409 {
		t.Fatalf("expected 409 for taken username")
	}
}

func TestUpdateProfileValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := f.register(t, "alice@x.io", "alice")

	tests := []struct {
		name   string
		update models.ProfileUpdate
		code   apperr.Code
	}{
		{name: "short username", update: models.ProfileUpdate{Username: strPtr("ab")}, code: apperr.CodeInvalidUsername},
		{name: "long bio", update: models.ProfileUpdate{Bio: strPtr(strings.Repeat("é", models.MaxBioLength+1))}, code: apperr.CodeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.UpdateProfile(ctx, userID, tt.update)
			if got := apperr.CodeOf(err); got != tt.code {
				t.Fatalf("expected %s, got %s (%v)", tt.code, got, err)
			}
		})
	}

	bio := strings.Repeat("é", models.MaxBioLength)
	if _, err := f.service.UpdateProfile(ctx, userID, models.ProfileUpdate{Bio: &bio}); err != nil {
		t.Fatalf("bio at the limit should be accepted: %v", err)
	}
}

func TestUpdateProfileUnknownUser(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.UpdateProfile(context.Background(), uuid.New(), models.ProfileUpdate{Bio: strPtr("hi")})
	if apperr.CodeOf(err) != apperr.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateVisuals(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := f.register(t, "alice@x.io", "alice")

	bad := models.BackgroundType("hologram")
	if _, err := f.service.UpdateVisuals(ctx, userID, models.VisualSettingsUpdate{BackgroundType: &bad}); apperr.CodeOf(err) != apperr.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	video := models.BackgroundVideo
	updated, err := f.service.UpdateVisuals(ctx, userID, models.VisualSettingsUpdate{
		BackgroundType:  &video,
		BackgroundValue: strPtr("https://cdn.example.com/bg.mp4"),
		EffectSnowfall:  boolPtr(true),
	})
	if err != nil {
		t.Fatalf("UpdateVisuals: %v", err)
	}
	if updated.BackgroundType != models.BackgroundVideo || !updated.EffectSnowfall {
		t.Fatalf("update not applied: %+v", updated)
	}
	if !updated.EffectGlow || !updated.AudioLoop {
		t.Fatalf("untouched defaults changed: %+v", updated)
	}
}

func TestAddLinkBuildsSmartURL(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := f.register(t, "alice@x.io", "alice")

	tests := []struct {
		name      string
		in        LinkInput
		wantURL   string
		wantTitle string
		wantIcon  string
	}{
		{name: "handle", in: LinkInput{Icon: "github", Value: "@octocat"}, wantURL: "https://github.com/octocat", wantTitle: "GitHub", wantIcon: "github"},
		{name: "raw url", in: LinkInput{Title: "Blog", URL: "https://blog.example.com"}, wantURL: "https://blog.example.com", wantTitle: "Blog", wantIcon: "link"},
		{name: "bare domain", in: LinkInput{Icon: "globe", URL: "example.com"}, wantURL: "https://example.com", wantTitle: "Website", wantIcon: "globe"},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			link, err := f.service.AddLink(ctx, userID, tt.in)
			if err != nil {
				t.Fatalf("AddLink: %v", err)
			}
			if link.URL != tt.wantURL || link.Title != tt.wantTitle || link.Icon != tt.wantIcon {
				t.Fatalf("unexpected link %+v", link)
			}
			if link.SortOrder != i {
				t.Fatalf("expected sort order %d, got %d", i, link.SortOrder)
			}
			if !link.IsEnabled {
				t.Fatalf("new links should be enabled")
			}
		})
	}

	if _, err := f.service.AddLink(ctx, userID, LinkInput{Icon: "myspace", URL: "https://x"}); apperr.CodeOf(err) != apperr.CodeValidation {
		t.Fatalf("expected validation error for unknown platform, got %v", err)
	}
	if _, err := f.service.AddLink(ctx, userID, LinkInput{Icon: "github"}); apperr.CodeOf(err) != apperr.CodeValidation {
		t.Fatalf("expected validation error for empty link, got %v", err)
	}
}

func TestLinkLifecycleAndPublicPage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := f.register(t, "alice@x.io", "alice")
	other := f.register(t, "bob@x.io", "bob")

	shown, err := f.service.AddLink(ctx, userID, LinkInput{Icon: "twitter", Value: "alice"})
	if err != nil {
		t.Fatalf("AddLink: %v", err)
	}
	hidden, err := f.service.AddLink(ctx, userID, LinkInput{URL: "https://secret.example.com", IsEnabled: boolPtr(false)})
	if err != nil {
		t.Fatalf("AddLink: %v", err)
	}

	if _, err := f.service.UpdateLink(ctx, other, shown.ID, models.LinkUpdate{Title: strPtr("stolen")}); apperr.CodeOf(err) != apperr.CodeNotFound {
		t.Fatalf("expected not found editing another owner's link, got %v", err)
	}
	updated, err := f.service.UpdateLink(ctx, userID, shown.ID, models.LinkUpdate{Title: strPtr("X"), Icon: strPtr("TWITTER")})
	if err != nil {
		t.Fatalf("UpdateLink: %v", err)
	}
	if updated.Title != "X" || updated.Icon != "twitter" {
		t.Fatalf("unexpected update %+v", updated)
	}

	page, err := f.service.Public(ctx, "ALICE")
	if err != nil {
		t.Fatalf("Public: %v", err)
	}
	if len(page.Links) != 1 || page.Links[0].ID != shown.ID {
		t.Fatalf("public page should only show enabled links: %+v", page.Links)
	}

	dash, err := f.service.Dashboard(ctx, userID)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if len(dash.Links) != 2 {
		t.Fatalf("dashboard should show every link, got %d", len(dash.Links))
	}

	if err := f.service.DeleteLink(ctx, userID, hidden.ID); err != nil {
		t.Fatalf("DeleteLink: %v", err)
	}
	if err := f.service.DeleteLink(ctx, userID, hidden.ID); apperr.CodeOf(err) != apperr.CodeNotFound {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
	links, err := f.service.Links(ctx, userID)
	if err != nil {
		t.Fatalf("Links: %v", err)
	}
	if len(links) != 1 {
		t.Fatalf("expected one link left, got %d", len(links))
	}
	if links[0].ID != shown.ID || links[0].Value != "alice" {
		t.Fatalf("expected twitter handle recovered for editing, got %+v", links[0])
	}

	if _, err := f.service.Public(ctx, "nobody"); apperr.CodeOf(err) != apperr.CodeNotFound {
		t.Fatalf("expected not found for unknown username, got %v", err)
	}
}

func TestBadgesAndPurchase(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := f.register(t, "alice@x.io", "alice")

	free, err := f.store.CreateBadge(ctx, models.Badge{Name: "Early", Icon: "star"})
	if err != nil {
		t.Fatalf("CreateBadge: %v", err)
	}
	premium, err := f.store.CreateBadge(ctx, models.Badge{Name: "Diamond", Icon: "gem", IsPremium: true})
	if err != nil {
		t.Fatalf("CreateBadge: %v", err)
	}
	if _, err := f.store.AssignBadge(ctx, models.UserBadge{UserID: userID, BadgeID: free.ID}); err != nil {
		t.Fatalf("AssignBadge: %v", err)
	}

	catalog, err := f.service.Catalog(ctx)
	if err != nil {
		t.Fatalf("Catalog: %v", err)
	}
	if len(catalog) != 2 || catalog[0].ID != premium.ID {
		t.Fatalf("expected premium badge first: %+v", catalog)
	}

	page, err := f.service.Public(ctx, "alice")
	if err != nil {
		t.Fatalf("Public: %v", err)
	}
	if len(page.Badges) != 0 {
		t.Fatalf("undisplayed badge leaked to public page")
	}
	if err := f.service.SetBadgeDisplayed(ctx, userID, free.ID, true); err != nil {
		t.Fatalf("SetBadgeDisplayed: %v", err)
	}
	page, err = f.service.Public(ctx, "alice")
	if err != nil {
		t.Fatalf("Public: %v", err)
	}
	if len(page.Badges) != 1 || page.Badges[0].Badge == nil || page.Badges[0].Badge.Name != "Early" {
		t.Fatalf("expected displayed badge with catalog entry: %+v", page.Badges)
	}
	if err := f.service.SetBadgeDisplayed(ctx, userID, premium.ID, true); apperr.CodeOf(err) != apperr.CodeNotFound {
		t.Fatalf("expected not found for unowned badge, got %v", err)
	}

	owned, err := f.service.Badges(ctx, userID)
	if err != nil {
		t.Fatalf("Badges: %v", err)
	}
	if len(owned) != 1 {
		t.Fatalf("expected one owned badge, got %d", len(owned))
	}

	if _, err := f.service.RequestPurchase(ctx, userID, PurchaseRequest{BadgeID: &premium.ID}); apperr.CodeOf(err) != apperr.CodeValidation {
		t.Fatalf("expected validation error without discord username, got %v", err)
	}
	amount := 4.99
	logEntry, err := f.service.RequestPurchase(ctx, userID, PurchaseRequest{BadgeID: &premium.ID, DiscordUsername: " alice#1 ", Amount: &amount})
	if err != nil {
		t.Fatalf("RequestPurchase: %v", err)
	}
	if logEntry.Status != models.PaymentPending || logEntry.DiscordUsername != "alice#1" {
		t.Fatalf("unexpected payment log %+v", logEntry)
	}
}
