package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/hongminglow/void-bio-be/internal/apperr"
	"github.com/hongminglow/void-bio-be/internal/models"
	"github.com/hongminglow/void-bio-be/internal/storage"
)

// ErrInvalidCredentials is returned by SignIn for any email/password mismatch.
var ErrInvalidCredentials = apperr.New(apperr.CodeUnauthenticated, "invalid credentials")

// ErrInvalidSession is returned for missing, malformed, expired, or revoked tokens.
var ErrInvalidSession = apperr.New(apperr.CodeUnauthenticated, "invalid or expired session")

// IssuedToken is a signed token together with the session it encodes.
type IssuedToken struct {
	Token   string  `json:"token"`
	Session Session `json:"session"`
}

// Issuer owns credential identities and session lifecycle.
type Issuer struct {
	store          storage.IdentityStore
	tokens         *TokenManager
	validate       *validator.Validate
	minPasswordLen int
	bcryptCost     int
}

// IssuerOptions tunes password policy and hashing.
type IssuerOptions struct {
	MinPasswordLength int
	BcryptCost        int
}

// NewIssuer constructs an Issuer.
func NewIssuer(store storage.IdentityStore, tokens *TokenManager, opts IssuerOptions) *Issuer {
	if opts.MinPasswordLength <= 0 {
		opts.MinPasswordLength = 6
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	return &Issuer{
		store:          store,
		tokens:         tokens,
		validate:       validator.New(validator.WithRequiredStructEnabled()),
		minPasswordLen: opts.MinPasswordLength,
		bcryptCost:     opts.BcryptCost,
	}
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateIdentity registers a new credential identity. Policy failures are
// returned as CodeIssuerRejected errors whose message is the reason.
func (i *Issuer) CreateIdentity(ctx context.Context, email, password string) (models.Identity, error) {
	email = NormalizeEmail(email)
	if err := i.validate.Var(email, "required,email"); err != nil {
		return models.Identity{}, apperr.New(apperr.CodeIssuerRejected, "invalid email address")
	}
	if len(password) < i.minPasswordLen {
		return models.Identity{}, apperr.New(apperr.CodeIssuerRejected, fmt.Sprintf("password must be at least %d characters", i.minPasswordLen))
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), i.bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return models.Identity{}, apperr.New(apperr.CodeIssuerRejected, "password is too long")
		}
		return models.Identity{}, fmt.Errorf("hash password: %w", err)
	}
	created, err := i.store.CreateIdentity(ctx, models.Identity{Email: email, PasswordHash: string(hash)})
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return models.Identity{}, apperr.New(apperr.CodeIssuerRejected, "email already registered")
		}
		return models.Identity{}, fmt.Errorf("create identity: %w", err)
	}
	return created, nil
}

// DeleteIdentity removes an identity and everything it owns.
func (i *Issuer) DeleteIdentity(ctx context.Context, id uuid.UUID) error {
	if err := i.store.DeleteIdentity(ctx, id); err != nil {
		return fmt.Errorf("delete identity %s: %w", id, err)
	}
	return nil
}

// Issue signs a token for an identity without checking a password. Used
// right after registration.
func (i *Issuer) Issue(identity models.Identity) (IssuedToken, error) {
	token, session, err := i.tokens.Generate(identity)
	if err != nil {
		return IssuedToken{}, err
	}
	return IssuedToken{Token: token, Session: session}, nil
}

// SignIn verifies credentials and issues a token.
func (i *Issuer) SignIn(ctx context.Context, email, password string) (IssuedToken, error) {
	identity, err := i.store.FindIdentityByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return IssuedToken{}, ErrInvalidCredentials
		}
		return IssuedToken{}, fmt.Errorf("find identity: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(password)); err != nil {
		return IssuedToken{}, ErrInvalidCredentials
	}
	return i.Issue(identity)
}

// SignOut revokes the session's token.
func (i *Issuer) SignOut(ctx context.Context, session Session) error {
	if err := i.store.RevokeToken(ctx, session.TokenID, session.ExpiresAt); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// Session resolves a bearer token into a live session.
func (i *Issuer) Session(ctx context.Context, token string) (Session, error) {
	session, err := i.tokens.Parse(token)
	if err != nil {
		return Session{}, apperr.Wrap(apperr.CodeUnauthenticated, ErrInvalidSession.Message, err)
	}
	revoked, err := i.store.IsTokenRevoked(ctx, session.TokenID)
	if err != nil {
		return Session{}, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return Session{}, ErrInvalidSession
	}
	return session, nil
}
