package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/hongminglow/void-bio-be/internal/apperr"
	"github.com/hongminglow/void-bio-be/internal/auth"
	"github.com/hongminglow/void-bio-be/internal/models/dto"
)

const maxBodyBytes = 1 << 20

// Middleware wraps a handler, used to guard routes with authentication.
type Middleware func(http.Handler) http.Handler

var (
	errInvalidJSON = apperr.New(apperr.CodeValidation, "invalid JSON payload")
	errNoSession   = apperr.New(apperr.CodeUnauthenticated, "not signed in")
)

// decodeJSON reads a JSON body into dst and runs its validate tags.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.New(apperr.CodeValidation, "request body is required")
		}
		return apperr.Wrap(apperr.CodeValidation, errInvalidJSON.Message, err)
	}
	return dto.Validate(dst)
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, apperr.Wrap(apperr.CodeValidation, "invalid "+name, err)
	}
	return id, nil
}

func currentSession(r *http.Request) (auth.Session, error) {
	session, ok := auth.SessionFrom(r.Context())
	if !ok {
		return auth.Session{}, errNoSession
	}
	return session, nil
}
