package respond

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/hongminglow/void-bio-be/internal/apperr"
)

// Envelope is the standard API response wrapper used across handlers.
type Envelope struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	ErrorCode string `json:"error_code,omitempty"`
	Retryable bool   `json:"retryable,omitempty"`
	Data      any    `json:"data,omitempty"`
}

// JSON writes a success or informational response using the common envelope.
func JSON(w http.ResponseWriter, status int, message string, data any) {
	write(w, status, Envelope{Code: status, Message: message, Data: data})
}

// Err maps err through the apperr taxonomy. Uncoded errors become a 500 with
// a generic message and are logged with their cause.
func Err(w http.ResponseWriter, r *http.Request, err error) {
	code := apperr.CodeOf(err)
	status := code.HTTPStatus()
	if code == apperr.CodeUnknown || status >= http.StatusInternalServerError {
		log.Printf("respond: %s %s: %v", r.Method, r.URL.Path, err)
	}
	write(w, status, Envelope{
		Code:      status,
		Message:   apperr.MessageOf(err),
		ErrorCode: string(code),
		Retryable: code.Retryable(),
	})
}

// Partial writes data together with an error that did not undo the
// operation, such as a lost invite redemption race.
func Partial(w http.ResponseWriter, err error, data any) {
	code := apperr.CodeOf(err)
	status := code.HTTPStatus()
	write(w, status, Envelope{
		Code:      status,
		Message:   apperr.MessageOf(err),
		ErrorCode: string(code),
		Data:      data,
	})
}

func write(w http.ResponseWriter, status int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("respond: encode payload failed: %v", err)
	}
}
