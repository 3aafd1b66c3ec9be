package apperr

import "net/http"

// Code is a machine-readable error code returned to API clients.
type Code string

const (
	CodeUnknown            Code = "UNKNOWN"
	CodeValidation         Code = "VALIDATION"
	CodeUnauthenticated    Code = "UNAUTHENTICATED"
	CodeForbidden          Code = "FORBIDDEN"
	CodeNotFound           Code = "NOT_FOUND"
	CodeConflict           Code = "CONFLICT"
	CodeInvalidInviteCode  Code = "INVALID_INVITE_CODE"
	CodeInvalidUsername    Code = "INVALID_USERNAME"
	CodeUsernameTaken      Code = "USERNAME_TAKEN"
	CodeIssuerRejected     Code = "ISSUER_REJECTED"
	CodeIssuerUnavailable  Code = "ISSUER_UNAVAILABLE"
	CodeProvisioningFailed Code = "PROVISIONING_FAILED"
	CodeRedemptionRaceLost Code = "REDEMPTION_RACE_LOST"
	CodeRedemptionFailed   Code = "REDEMPTION_FAILED"
)

// HTTPStatus maps a code to the status the HTTP layer responds with.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeValidation, CodeInvalidUsername, CodeInvalidInviteCode, CodeIssuerRejected:
		return http.StatusBadRequest
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeUsernameTaken:
		return http.StatusConflict
	case CodeRedemptionRaceLost, CodeRedemptionFailed:
		// The account exists; only the invite bookkeeping did not complete.
		return http.StatusCreated
	case CodeIssuerUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Retryable reports whether a caller may safely resubmit the same request.
// Everything that fails before an identity exists is retryable.
func (c Code) Retryable() bool {
	switch c {
	case CodeValidation, CodeInvalidUsername, CodeInvalidInviteCode, CodeUsernameTaken, CodeIssuerRejected, CodeIssuerUnavailable:
		return true
	default:
		return false
	}
}
