package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"rentalguru/internal/delivery/http/helpers"
	"rentalguru/internal/domain"
)

// writeDomainError maps domain sentinel errors onto HTTP statuses and writes
// the envelope. Unknown errors are logged and become 500s.
func writeDomainError(logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvitationNotFound),
		errors.Is(err, domain.ErrPropertyNotFound),
		errors.Is(err, domain.ErrUnitNotFound),
		errors.Is(err, domain.ErrAgreementNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, err.Error())

	case errors.Is(err, domain.ErrInvitationExpired),
		errors.Is(err, domain.ErrInvitationAccepted),
		errors.Is(err, domain.ErrInvitationAlreadySent),
		errors.Is(err, domain.ErrVendorExists),
		errors.Is(err, domain.ErrTenantExists),
		errors.Is(err, domain.ErrResourceOccupied),
		errors.Is(err, domain.ErrLeaseNotActive),
		errors.Is(err, domain.ErrLeaseAlreadyEnded),
		errors.Is(err, domain.ErrEmailMismatch),
		errors.Is(err, domain.ErrDuplicateEmail),
		errors.Is(err, domain.ErrInvalidOTP):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())

	case errors.Is(err, domain.ErrInvalidCredentials):
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "invalid credentials")

	case errors.Is(err, domain.ErrUserBanned),
		errors.Is(err, domain.ErrEmailNotVerified):
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, err.Error())

	default:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, internalMessage(err))
	}
}

// internalMessage keeps the outermost "failed to <action>" description and
// drops the wrapped cause so driver detail never reaches the client.
func internalMessage(err error) string {
	msg := err.Error()
	if !strings.HasPrefix(msg, "failed to ") {
		return "internal server error"
	}
	if i := strings.Index(msg, ": "); i >= 0 {
		msg = msg[:i]
	}
	return msg
}
