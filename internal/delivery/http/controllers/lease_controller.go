package controllers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"rentalguru/internal/delivery/http/helpers"
	"rentalguru/internal/delivery/http/middleware"
	"rentalguru/internal/domain"
)

// Lease actions accepted by PUT /manage-lease.
const (
	leaseActionEnd   = "end"
	leaseActionRenew = "renew"
)

// LeaseController handles lease end and renewal on accepted tenant invitations.
type LeaseController struct {
	Logger  *slog.Logger
	Service domain.LeaseService
}

// NewLeaseController creates the controller.
func NewLeaseController(logger *slog.Logger, svc domain.LeaseService) *LeaseController {
	return &LeaseController{Logger: logger, Service: svc}
}

// Manage godoc
// @Summary End or renew a lease
// @Description Multipart form on a sender-owned accepted tenant invitation. action=end blocks the invitation, stamps today's date, and vacates the assignment. action=renew updates the lease terms, resets consent, and appends a new agreement with the uploaded document.
// @Tags leases
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param invitation_id formData int true "Tenant invitation id"
// @Param action formData string true "end or renew"
// @Param lease_start_date formData string false "YYYY-MM-DD (renew)"
// @Param lease_end_date formData string false "YYYY-MM-DD (renew)"
// @Param rent_amount formData int false "Monthly amount in cents (renew)"
// @Param security_deposit formData int false "Deposit in cents (renew, keeps old when absent)"
// @Param lease_agreement formData file false "New lease document (renew)"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /manage-lease [put]
func (c *LeaseController) Manage(w http.ResponseWriter, r *http.Request) {
	senderID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	invitationID, err := strconv.ParseInt(r.FormValue("invitation_id"), 10, 64)
	if err != nil || invitationID <= 0 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invitation_id is required")
		return
	}

	switch r.FormValue("action") {
	case leaseActionEnd:
		if err := c.Service.End(r.Context(), senderID, invitationID); err != nil {
			writeDomainError(c.Logger, w, r, err)
			return
		}
		helpers.WriteJSONSuccess(w, http.StatusOK, "lease ended", nil)

	case leaseActionRenew:
		var renewal domain.LeaseRenewal
		var errs []string
		if t, err := time.Parse(dateLayout, r.FormValue("lease_start_date")); err == nil {
			renewal.LeaseStartDate = t
		} else {
			errs = append(errs, "lease_start_date must be YYYY-MM-DD")
		}
		if t, err := time.Parse(dateLayout, r.FormValue("lease_end_date")); err == nil {
			renewal.LeaseEndDate = t
		} else {
			errs = append(errs, "lease_end_date must be YYYY-MM-DD")
		}
		if v, err := strconv.ParseInt(r.FormValue("rent_amount"), 10, 64); err == nil && v > 0 {
			renewal.LeaseAmount = v
		} else {
			errs = append(errs, "rent_amount must be a positive integer")
		}
		if s := r.FormValue("security_deposit"); s != "" {
			v, err := strconv.ParseInt(s, 10, 64)
			if err != nil || v < 0 {
				errs = append(errs, "security_deposit must be a non-negative integer")
			} else {
				renewal.SecurityDeposit = &v
			}
		}
		var agreement domain.FileUpload
		file, header, err := r.FormFile("lease_agreement")
		if err != nil {
			errs = append(errs, "lease_agreement file is required")
		} else {
			defer file.Close()
			agreement = domain.FileUpload{Filename: header.Filename, Content: file, Size: header.Size}
		}
		if len(errs) > 0 {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, strings.Join(errs, "; "))
			return
		}
		if err := c.Service.Renew(r.Context(), senderID, invitationID, renewal, agreement); err != nil {
			writeDomainError(c.Logger, w, r, err)
			return
		}
		helpers.WriteJSONSuccess(w, http.StatusOK, "lease renewed", nil)

	default:
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "action must be \"end\" or \"renew\"")
	}
}
