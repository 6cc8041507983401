package controllers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"rentalguru/internal/delivery/http/helpers"
	"rentalguru/internal/domain"
)

// RespondInvitationRequest is the request body for PUT /accept-invitation.
// Exactly one of vendor/tenant must be true.
type RespondInvitationRequest struct {
	InvitationID int64 `json:"invitation_id"`
	Accept       *bool `json:"accept"`
	Vendor       bool  `json:"vendor"`
	Tenant       bool  `json:"tenant"`
}

// Validate implements Validator.
func (q RespondInvitationRequest) Validate() []string {
	var errs []string
	if q.InvitationID <= 0 {
		errs = append(errs, "invitation_id is required")
	}
	if q.Accept == nil {
		errs = append(errs, "accept is required")
	}
	if q.Vendor == q.Tenant {
		errs = append(errs, "exactly one of vendor or tenant must be true")
	}
	return errs
}

// ResendInvitationRequest is the request body for POST /resend-invitation.
type ResendInvitationRequest struct {
	InvitationID int64  `json:"invitation_id"`
	Role         string `json:"role"`
}

// Validate implements Validator.
func (q ResendInvitationRequest) Validate() []string {
	var errs []string
	if q.InvitationID <= 0 {
		errs = append(errs, "invitation_id is required")
	}
	role := strings.TrimSpace(strings.ToLower(q.Role))
	if role != domain.RoleVendor && role != domain.RoleTenant {
		errs = append(errs, "role must be \"vendor\" or \"tenant\"")
	}
	return errs
}

// InvitationController handles the public (pre-account) invitation endpoints.
type InvitationController struct {
	Logger  *slog.Logger
	Service domain.InvitationService
}

// NewInvitationController creates the controller.
func NewInvitationController(logger *slog.Logger, svc domain.InvitationService) *InvitationController {
	return &InvitationController{Logger: logger, Service: svc}
}

// Lookup godoc
// @Summary Look up an invitation
// @Description Public lookup used by the signup deep link. Requires ?vendor=true or ?tenant=true.
// @Tags invitations
// @Produce json
// @Param id path int true "Invitation ID"
// @Param vendor query bool false "Look up a vendor invitation"
// @Param tenant query bool false "Look up a tenant invitation"
// @Success 200 {object} helpers.APIResponse "data contains the invitation details"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invitation/{id} [get]
func (c *InvitationController) Lookup(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid invitation id")
		return
	}
	vendor := r.URL.Query().Get("vendor") == "true"
	tenant := r.URL.Query().Get("tenant") == "true"
	if !vendor && !tenant {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "vendor=true or tenant=true is required")
		return
	}
	details, err := c.Service.Details(r.Context(), id, vendor, tenant)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, "invitation", details)
}

// Respond godoc
// @Summary Accept or reject an invitation
// @Description Public endpoint. Accepting a tenant invitation marks its property or unit occupied.
// @Tags invitations
// @Accept json
// @Produce json
// @Param body body RespondInvitationRequest true "Invitation id, accept flag, and type flag"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /accept-invitation [put]
func (c *InvitationController) Respond(w http.ResponseWriter, r *http.Request) {
	var req RespondInvitationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.Respond(r.Context(), req.InvitationID, *req.Accept, req.Vendor, req.Tenant); err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	msg := "invitation rejected"
	if *req.Accept {
		msg = "invitation accepted"
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, msg, nil)
}

// Resend godoc
// @Summary Resend an invitation
// @Description Re-sends the invite email and pushes the expiry out. Works on expired invitations.
// @Tags invitations
// @Accept json
// @Produce json
// @Param body body ResendInvitationRequest true "Invitation id and role"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /resend-invitation [post]
func (c *InvitationController) Resend(w http.ResponseWriter, r *http.Request) {
	var req ResendInvitationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	role := strings.TrimSpace(strings.ToLower(req.Role))
	if err := c.Service.Resend(r.Context(), req.InvitationID, role); err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, "invitation resent", nil)
}
