package controllers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"rentalguru/internal/delivery/http/helpers"
	"rentalguru/internal/delivery/http/middleware"
	"rentalguru/internal/domain"
)

// InviteVendorRequest is the request body for POST /invite-vendor.
type InviteVendorRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

// Validate implements Validator.
func (v InviteVendorRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(v.FirstName) == "" {
		errs = append(errs, "first_name is required")
	}
	email := strings.TrimSpace(strings.ToLower(v.Email))
	if email == "" {
		errs = append(errs, "email is required")
	} else if !emailRegexp.MatchString(email) {
		errs = append(errs, "invalid email format")
	}
	if !domain.VendorRole(v.Role).Valid() {
		errs = append(errs, "unknown vendor role")
	}
	return errs
}

// BlockVendorRequest is the request body for PATCH /invite-vendor.
type BlockVendorRequest struct {
	InvitationID int64 `json:"invitation_id"`
	Blocked      *bool `json:"blocked"`
}

// Validate implements Validator.
func (b BlockVendorRequest) Validate() []string {
	var errs []string
	if b.InvitationID <= 0 {
		errs = append(errs, "invitation_id is required")
	}
	if b.Blocked == nil {
		errs = append(errs, "blocked is required")
	}
	return errs
}

// DeletedVendorInvitation is the response payload for DELETE /invite-vendor/{id}.
type DeletedVendorInvitation struct {
	InvitationID int64  `json:"invitation_id"`
	Email        string `json:"email"`
	Deleted      bool   `json:"deleted"`
}

// VendorInvitationController handles the sender-side vendor invitation endpoints.
type VendorInvitationController struct {
	Logger  *slog.Logger
	Service domain.VendorInvitationService
}

// NewVendorInvitationController creates the controller.
func NewVendorInvitationController(logger *slog.Logger, svc domain.VendorInvitationService) *VendorInvitationController {
	return &VendorInvitationController{Logger: logger, Service: svc}
}

// Create godoc
// @Summary Invite a vendor
// @Description Create a vendor invitation and email a signup link. An expired unaccepted invitation for the same email and role is replaced.
// @Tags vendor-invitations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body InviteVendorRequest true "Invitation fields"
// @Success 201 {object} helpers.APIResponse "data contains the invitation"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invite-vendor [post]
func (c *VendorInvitationController) Create(w http.ResponseWriter, r *http.Request) {
	senderID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req InviteVendorRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	inv, err := c.Service.Invite(r.Context(), senderID, domain.VendorInviteInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Role:      domain.VendorRole(req.Role),
	})
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, "invitation sent", inv)
}

// List godoc
// @Summary List vendor invitations
// @Description Sender-scoped, paginated, newest first. Filters: role, accepted, blocked; search matches name, email, and role.
// @Tags vendor-invitations
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Param role query string false "Vendor role filter"
// @Param accepted query bool false "Accepted filter"
// @Param blocked query bool false "Blocked filter"
// @Param search query string false "Free-text search"
// @Success 200 {object} helpers.APIResponse "data contains items and pagination"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invite-vendor [get]
func (c *VendorInvitationController) List(w http.ResponseWriter, r *http.Request) {
	senderID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	page := helpers.ParsePagination(r)
	filter := domain.VendorInvitationFilter{Search: strings.TrimSpace(r.URL.Query().Get("search"))}
	if s := r.URL.Query().Get("role"); s != "" {
		role := domain.VendorRole(s)
		if !role.Valid() {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "unknown vendor role")
			return
		}
		filter.Role = &role
	}
	var ok2 bool
	if filter.Accepted, ok2 = parseBoolParam(r, "accepted"); !ok2 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "accepted must be true or false")
		return
	}
	if filter.Blocked, ok2 = parseBoolParam(r, "blocked"); !ok2 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "blocked must be true or false")
		return
	}

	items, total, err := c.Service.List(r.Context(), senderID, filter, page)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, "vendor invitations", helpers.PaginatedData{
		Items:      items,
		Pagination: helpers.NewPaginationMeta(page.Page, page.PageSize, total),
	})
}

// Delete godoc
// @Summary Delete a vendor invitation
// @Description Sender-scoped. When the invitee has since registered, their account is removed too.
// @Tags vendor-invitations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Invitation ID"
// @Success 200 {object} helpers.APIResponse "data contains invitation_id, email, deleted"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invite-vendor/{id} [delete]
func (c *VendorInvitationController) Delete(w http.ResponseWriter, r *http.Request) {
	senderID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid invitation id")
		return
	}
	email, err := c.Service.Delete(r.Context(), senderID, id)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, "invitation deleted", DeletedVendorInvitation{
		InvitationID: id,
		Email:        email,
		Deleted:      true,
	})
}

// SetBlocked godoc
// @Summary Block or unblock a vendor invitation
// @Description Sender-scoped. Syncs the ban flag on the invitee's account when one exists. Blocking does not touch occupancy.
// @Tags vendor-invitations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body BlockVendorRequest true "Invitation id and blocked flag"
// @Success 200 {object} helpers.APIResponse "data contains the invitation"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invite-vendor [patch]
func (c *VendorInvitationController) SetBlocked(w http.ResponseWriter, r *http.Request) {
	senderID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req BlockVendorRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	inv, err := c.Service.SetBlocked(r.Context(), senderID, req.InvitationID, *req.Blocked)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	msg := "invitation unblocked"
	if inv.Blocked {
		msg = "invitation blocked"
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, msg, inv)
}

// parseBoolParam reads an optional bool query parameter. The second return is
// false when the value is present but not parseable.
func parseBoolParam(r *http.Request, name string) (*bool, bool) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, true
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return nil, false
	}
	return &v, true
}
