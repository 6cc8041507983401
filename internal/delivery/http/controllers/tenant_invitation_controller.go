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

const (
	maxUploadBytes = 20 << 20 // 20 MiB per lease document
	dateLayout     = "2006-01-02"
)

// TenantInvitationController handles the sender-side tenant invitation endpoints.
type TenantInvitationController struct {
	Logger  *slog.Logger
	Service domain.TenantInvitationService
}

// NewTenantInvitationController creates the controller.
func NewTenantInvitationController(logger *slog.Logger, svc domain.TenantInvitationService) *TenantInvitationController {
	return &TenantInvitationController{Logger: logger, Service: svc}
}

// Create godoc
// @Summary Invite a tenant
// @Description Create a tenant invitation bound to a vacant property or unit, store the lease document, and email a signup link. Multipart form.
// @Tags tenant-invitations
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param first_name formData string true "First name"
// @Param last_name formData string false "Last name"
// @Param email formData string true "Invitee email"
// @Param assignment_type formData string true "property or unit"
// @Param assignment_id formData int true "Property or unit id"
// @Param tenant_type formData string true "Tenant category"
// @Param lease_amount formData int true "Monthly lease amount in cents"
// @Param security_deposit formData int false "Security deposit in cents"
// @Param lease_start_date formData string true "YYYY-MM-DD"
// @Param lease_end_date formData string true "YYYY-MM-DD"
// @Param lease_agreement formData file true "Lease agreement document"
// @Success 201 {object} helpers.APIResponse "data contains the invitation with assignment_name and lease_agreement_url"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invite-tenant [post]
func (c *TenantInvitationController) Create(w http.ResponseWriter, r *http.Request) {
	senderID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	in := domain.TenantInviteInput{
		FirstName: strings.TrimSpace(r.FormValue("first_name")),
		LastName:  strings.TrimSpace(r.FormValue("last_name")),
		Email:     strings.TrimSpace(strings.ToLower(r.FormValue("email"))),
	}

	var errs []string
	if in.FirstName == "" {
		errs = append(errs, "first_name is required")
	}
	if in.Email == "" {
		errs = append(errs, "email is required")
	} else if !emailRegexp.MatchString(in.Email) {
		errs = append(errs, "invalid email format")
	}
	in.Assignment.Type = domain.AssignmentType(r.FormValue("assignment_type"))
	if !in.Assignment.Type.Valid() {
		errs = append(errs, "assignment_type must be \"property\" or \"unit\"")
	}
	if id, err := strconv.ParseInt(r.FormValue("assignment_id"), 10, 64); err == nil && id > 0 {
		in.Assignment.ID = id
	} else {
		errs = append(errs, "assignment_id is required")
	}
	in.TenantType = domain.TenantType(r.FormValue("tenant_type"))
	if !in.TenantType.Valid() {
		errs = append(errs, "unknown tenant_type")
	}
	if v, err := strconv.ParseInt(r.FormValue("lease_amount"), 10, 64); err == nil && v > 0 {
		in.LeaseAmount = v
	} else {
		errs = append(errs, "lease_amount must be a positive integer")
	}
	if s := r.FormValue("security_deposit"); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil || v < 0 {
			errs = append(errs, "security_deposit must be a non-negative integer")
		} else {
			in.SecurityDeposit = &v
		}
	}
	if t, err := time.Parse(dateLayout, r.FormValue("lease_start_date")); err == nil {
		in.LeaseStartDate = t
	} else {
		errs = append(errs, "lease_start_date must be YYYY-MM-DD")
	}
	if t, err := time.Parse(dateLayout, r.FormValue("lease_end_date")); err == nil {
		in.LeaseEndDate = t
	} else {
		errs = append(errs, "lease_end_date must be YYYY-MM-DD")
	}
	if !in.LeaseStartDate.IsZero() && !in.LeaseEndDate.IsZero() && !in.LeaseEndDate.After(in.LeaseStartDate) {
		errs = append(errs, "lease_end_date must be after lease_start_date")
	}

	file, header, err := r.FormFile("lease_agreement")
	if err != nil {
		errs = append(errs, "lease_agreement file is required")
	} else {
		defer file.Close()
		in.LeaseAgreement = domain.FileUpload{Filename: header.Filename, Content: file, Size: header.Size}
	}
	if len(errs) > 0 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, strings.Join(errs, "; "))
		return
	}

	view, err := c.Service.Invite(r.Context(), senderID, in)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, "invitation sent", view)
}

// List godoc
// @Summary List tenant invitations
// @Description Sender-scoped, paginated, newest first. Filters: tenant_type, accepted, blocked, assignment_type, assignment_id; search matches name and email.
// @Tags tenant-invitations
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Param tenant_type query string false "Tenant category filter"
// @Param accepted query bool false "Accepted filter"
// @Param blocked query bool false "Blocked filter"
// @Param assignment_type query string false "property or unit"
// @Param assignment_id query int false "Assignment id filter"
// @Param search query string false "Free-text search"
// @Success 200 {object} helpers.APIResponse "data contains items and pagination"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invite-tenant [get]
func (c *TenantInvitationController) List(w http.ResponseWriter, r *http.Request) {
	senderID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	page := helpers.ParsePagination(r)
	filter := domain.TenantInvitationFilter{Search: strings.TrimSpace(r.URL.Query().Get("search"))}
	if s := r.URL.Query().Get("tenant_type"); s != "" {
		tt := domain.TenantType(s)
		if !tt.Valid() {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "unknown tenant_type")
			return
		}
		filter.TenantType = &tt
	}
	if s := r.URL.Query().Get("assignment_type"); s != "" {
		at := domain.AssignmentType(s)
		if !at.Valid() {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "assignment_type must be \"property\" or \"unit\"")
			return
		}
		filter.AssignmentType = &at
	}
	if s := r.URL.Query().Get("assignment_id"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil || id <= 0 {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid assignment_id")
			return
		}
		filter.AssignmentID = &id
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
	helpers.WriteJSONSuccess(w, http.StatusOK, "tenant invitations", helpers.PaginatedData{
		Items:      items,
		Pagination: helpers.NewPaginationMeta(page.Page, page.PageSize, total),
	})
}

// Countersign godoc
// @Summary Countersign a lease
// @Description Attach the signed lease document to the most recent agreement and record consent. Multipart form.
// @Tags tenant-invitations
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param invitation_id formData int true "Tenant invitation id"
// @Param agreed formData bool true "Consent flag"
// @Param signed_agreement formData file true "Signed lease document"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invite-tenant [put]
func (c *TenantInvitationController) Countersign(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UserIDFromContext(r.Context()); !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	var in domain.CountersignInput
	var errs []string
	if id, err := strconv.ParseInt(r.FormValue("invitation_id"), 10, 64); err == nil && id > 0 {
		in.InvitationID = id
	} else {
		errs = append(errs, "invitation_id is required")
	}
	if agreed, err := strconv.ParseBool(r.FormValue("agreed")); err == nil {
		in.Agreed = agreed
	} else {
		errs = append(errs, "agreed must be true or false")
	}
	file, header, err := r.FormFile("signed_agreement")
	if err != nil {
		errs = append(errs, "signed_agreement file is required")
	} else {
		defer file.Close()
		in.SignedAgreement = domain.FileUpload{Filename: header.Filename, Content: file, Size: header.Size}
	}
	if len(errs) > 0 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, strings.Join(errs, "; "))
		return
	}

	if err := c.Service.Countersign(r.Context(), in); err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, "lease countersigned", nil)
}
