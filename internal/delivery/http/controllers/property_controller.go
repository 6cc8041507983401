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

// CreatePropertyRequest is the request body for POST /properties.
type CreatePropertyRequest struct {
	Name          string `json:"name"`
	PropertyType  string `json:"property_type"`
	StreetAddress string `json:"street_address"`
	City          string `json:"city"`
	State         string `json:"state"`
	ZipCode       string `json:"zip_code"`
}

// Validate implements Validator.
func (p CreatePropertyRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, "name is required")
	}
	if !domain.PropertyType(p.PropertyType).Valid() {
		errs = append(errs, "unknown property_type")
	}
	if strings.TrimSpace(p.StreetAddress) == "" {
		errs = append(errs, "street_address is required")
	}
	return errs
}

// CreateUnitRequest is the request body for POST /properties/{id}/units.
type CreateUnitRequest struct {
	Number     string `json:"number"`
	Bedrooms   int    `json:"bedrooms"`
	Bathrooms  int    `json:"bathrooms"`
	RentAmount int64  `json:"rent_amount"`
}

// Validate implements Validator.
func (u CreateUnitRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(u.Number) == "" {
		errs = append(errs, "number is required")
	}
	if u.Bedrooms < 0 || u.Bathrooms < 0 {
		errs = append(errs, "bedrooms and bathrooms cannot be negative")
	}
	if u.RentAmount < 0 {
		errs = append(errs, "rent_amount cannot be negative")
	}
	return errs
}

// PropertyController handles the owner's property and unit endpoints.
type PropertyController struct {
	Logger  *slog.Logger
	Service domain.PropertyService
}

// NewPropertyController creates the controller.
func NewPropertyController(logger *slog.Logger, svc domain.PropertyService) *PropertyController {
	return &PropertyController{Logger: logger, Service: svc}
}

// Create godoc
// @Summary Create a property
// @Tags properties
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreatePropertyRequest true "Property fields"
// @Success 201 {object} helpers.APIResponse "data contains the property"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /properties [post]
func (c *PropertyController) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req CreatePropertyRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	property := &domain.Property{
		Name:          req.Name,
		PropertyType:  domain.PropertyType(req.PropertyType),
		StreetAddress: req.StreetAddress,
		City:          req.City,
		State:         req.State,
		ZipCode:       req.ZipCode,
	}
	if err := c.Service.CreateProperty(r.Context(), ownerID, property); err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, "property created", property)
}

// List godoc
// @Summary List properties
// @Description Owner-scoped, paginated, newest first.
// @Tags properties
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} helpers.APIResponse "data contains items and pagination"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /properties [get]
func (c *PropertyController) List(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	page := helpers.ParsePagination(r)
	items, total, err := c.Service.ListProperties(r.Context(), ownerID, page)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, "properties", helpers.PaginatedData{
		Items:      items,
		Pagination: helpers.NewPaginationMeta(page.Page, page.PageSize, total),
	})
}

// Get godoc
// @Summary Get a property
// @Tags properties
// @Produce json
// @Security BearerAuth
// @Param id path int true "Property ID"
// @Success 200 {object} helpers.APIResponse "data contains the property"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /properties/{id} [get]
func (c *PropertyController) Get(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid property id")
		return
	}
	property, err := c.Service.GetProperty(r.Context(), ownerID, id)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, "property", property)
}

// CreateUnit godoc
// @Summary Create a unit
// @Description Adds a unit to an owned property.
// @Tags properties
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Property ID"
// @Param body body CreateUnitRequest true "Unit fields"
// @Success 201 {object} helpers.APIResponse "data contains the unit"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /properties/{id}/units [post]
func (c *PropertyController) CreateUnit(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	propertyID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || propertyID <= 0 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid property id")
		return
	}
	var req CreateUnitRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	unit := &domain.Unit{
		PropertyID: propertyID,
		Number:     req.Number,
		Bedrooms:   req.Bedrooms,
		Bathrooms:  req.Bathrooms,
		RentAmount: req.RentAmount,
	}
	if err := c.Service.CreateUnit(r.Context(), ownerID, unit); err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, "unit created", unit)
}

// ListUnits godoc
// @Summary List units of a property
// @Tags properties
// @Produce json
// @Security BearerAuth
// @Param id path int true "Property ID"
// @Success 200 {object} helpers.APIResponse "data contains the units"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /properties/{id}/units [get]
func (c *PropertyController) ListUnits(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	propertyID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || propertyID <= 0 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid property id")
		return
	}
	units, err := c.Service.ListUnits(r.Context(), ownerID, propertyID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, "units", units)
}
