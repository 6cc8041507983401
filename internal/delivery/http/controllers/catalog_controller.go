package controllers

import (
	"net/http"

	"rentalguru/internal/delivery/http/helpers"
	"rentalguru/internal/domain"
)

// CatalogController serves the vendor role and tenant type catalogs that
// invite forms are built from.
type CatalogController struct{}

// NewCatalogController creates the controller.
func NewCatalogController() *CatalogController {
	return &CatalogController{}
}

// VendorRoles godoc
// @Summary List vendor roles
// @Description Every service category a vendor can be invited for, as value/label pairs.
// @Tags catalogs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the options"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /vendor-roles [get]
func (c *CatalogController) VendorRoles(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSONSuccess(w, http.StatusOK, "vendor roles", domain.VendorRoleOptions())
}

// TenantTypes godoc
// @Summary List tenant types
// @Description Every tenant category an invitation can carry, as value/label pairs.
// @Tags catalogs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the options"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /tenant-types [get]
func (c *CatalogController) TenantTypes(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSONSuccess(w, http.StatusOK, "tenant types", domain.TenantTypeOptions())
}
