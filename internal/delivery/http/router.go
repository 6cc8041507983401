package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"rentalguru/internal/delivery/http/controllers"
	"rentalguru/internal/delivery/http/middleware"
	"rentalguru/internal/domain"
)

// Controllers groups everything the router wires up.
type Controllers struct {
	Auth             *controllers.AuthController
	VendorInvitation *controllers.VendorInvitationController
	TenantInvitation *controllers.TenantInvitationController
	Invitation       *controllers.InvitationController
	Lease            *controllers.LeaseController
	Property         *controllers.PropertyController
	Catalog          *controllers.CatalogController
}

// NewRouter initializes the HTTP router with all application routes.
func NewRouter(c Controllers, verifier domain.TokenVerifier, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	// Auth
	mux.HandleFunc("POST /auth/signup", c.Auth.SignUp)
	mux.HandleFunc("POST /auth/verify-otp", c.Auth.VerifyOTP)
	mux.HandleFunc("POST /auth/login", c.Auth.Login)
	mux.HandleFunc("POST /auth/forgot-password", c.Auth.ForgotPassword)
	mux.HandleFunc("POST /auth/reset-password", c.Auth.ResetPassword)
	mux.HandleFunc("GET /users/me", auth(c.Auth.GetMe))

	// Vendor invitations
	mux.HandleFunc("POST /invite-vendor", auth(c.VendorInvitation.Create))
	mux.HandleFunc("GET /invite-vendor", auth(c.VendorInvitation.List))
	mux.HandleFunc("PATCH /invite-vendor", auth(c.VendorInvitation.SetBlocked))
	mux.HandleFunc("DELETE /invite-vendor/{id}", auth(c.VendorInvitation.Delete))

	// Tenant invitations
	mux.HandleFunc("POST /invite-tenant", auth(c.TenantInvitation.Create))
	mux.HandleFunc("GET /invite-tenant", auth(c.TenantInvitation.List))
	mux.HandleFunc("PUT /invite-tenant", auth(c.TenantInvitation.Countersign))

	// Public invitation endpoints (deep-linked from invite emails)
	mux.HandleFunc("GET /invitation/{id}", c.Invitation.Lookup)
	mux.HandleFunc("PUT /accept-invitation", c.Invitation.Respond)
	mux.HandleFunc("POST /resend-invitation", c.Invitation.Resend)

	// Lease lifecycle
	mux.HandleFunc("PUT /manage-lease", auth(c.Lease.Manage))

	// Properties and units
	mux.HandleFunc("POST /properties", auth(c.Property.Create))
	mux.HandleFunc("GET /properties", auth(c.Property.List))
	mux.HandleFunc("GET /properties/{id}", auth(c.Property.Get))
	mux.HandleFunc("POST /properties/{id}/units", auth(c.Property.CreateUnit))
	mux.HandleFunc("GET /properties/{id}/units", auth(c.Property.ListUnits))

	// Catalogs backing the invite forms
	mux.HandleFunc("GET /vendor-roles", auth(c.Catalog.VendorRoles))
	mux.HandleFunc("GET /tenant-types", auth(c.Catalog.TenantTypes))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
