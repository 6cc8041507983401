package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// VendorInviteEmailData holds data for the vendor invitation email.
type VendorInviteEmailData struct {
	Email     string
	FirstName string
	LastName  string
	Role      string
	SetupLink string
}

// TenantInviteEmailData holds data for the tenant invitation email.
type TenantInviteEmailData struct {
	Email     string
	FirstName string
	OwnerName string
	SetupLink string
}

// SignupOTPEmailData holds data for the signup verification code email.
type SignupOTPEmailData struct {
	Email            string
	FirstName        string
	Code             string
	ExpiresInMinutes int
}

// PasswordResetEmailData holds data for the password reset code email.
type PasswordResetEmailData struct {
	Email            string
	FirstName        string
	Code             string
	ExpiresInMinutes int
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendVendorInvite(ctx context.Context, data *VendorInviteEmailData) error
	SendTenantInvite(ctx context.Context, data *TenantInviteEmailData) error
	SendSignupOTP(ctx context.Context, data *SignupOTPEmailData) error
	SendPasswordReset(ctx context.Context, data *PasswordResetEmailData) error
}
