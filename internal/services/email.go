package services

import (
	"context"
	"fmt"
	"log/slog"

	"rentalguru/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer, logger: logger}
}

// SendVendorInvite sends the vendor invitation email using the "vendor_invite" template.
func (s *emailService) SendVendorInvite(ctx context.Context, data *domain.VendorInviteEmailData) error {
	if data == nil {
		return fmt.Errorf("vendor invite data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("vendor_invite", data)
	if err != nil {
		return fmt.Errorf("failed to render vendor_invite template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send vendor invite email: %w", err)
	}
	s.logger.Info("vendor invite sent", "to", data.Email)
	return nil
}

// SendTenantInvite sends the tenant invitation email using the "tenant_invite" template.
func (s *emailService) SendTenantInvite(ctx context.Context, data *domain.TenantInviteEmailData) error {
	if data == nil {
		return fmt.Errorf("tenant invite data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("tenant_invite", data)
	if err != nil {
		return fmt.Errorf("failed to render tenant_invite template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send tenant invite email: %w", err)
	}
	s.logger.Info("tenant invite sent", "to", data.Email)
	return nil
}

// SendSignupOTP sends the signup verification code email using the "signup_otp" template.
func (s *emailService) SendSignupOTP(ctx context.Context, data *domain.SignupOTPEmailData) error {
	if data == nil {
		return fmt.Errorf("signup OTP data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("signup_otp", data)
	if err != nil {
		return fmt.Errorf("failed to render signup_otp template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send signup OTP email: %w", err)
	}
	s.logger.Info("signup code sent", "to", data.Email)
	return nil
}

// SendPasswordReset sends the password reset code email using the "password_reset" template.
func (s *emailService) SendPasswordReset(ctx context.Context, data *domain.PasswordResetEmailData) error {
	if data == nil {
		return fmt.Errorf("password reset data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("password_reset", data)
	if err != nil {
		return fmt.Errorf("failed to render password_reset template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}
	s.logger.Info("password reset code sent", "to", data.Email)
	return nil
}
