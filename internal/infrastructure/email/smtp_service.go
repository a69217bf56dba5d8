package email

import (
	"context"
	"fmt"
	"net/smtp"
	"time"

	"realty-backend/internal/config"
	"realty-backend/pkg/logger"
)

type ResetPasswordData struct {
	Email     string
	Token     string
	ExpiresIn string
}

type EmailService interface {
	SendResetPasswordEmail(ctx context.Context, data ResetPasswordData) error
}

// smtpEmailService sends through a plain SMTP relay. Sends are retried
// up to 3 attempts with exponential backoff (1s, 2s, 4s). This is the
// only flow in the system that retries; storage operations fail fast.
type smtpEmailService struct {
	smtpAddr  string
	smtpFrom  string
	baseDelay time.Duration

	// swapped out in tests
	send func(addr, from string, to []string, msg []byte) error
}

func NewSMTPEmailService(cfg config.SMTPConfig) EmailService {
	return &smtpEmailService{
		smtpAddr:  cfg.Host + ":" + cfg.Port,
		smtpFrom:  cfg.From,
		baseDelay: time.Second,
		send: func(addr, from string, to []string, msg []byte) error {
			return smtp.SendMail(addr, nil, from, to, msg)
		},
	}
}

func (s *smtpEmailService) SendResetPasswordEmail(ctx context.Context, data ResetPasswordData) error {
	subject := "Reset your Realty account password"
	body := fmt.Sprintf(`Hello,

Use the following token to reset your password:
%s

The token is valid for %s.

If you did not request a reset, ignore this email.`, data.Token, data.ExpiresIn)

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		s.smtpFrom, data.Email, subject, body))

	return s.sendWithRetry(ctx, data.Email, msg)
}

func (s *smtpEmailService) sendWithRetry(ctx context.Context, to string, msg []byte) error {
	const maxAttempts = 3
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		lastErr = s.send(s.smtpAddr, s.smtpFrom, []string{to}, msg)
		if lastErr == nil {
			return nil
		}

		logger.Warn("email send failed", map[string]interface{}{
			"to":      to,
			"attempt": attempt,
			"error":   lastErr.Error(),
		})

		if attempt < maxAttempts {
			delay := s.baseDelay * time.Duration(1<<uint(attempt-1))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return fmt.Errorf("email send cancelled: %w", ctx.Err())
			}
		}
	}

	return fmt.Errorf("failed to send email after %d attempts: %w", maxAttempts, lastErr)
}
