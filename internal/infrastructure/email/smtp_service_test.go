package email

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestService(send func(addr, from string, to []string, msg []byte) error) *smtpEmailService {
	return &smtpEmailService{
		smtpAddr:  "localhost:1025",
		smtpFrom:  "noreply@realty.dev",
		baseDelay: time.Millisecond,
		send:      send,
	}
}

func TestSendRetriesUntilSuccess(t *testing.T) {
	attempts := 0
	s := newTestService(func(addr, from string, to []string, msg []byte) error {
		attempts++
		if attempts < 3 {
			return errors.New("connection refused")
		}
		return nil
	})

	err := s.SendResetPasswordEmail(context.Background(), ResetPasswordData{
		Email: "user@example.com", Token: "tok", ExpiresIn: "1 hour",
	})
	require.NoError(t, err)
	require.Equal(t, 3, attempts)
}

func TestSendGivesUpAfterThreeAttempts(t *testing.T) {
	attempts := 0
	s := newTestService(func(addr, from string, to []string, msg []byte) error {
		attempts++
		return errors.New("connection refused")
	})

	err := s.SendResetPasswordEmail(context.Background(), ResetPasswordData{Email: "user@example.com"})
	require.Error(t, err)
	require.Equal(t, 3, attempts)
	require.Contains(t, err.Error(), "after 3 attempts")
}

func TestSendRespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newTestService(func(addr, from string, to []string, msg []byte) error {
		cancel()
		return errors.New("connection refused")
	})
	s.baseDelay = time.Minute // would block without cancellation

	err := s.SendResetPasswordEmail(ctx, ResetPasswordData{Email: "user@example.com"})
	require.ErrorIs(t, err, context.Canceled)
}
