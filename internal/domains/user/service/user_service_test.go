package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"realty-backend/internal/domains/user/model"
	"realty-backend/internal/infrastructure/email"
	"realty-backend/pkg/jwt"
)

type memUserRepo struct {
	mu     sync.Mutex
	users  map[uuid.UUID]*model.User
	emails map[string]uuid.UUID
	resets map[string]resetEntry
}

type resetEntry struct {
	userID    uuid.UUID
	expiresAt time.Time
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{
		users:  map[uuid.UUID]*model.User{},
		emails: map[string]uuid.UUID{},
		resets: map[string]resetEntry{},
	}
}

func (r *memUserRepo) Create(ctx context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(u.Email)
	if _, taken := r.emails[key]; taken {
		return model.ErrEmailTaken
	}
	u.ID = uuid.New()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	r.users[u.ID] = u
	r.emails[key] = u.ID
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, emailAddr string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.emails[strings.ToLower(emailAddr)]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	cp := *r.users[id]
	return &cp, nil
}

func (r *memUserRepo) List(ctx context.Context, page, limit int) ([]*model.User, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*model.User
	for _, u := range r.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (r *memUserRepo) Update(ctx context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[u.ID]; !ok {
		return model.ErrUserNotFound
	}
	r.users[u.ID] = u
	return nil
}

func (r *memUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return model.ErrUserNotFound
	}
	delete(r.emails, strings.ToLower(u.Email))
	delete(r.users, id)
	return nil
}

func (r *memUserRepo) TouchLastLogin(ctx context.Context, id uuid.UUID) error { return nil }

func (r *memUserRepo) SaveResetToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resets[tokenHash] = resetEntry{userID: userID, expiresAt: expiresAt}
	return nil
}

func (r *memUserRepo) ConsumeResetToken(ctx context.Context, tokenHash string) (uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.resets[tokenHash]
	if !ok || time.Now().After(entry.expiresAt) {
		return uuid.Nil, model.ErrInvalidResetToken
	}
	delete(r.resets, tokenHash)
	return entry.userID, nil
}

// captureEmail records outgoing reset emails instead of sending them.
type captureEmail struct {
	sent []email.ResetPasswordData
}

func (c *captureEmail) SendResetPasswordEmail(ctx context.Context, data email.ResetPasswordData) error {
	c.sent = append(c.sent, data)
	return nil
}

func newUserTestService() (UserService, *memUserRepo, *captureEmail) {
	repo := newMemUserRepo()
	mail := &captureEmail{}
	svc := NewUserService(repo, jwt.NewManager("test-secret", 15, 168), mail)
	return svc, repo, mail
}

func register(t *testing.T, svc UserService, emailAddr string) *model.User {
	t.Helper()

	u, err := svc.Register(context.Background(), model.RegisterRequest{
		Email:    emailAddr,
		Password: "correct-horse",
		FullName: "Test User",
	})
	require.NoError(t, err)
	return u
}

func TestRegisterHashesPassword(t *testing.T) {
	svc, repo, _ := newUserTestService()

	u := register(t, svc, "agent@example.com")
	require.Equal(t, model.RoleUser, u.Role)
	require.Equal(t, model.StatusActive, u.Status)

	stored, err := repo.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	require.NotEqual(t, "correct-horse", stored.PasswordHash)
	require.True(t, strings.HasPrefix(stored.PasswordHash, "$2"))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newUserTestService()
	register(t, svc, "agent@example.com")

	_, err := svc.Register(context.Background(), model.RegisterRequest{
		Email:    "agent@example.com",
		Password: "another-pass",
		FullName: "Other",
	})
	require.ErrorIs(t, err, model.ErrEmailTaken)
}

func TestLoginIssuesTokenPair(t *testing.T) {
	svc, _, _ := newUserTestService()
	register(t, svc, "agent@example.com")

	result, err := svc.Login(context.Background(), model.LoginRequest{
		Email:    "agent@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Tokens.AccessToken)
	require.NotEmpty(t, result.Tokens.RefreshToken)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newUserTestService()
	register(t, svc, "agent@example.com")

	_, err := svc.Login(context.Background(), model.LoginRequest{
		Email:    "agent@example.com",
		Password: "wrong",
	})
	require.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestLoginUnknownEmailSameError(t *testing.T) {
	svc, _, _ := newUserTestService()

	_, err := svc.Login(context.Background(), model.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	require.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestLoginSuspendedAccount(t *testing.T) {
	svc, _, _ := newUserTestService()
	u := register(t, svc, "agent@example.com")

	status := model.StatusSuspended
	_, err := svc.AdminUpdateUser(context.Background(), u.ID, model.AdminUpdateUserRequest{Status: &status})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), model.LoginRequest{
		Email:    "agent@example.com",
		Password: "correct-horse",
	})
	require.ErrorIs(t, err, model.ErrAccountSuspended)
}

func TestRefreshRotatesTokens(t *testing.T) {
	svc, _, _ := newUserTestService()
	register(t, svc, "agent@example.com")

	result, err := svc.Login(context.Background(), model.LoginRequest{
		Email:    "agent@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	tokens, err := svc.Refresh(context.Background(), result.Tokens.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, tokens.AccessToken)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc, _, _ := newUserTestService()
	register(t, svc, "agent@example.com")

	result, err := svc.Login(context.Background(), model.LoginRequest{
		Email:    "agent@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), result.Tokens.AccessToken)
	require.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestForgotResetPasswordRoundTrip(t *testing.T) {
	svc, _, mail := newUserTestService()
	register(t, svc, "agent@example.com")

	require.NoError(t, svc.ForgotPassword(context.Background(), "agent@example.com"))
	require.Len(t, mail.sent, 1)
	token := mail.sent[0].Token
	require.NotEmpty(t, token)

	require.NoError(t, svc.ResetPassword(context.Background(), token, "new-password-1"))

	// Old password no longer works, new one does, token is spent.
	_, err := svc.Login(context.Background(), model.LoginRequest{
		Email:    "agent@example.com",
		Password: "correct-horse",
	})
	require.ErrorIs(t, err, model.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), model.LoginRequest{
		Email:    "agent@example.com",
		Password: "new-password-1",
	})
	require.NoError(t, err)

	require.ErrorIs(t,
		svc.ResetPassword(context.Background(), token, "another-pass"),
		model.ErrInvalidResetToken)
}

func TestForgotPasswordUnknownEmailSilent(t *testing.T) {
	svc, _, mail := newUserTestService()

	require.NoError(t, svc.ForgotPassword(context.Background(), "nobody@example.com"))
	require.Empty(t, mail.sent)
}

func TestAdminCreateUserKeepsRequestedRole(t *testing.T) {
	svc, _, _ := newUserTestService()

	u, err := svc.AdminCreateUser(context.Background(), model.AdminCreateUserRequest{
		Email:    "editor@example.com",
		Password: "editor-pass-1",
		FullName: "Editor Person",
		Role:     model.RoleEditor,
	})
	require.NoError(t, err)
	require.Equal(t, model.RoleEditor, u.Role)
	require.Equal(t, model.StatusActive, u.Status)

	_, err = svc.Login(context.Background(), model.LoginRequest{
		Email:    "editor@example.com",
		Password: "editor-pass-1",
	})
	require.NoError(t, err)
}
