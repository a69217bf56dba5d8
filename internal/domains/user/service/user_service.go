package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"realty-backend/internal/domains/user/model"
	"realty-backend/internal/domains/user/repository"
	"realty-backend/internal/infrastructure/email"
	"realty-backend/pkg/jwt"
	"realty-backend/pkg/logger"
)

const resetTokenTTL = time.Hour

type UserService interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, req model.LoginRequest) (*model.LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (*model.TokenPair, error)
	ForgotPassword(ctx context.Context, emailAddr string) error
	ResetPassword(ctx context.Context, token, password string) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	ListUsers(ctx context.Context, page, limit int) ([]*model.User, int, error)
	AdminCreateUser(ctx context.Context, req model.AdminCreateUserRequest) (*model.User, error)
	AdminUpdateUser(ctx context.Context, id uuid.UUID, req model.AdminUpdateUserRequest) (*model.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

type userService struct {
	repo  repository.UserRepository
	jwt   *jwt.Manager
	email email.EmailService
}

func NewUserService(repo repository.UserRepository, jwtManager *jwt.Manager, emailSvc email.EmailService) UserService {
	return &userService{repo: repo, jwt: jwtManager, email: emailSvc}
}

func (s *userService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &model.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Phone:        req.Phone,
		Role:         model.RoleUser,
		Status:       model.StatusActive,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *userService) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResult, error) {
	u, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		// Same answer for unknown email and wrong password.
		return nil, model.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}
	if u.Status == model.StatusSuspended {
		return nil, model.ErrAccountSuspended
	}

	tokens, err := s.issueTokens(u)
	if err != nil {
		return nil, err
	}

	if err := s.repo.TouchLastLogin(ctx, u.ID); err != nil {
		logger.Error("last login update failed", err)
	}

	return &model.LoginResult{User: u, Tokens: *tokens}, nil
}

func (s *userService) Refresh(ctx context.Context, refreshToken string) (*model.TokenPair, error) {
	claims, err := s.jwt.ValidateToken(refreshToken)
	if err != nil || claims.Type != "refresh" {
		return nil, model.ErrInvalidCredentials
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, model.ErrInvalidCredentials
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, model.ErrInvalidCredentials
	}
	if u.Status == model.StatusSuspended {
		return nil, model.ErrAccountSuspended
	}

	return s.issueTokens(u)
}

// ForgotPassword always reports success to the caller; whether the
// address exists is not disclosed. The raw token goes out by email,
// only its hash is stored.
func (s *userService) ForgotPassword(ctx context.Context, emailAddr string) error {
	u, err := s.repo.GetByEmail(ctx, emailAddr)
	if err != nil {
		return nil
	}

	token := randomToken()
	if err := s.repo.SaveResetToken(ctx, u.ID, hashToken(token), time.Now().Add(resetTokenTTL)); err != nil {
		return err
	}

	return s.email.SendResetPasswordEmail(ctx, email.ResetPasswordData{
		Email:     u.Email,
		Token:     token,
		ExpiresIn: "1 hour",
	})
}

func (s *userService) ResetPassword(ctx context.Context, token, password string) error {
	userID, err := s.repo.ConsumeResetToken(ctx, hashToken(token))
	if err != nil {
		return err
	}

	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	u.PasswordHash = string(hash)
	return s.repo.Update(ctx, u)
}

func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *userService) ListUsers(ctx context.Context, page, limit int) ([]*model.User, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.repo.List(ctx, page, limit)
}

func (s *userService) AdminCreateUser(ctx context.Context, req model.AdminCreateUserRequest) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &model.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Phone:        req.Phone,
		Role:         req.Role,
		Status:       model.StatusActive,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *userService) AdminUpdateUser(ctx context.Context, id uuid.UUID, req model.AdminUpdateUserRequest) (*model.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Role != nil {
		u.Role = *req.Role
	}
	if req.Status != nil {
		u.Status = *req.Status
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *userService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *userService) issueTokens(u *model.User) (*model.TokenPair, error) {
	access, err := s.jwt.GenerateAccessToken(u.ID.String(), u.Email, u.Role)
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwt.GenerateRefreshToken(u.ID.String())
	if err != nil {
		return nil, err
	}
	return &model.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func randomToken() string {
	b := make([]byte, 32)
	rand.Read(b)
	return hex.EncodeToString(b)
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
