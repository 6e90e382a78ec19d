package userapp

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/eunmi228/PostApp/internal/core/apperr"
	userEntity "github.com/eunmi228/PostApp/internal/core/user"
	userPort "github.com/eunmi228/PostApp/internal/ports/user"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 5

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID string) (string, int64, error)
}

// UserService سرویس مدیریت کاربران
type UserService struct {
	UserRepository userPort.UserRepository
	Tokens         TokenIssuer
	Logger         *zap.Logger
}

func NewUserService(repo userPort.UserRepository, tokens TokenIssuer, logger *zap.Logger) *UserService {
	return &UserService{
		UserRepository: repo,
		Tokens:         tokens,
		Logger:         logger,
	}
}

// Signup ثبت‌نام کاربر جدید
func (s *UserService) Signup(ctx context.Context, email, name, password string) (*userPort.UserDTO, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)

	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperr.Validation("email", "please enter a valid email")
	}
	if name == "" {
		return nil, apperr.Validation("name", "must not be empty")
	}
	if len(strings.TrimSpace(password)) < minPasswordLength {
		return nil, apperr.Validation("password", "must be at least 5 characters")
	}

	existing, err := s.UserRepository.FindByEmail(ctx, email)
	switch {
	case err == nil && existing != nil:
		return nil, apperr.Validation("email", "email address already exists")
	case err != nil && !errors.Is(err, apperr.ErrNotFound):
		return nil, apperr.Server("could not check email", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Server("could not hash password", err)
	}

	u, err := s.UserRepository.Create(ctx, &userEntity.User{
		ID:       uuid.Must(uuid.NewV4()),
		Name:     name,
		Email:    email,
		Password: string(hashedPassword),
		Status:   userEntity.DefaultStatus,
	})
	if err != nil {
		s.Logger.Error("Failed to create user", zap.Error(err))
		return nil, apperr.Server("could not create user", err)
	}

	s.Logger.Info("User created", zap.String("userID", u.ID.String()))
	return userPort.ToDTO(u), nil
}

// Login ورود کاربر و صدور توکن JWT
func (s *UserService) Login(ctx context.Context, email, password string) (*userPort.LoginResponse, error) {
	u, err := s.UserRepository.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.Invalid(errors.New("a user with this email could not be found"))
		}
		return nil, apperr.Server("could not load user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		s.Logger.Info("Rejected login with wrong password", zap.String("userID", u.ID.String()))
		return nil, apperr.Invalid(errors.New("wrong password"))
	}

	token, expiresAt, err := s.Tokens.Issue(u.ID.String())
	if err != nil {
		s.Logger.Error("Failed to sign token", zap.Error(err))
		return nil, apperr.Server("could not generate token", err)
	}

	return &userPort.LoginResponse{
		Token:     token,
		UserID:    u.ID.String(),
		ExpiresAt: expiresAt,
	}, nil
}

func (s *UserService) GetStatus(ctx context.Context, callerID string) (string, error) {
	u, err := s.loadCaller(ctx, callerID)
	if err != nil {
		return "", err
	}
	return u.Status, nil
}

// UpdateStatus lets a user change only their own status line.
func (s *UserService) UpdateStatus(ctx context.Context, callerID, status string) error {
	u, err := s.loadCaller(ctx, callerID)
	if err != nil {
		return err
	}

	status = strings.TrimSpace(status)
	if status == "" {
		return apperr.Validation("status", "must not be empty")
	}
	u.Status = status
	if _, err := s.UserRepository.Save(ctx, u); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return err
		}
		return apperr.Server("could not update status", err)
	}
	return nil
}

func (s *UserService) loadCaller(ctx context.Context, callerID string) (*userEntity.User, error) {
	if callerID == "" {
		return nil, apperr.Missing()
	}
	u, err := s.UserRepository.FindByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, err
		}
		return nil, apperr.Server("could not load user", err)
	}
	return u, nil
}
