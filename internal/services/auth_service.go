package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/selfora/backend/internal/apps"
	"github.com/selfora/backend/internal/config"
	"github.com/selfora/backend/internal/dto"
	"github.com/selfora/backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")
	ErrUserNotFound       = errors.New("user not found")
)

// LoginHook runs after a successful login. Hooks are best-effort: they
// cannot fail the login.
type LoginHook func(ctx context.Context, userID uuid.UUID) error

type AuthService struct {
	db          *gorm.DB
	cfg         *config.Config
	adminEmails map[string]bool
	purgers     []apps.UserPurger
	loginHooks  []LoginHook
	now         func() time.Time
}

func NewAuthService(db *gorm.DB, cfg *config.Config, purgers []apps.UserPurger) *AuthService {
	admins := make(map[string]bool)
	for _, e := range strings.Split(cfg.AdminEmails, ",") {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			admins[e] = true
		}
	}
	return &AuthService{
		db:          db,
		cfg:         cfg,
		adminEmails: admins,
		purgers:     purgers,
		now:         time.Now,
	}
}

// OnLogin registers a hook that runs after every successful login.
func (s *AuthService) OnLogin(hook LoginHook) {
	s.loginHooks = append(s.loginHooks, hook)
}

func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	db := s.db.WithContext(ctx)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)

	var count int64
	if err := db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if count > 0 {
		return nil, ErrUsernameTaken
	}
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Username: username,
		Email:    email,
		Password: string(hash),
		Role:     models.RoleUser,
		IsActive: true,
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.generateTokenPair(ctx, &user, "User registered successfully")
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	db := s.db.WithContext(ctx)

	var user models.User
	if err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error; err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	if err := db.Model(&user).Update("last_login", now).Error; err != nil {
		slog.Warn("failed to record last login", "user_id", user.ID.String(), "error", err)
	}
	user.LastLogin = &now

	for _, hook := range s.loginHooks {
		if err := hook(ctx, user.ID); err != nil {
			slog.Error("login hook failed", "user_id", user.ID.String(), "action", "login_hook", "error", err)
		}
	}

	return s.generateTokenPair(ctx, &user, "Login successful")
}

func (s *AuthService) Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.AuthResponse, error) {
	db := s.db.WithContext(ctx)
	tokenHash := hashToken(req.Refresh)

	var stored models.RefreshToken
	if err := db.Where("token_hash = ? AND revoked = ?", tokenHash, false).First(&stored).Error; err != nil {
		return nil, ErrInvalidToken
	}

	// Rotation: the presented token is spent either way.
	db.Model(&stored).Update("revoked", true)
	if s.now().After(stored.ExpiresAt) {
		return nil, ErrInvalidToken
	}

	var user models.User
	if err := db.First(&user, "id = ?", stored.UserID).Error; err != nil || !user.IsActive {
		return nil, ErrInvalidToken
	}

	return s.generateTokenPair(ctx, &user, "Token refreshed")
}

func (s *AuthService) Logout(ctx context.Context, req *dto.LogoutRequest) error {
	return s.db.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token_hash = ?", hashToken(req.Refresh)).
		Update("revoked", true).Error
}

func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*dto.UserDetail, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	detail := s.toDetail(&user)
	return &detail, nil
}

// DeleteAccount verifies the password and removes the user together with
// every row the plugins own for them.
func (s *AuthService) DeleteAccount(ctx context.Context, userID uuid.UUID, password string) error {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return s.purge(ctx, &user)
}

func (s *AuthService) purge(ctx context.Context, user *models.User) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, p := range s.purgers {
			if err := p.PurgeUser(tx, user.ID); err != nil {
				return fmt.Errorf("failed to purge user data: %w", err)
			}
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.RefreshToken{}).Error; err != nil {
			return fmt.Errorf("failed to delete refresh tokens: %w", err)
		}
		return tx.Delete(user).Error
	})
}

func (s *AuthService) isStaff(user *models.User) bool {
	return user.IsStaff() || s.adminEmails[strings.ToLower(user.Email)]
}

func (s *AuthService) toDetail(user *models.User) dto.UserDetail {
	return dto.UserDetail{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		IsStaff:   s.isStaff(user),
		IsActive:  user.IsActive,
		LastLogin: user.LastLogin,
		CreatedAt: user.CreatedAt,
	}
}

func (s *AuthService) generateTokenPair(ctx context.Context, user *models.User, message string) (*dto.AuthResponse, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.generateRefreshToken(ctx, user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Message: message,
		User: dto.UserResponse{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
		},
		Token: dto.TokenPair{
			Access:  accessToken,
			Refresh: refreshToken,
		},
	}, nil
}

func (s *AuthService) generateAccessToken(user *models.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":      user.ID.String(),
		"email":    user.Email,
		"username": user.Username,
		"is_staff": s.isStaff(user),
		"iat":      now.Unix(),
		"exp":      now.Add(s.cfg.JWTAccessExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) generateRefreshToken(ctx context.Context, user *models.User) (string, error) {
	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	rawToken := base64.URLEncoding.EncodeToString(rawBytes)

	record := models.RefreshToken{
		UserID:    user.ID,
		TokenHash: hashToken(rawToken),
		ExpiresAt: s.now().Add(s.cfg.JWTRefreshExpiry),
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return rawToken, nil
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}
