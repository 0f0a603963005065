package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/selfora/backend/internal/dto"
	"github.com/selfora/backend/internal/models"
	"gorm.io/gorm"
)

// ListUsers returns accounts newest first.
func (s *AuthService) ListUsers(ctx context.Context, limit, offset int) (*dto.UserListResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	db := s.db.WithContext(ctx)
	var total int64
	if err := db.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	var users []models.User
	if err := db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	out := make([]dto.UserDetail, len(users))
	for i := range users {
		out[i] = s.toDetail(&users[i])
	}
	return &dto.UserListResponse{Users: out, Total: total}, nil
}

func (s *AuthService) GetUser(ctx context.Context, id uuid.UUID) (*dto.UserDetail, error) {
	return s.Me(ctx, id)
}

// UpdateUser changes the role and/or active flag of an account.
func (s *AuthService) UpdateUser(ctx context.Context, id uuid.UUID, req *dto.AdminUpdateUserRequest) (*dto.UserDetail, error) {
	db := s.db.WithContext(ctx)

	var user models.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	updates := map[string]interface{}{}
	if req.Role != nil {
		updates["role"] = *req.Role
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) > 0 {
		if err := db.Model(&user).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
		if req.IsActive != nil && !*req.IsActive {
			db.Model(&models.RefreshToken{}).Where("user_id = ?", user.ID).Update("revoked", true)
		}
	}

	return s.Me(ctx, id)
}

// DeleteUser removes an account without a password check.
func (s *AuthService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return ErrUserNotFound
	}
	return s.purge(ctx, &user)
}
