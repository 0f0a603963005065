package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the account every owned row (streaks, pages, templates, feedback) points at.
type User struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Username  string     `gorm:"size:150;not null;uniqueIndex" json:"username"`
	Email     string     `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password  string     `gorm:"not null" json:"-"`
	Role      string     `gorm:"size:20;default:'user'" json:"role"`
	IsActive  bool       `gorm:"default:true" json:"is_active"`
	LastLogin *time.Time `json:"last_login"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// IsStaff reports whether the user has the admin role.
func (u *User) IsStaff() bool {
	return u.Role == RoleAdmin
}
