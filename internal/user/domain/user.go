package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Role types. Materials is the designated inventory management role and,
// together with admin, receives discrepancy notifications.
const (
	RoleUser      = "user"
	RoleAdmin     = "admin"
	RoleMaterials = "materials"
)

// User represents the user entity as seen by the cycle count subsystem.
// Credential management lives elsewhere; this is a read model.
type User struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Username  string         `json:"username" gorm:"uniqueIndex;not null"`
	FullName  string         `json:"full_name"`
	Role      string         `json:"role" gorm:"not null;default:'user'"`
	IsActive  bool           `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

// IsElevated reports whether the user receives discrepancy notifications
func (u *User) IsElevated() bool {
	return u.Role == RoleAdmin || u.Role == RoleMaterials
}

// Directory is read access to users for assignment validation and
// notification fan-out
type Directory interface {
	FindByID(ctx context.Context, id uint) (*User, error)
	FindElevated(ctx context.Context) ([]User, error)
}
