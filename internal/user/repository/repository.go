package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/PapaBear1981/supplyline-mro-suite/internal/user/domain"
)

// GormDirectory implements domain.Directory over the users table
type GormDirectory struct {
	db *gorm.DB
}

// NewGormDirectory creates a new user directory
func NewGormDirectory(db *gorm.DB) *GormDirectory {
	return &GormDirectory{db: db}
}

// AutoMigrate migrates the users table
func (d *GormDirectory) AutoMigrate() error {
	return d.db.AutoMigrate(&domain.User{})
}

func (d *GormDirectory) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	err := d.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

func (d *GormDirectory) FindElevated(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := d.db.WithContext(ctx).
		Where("role IN ?", []string{domain.RoleAdmin, domain.RoleMaterials}).
		Where("is_active = ?", true).
		Find(&users).Error
	return users, err
}
