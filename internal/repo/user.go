package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/products_api/internal/models"
)

func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	var count int64
	if err := r.DB.WithContext(ctx).
		Model(&models.User{}).
		Where("normalized_user_name = ?", u.NormalizedUserName).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateUserName
	}

	if err := r.DB.WithContext(ctx).Create(u).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateUserName
		}
		return err
	}
	return nil
}

func (r *GormRepo) FindUserByName(ctx context.Context, normalizedName string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("normalized_user_name = ?", normalizedName).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) FindRoleByName(ctx context.Context, normalizedName string) (*models.Role, error) {
	var role models.Role
	if err := r.DB.WithContext(ctx).Where("normalized_name = ?", normalizedName).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}
	return &role, nil
}

// CreateRole inserts the role unless one with the same normalized name is
// already stored.
func (r *GormRepo) CreateRole(ctx context.Context, role *models.Role) error {
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "normalized_name"}}, DoNothing: true}).
		Create(role).Error
}

func (r *GormRepo) AddUserToRole(ctx context.Context, userID, roleID string) error {
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.UserRole{UserID: userID, RoleID: roleID}).Error
}

func (r *GormRepo) UserRoles(ctx context.Context, userID string) ([]string, error) {
	names := make([]string, 0)
	err := r.DB.WithContext(ctx).
		Model(&models.Role{}).
		Joins("JOIN user_roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ?", userID).
		Order("roles.name ASC").
		Pluck("roles.name", &names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}

func (r *GormRepo) IsInRole(ctx context.Context, userID, normalizedRole string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&models.UserRole{}).
		Joins("JOIN roles ON roles.id = user_roles.role_id").
		Where("user_roles.user_id = ? AND roles.normalized_name = ?", userID, normalizedRole).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
