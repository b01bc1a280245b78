package repository

import (
	"context"
	"time"

	"go-catalog-api/internal/model"

	"gorm.io/gorm"
)

type UserRepository interface {
	Store[model.User]
	WithTx(tx *gorm.DB) UserRepository
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	UpdatePassword(ctx context.Context, userID uint, hashedPassword string) error
	UpdateTokenVersion(ctx context.Context, userID uint, version string) error
	UpdateLastLogin(ctx context.Context, userID uint, at time.Time) error
}

type userRepo struct {
	store[model.User]
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{store[model.User]{db}}
}

func (r *userRepo) WithTx(tx *gorm.DB) UserRepository {
	return NewUserRepo(tx)
}

func (r *userRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.conn(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) UpdatePassword(ctx context.Context, userID uint, hashedPassword string) error {
	return r.conn(ctx).Model(&model.User{}).Where("id = ?", userID).Update("password", hashedPassword).Error
}

func (r *userRepo) UpdateTokenVersion(ctx context.Context, userID uint, version string) error {
	return r.conn(ctx).Model(&model.User{}).Where("id = ?", userID).Update("token_version", version).Error
}

func (r *userRepo) UpdateLastLogin(ctx context.Context, userID uint, at time.Time) error {
	return r.conn(ctx).Model(&model.User{}).Where("id = ?", userID).Update("last_login", at).Error
}
