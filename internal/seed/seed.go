// Package seed creates the accounts the API needs before it can serve requests.
package seed

import (
	"context"

	"go-catalog-api/internal/config"
	"go-catalog-api/internal/model"
	"go-catalog-api/internal/repository"

	"go.uber.org/zap"
)

// Result holds the ids of the seeded accounts.
type Result struct {
	SystemID uint
	AdminID  uint
}

// Protected lists the ids that may never be deleted.
func (r Result) Protected() []uint {
	return []uint{r.SystemID, r.AdminID}
}

// Users ensures the system and admin accounts exist. Existing accounts are
// left untouched, so the call is safe on every start.
func Users(ctx context.Context, repo repository.UserRepository, cfg config.SeedConfig, log *zap.Logger) (Result, error) {
	if log == nil {
		log = zap.NewNop()
	}

	system, err := ensure(ctx, repo, &model.User{
		Username: cfg.SystemUsername,
		Email:    cfg.SystemEmail,
		Password: cfg.SystemPassword,
		Name:     "System",
		Role:     model.RoleSystem,
	}, log)
	if err != nil {
		return Result{}, err
	}

	admin, err := ensure(ctx, repo, &model.User{
		Username: cfg.AdminUsername,
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
		Name:     "Administrator",
		Role:     model.RoleAdmin,
	}, log)
	if err != nil {
		return Result{}, err
	}

	return Result{SystemID: system.ID, AdminID: admin.ID}, nil
}

func ensure(ctx context.Context, repo repository.UserRepository, u *model.User, log *zap.Logger) (*model.User, error) {
	existing, err := repo.FindByUsername(ctx, u.Username)
	if err == nil {
		return existing, nil
	}
	if !repository.IsNotFound(err) {
		return nil, err
	}

	u.IsActive = true
	if err := repo.Create(ctx, u); err != nil {
		return nil, err
	}
	log.Info("Seeded user", zap.String("username", u.Username), zap.String("role", string(u.Role)))
	return u, nil
}
