package service

import (
	"context"
	"strings"

	"go-catalog-api/internal/model"
	"go-catalog-api/internal/repository"
	"go-catalog-api/internal/ws"
	"go-catalog-api/pkg/apperror"

	"gorm.io/gorm"
)

const entityUser = "User"

type UserService interface {
	List(ctx context.Context, filter repository.UserFilter, page repository.Page, actor Actor) ([]model.UserResponse, int64, error)
	Get(ctx context.Context, id uint, actor Actor) (*model.UserResponse, error)
	Create(ctx context.Context, req *UserCreateRequest, actor Actor) (*model.UserResponse, error)
	Update(ctx context.Context, id uint, req *UserUpdateRequest, actor Actor) (*model.UserResponse, error)
	Delete(ctx context.Context, id uint, actor Actor) (*model.UserResponse, error)

	UpdateProfile(ctx context.Context, req *UserUpdateRequest, actor Actor) (*model.UserResponse, error)
	ChangePassword(ctx context.Context, req *ChangePasswordRequest, actor Actor) (*model.UserResponse, error)
}

type UserCreateRequest struct {
	Username string     `json:"username" validate:"required,min=3,max=20"`
	Email    string     `json:"email" validate:"required,email,max=50"`
	Name     string     `json:"name" validate:"notblank,max=50"`
	Password string     `json:"password" validate:"required,min=6"`
	Role     model.Role `json:"role" validate:"omitempty,oneof=USER ADMIN MANAGER SYSTEM"`
}

type UserUpdateRequest struct {
	Username *string     `json:"username" validate:"omitempty,min=3,max=20"`
	Email    *string     `json:"email" validate:"omitempty,email,max=50"`
	Name     *string     `json:"name" validate:"omitempty,notblank,max=50"`
	Role     *model.Role `json:"role" validate:"omitempty,oneof=USER ADMIN MANAGER SYSTEM"`
	IsActive *bool       `json:"is_active"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

type userService struct {
	repo      repository.UserRepository
	db        *gorm.DB
	wsHub     *ws.Hub
	protected map[uint]bool
}

// NewUserService builds the user service. protectedIDs are the seeded system
// and admin accounts, which cannot be deleted.
func NewUserService(repo repository.UserRepository, db *gorm.DB, hub *ws.Hub, protectedIDs ...uint) UserService {
	protected := make(map[uint]bool, len(protectedIDs))
	for _, id := range protectedIDs {
		protected[id] = true
	}
	return &userService{repo: repo, db: db, wsHub: hub, protected: protected}
}

func (s *userService) List(ctx context.Context, filter repository.UserFilter, page repository.Page, actor Actor) ([]model.UserResponse, int64, error) {
	if !actor.Role.CanManageUsers() {
		return nil, 0, ErrAdminRequired
	}
	users, total, err := s.repo.List(ctx, filter.Scope(), page)
	if err != nil {
		return nil, 0, err
	}
	out := make([]model.UserResponse, len(users))
	for i := range users {
		out[i] = users[i].ToResponse()
	}
	return out, total, nil
}

func (s *userService) Get(ctx context.Context, id uint, actor Actor) (*model.UserResponse, error) {
	if !actor.Role.CanManageUsers() {
		return nil, ErrAdminRequired
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, entityUser, id)
	}
	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) Create(ctx context.Context, req *UserCreateRequest, actor Actor) (*model.UserResponse, error) {
	if !actor.Role.CanManageUsers() {
		return nil, ErrAdminRequired
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Role = model.Role(strings.ToUpper(string(req.Role)))
	if err := validate(req); err != nil {
		return nil, err
	}
	ctx = actor.Context(ctx)

	user := &model.User{
		Username: req.Username,
		Email:    req.Email,
		Name:     req.Name,
		Role:     req.Role,
	}
	user.IsActive = true
	if err := user.SetPassword(req.Password); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := s.ensureUnique(ctx, repo, 0, req.Username, req.Email); err != nil {
			return err
		}
		return writeError(repo.Create(ctx, user), entityUser)
	})
	if err != nil {
		return nil, err
	}

	s.wsHub.Emit(actor.event("users", ws.ActionCreated, user.ID, user.Username))
	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) Update(ctx context.Context, id uint, req *UserUpdateRequest, actor Actor) (*model.UserResponse, error) {
	if !actor.Role.CanManageUsers() {
		return nil, ErrAdminRequired
	}
	return s.update(ctx, id, req, actor)
}

// UpdateProfile lets a user edit their own account, except role and active status.
func (s *userService) UpdateProfile(ctx context.Context, req *UserUpdateRequest, actor Actor) (*model.UserResponse, error) {
	if req.Role != nil {
		return nil, ErrOwnRoleChange
	}
	if req.IsActive != nil {
		return nil, ErrOwnActiveChange
	}
	return s.update(ctx, actor.ID, req, actor)
}

func (s *userService) update(ctx context.Context, id uint, req *UserUpdateRequest, actor Actor) (*model.UserResponse, error) {
	if req.Email != nil {
		lower := strings.ToLower(strings.TrimSpace(*req.Email))
		req.Email = &lower
	}
	if req.Role != nil {
		upper := model.Role(strings.ToUpper(string(*req.Role)))
		req.Role = &upper
	}
	if err := validate(req); err != nil {
		return nil, err
	}
	ctx = actor.Context(ctx)

	var updated *model.User
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		user, err := repo.Lock(ctx, id)
		if err != nil {
			return lookupError(err, entityUser, id)
		}

		var username, email string
		if req.Username != nil && *req.Username != user.Username {
			username = *req.Username
			user.Username = username
		}
		if req.Email != nil && *req.Email != user.Email {
			email = *req.Email
			user.Email = email
		}
		if err := s.ensureUnique(ctx, repo, id, username, email); err != nil {
			return err
		}
		if req.Name != nil {
			user.Name = *req.Name
		}
		if req.Role != nil {
			user.Role = *req.Role
		}
		if req.IsActive != nil {
			user.IsActive = *req.IsActive
		}

		if err := repo.Save(ctx, user); err != nil {
			return writeError(err, entityUser)
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.wsHub.Emit(actor.event("users", ws.ActionUpdated, updated.ID, updated.Username))
	resp := updated.ToResponse()
	return &resp, nil
}

func (s *userService) ChangePassword(ctx context.Context, req *ChangePasswordRequest, actor Actor) (*model.UserResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	ctx = actor.Context(ctx)

	user, err := s.repo.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, lookupError(err, entityUser, actor.ID)
	}
	if !user.CheckPassword(req.CurrentPassword) {
		return nil, ErrWrongPassword
	}
	if err := user.SetPassword(req.NewPassword); err != nil {
		return nil, err
	}
	if err := s.repo.UpdatePassword(ctx, user.ID, user.Password); err != nil {
		return nil, err
	}

	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) Delete(ctx context.Context, id uint, actor Actor) (*model.UserResponse, error) {
	if !actor.Role.CanManageUsers() {
		return nil, ErrAdminRequired
	}

	var deleted *model.User
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		user, err := repo.Lock(ctx, id)
		if err != nil {
			return lookupError(err, entityUser, id)
		}
		if s.protected[user.ID] {
			return ErrProtectedUserRemoval
		}
		if err := repo.Delete(ctx, user); err != nil {
			return err
		}
		deleted = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.wsHub.Emit(actor.event("users", ws.ActionDeleted, deleted.ID, deleted.Username))
	resp := deleted.ToResponse()
	return &resp, nil
}

func (s *userService) ensureUnique(ctx context.Context, repo repository.UserRepository, excludeID uint, username, email string) error {
	if username != "" {
		exists, err := repo.Exists(ctx, "username", username, excludeID)
		if err != nil {
			return err
		}
		if exists {
			return apperror.BadRequest("%s with username '%s' already exists", entityUser, username)
		}
	}
	if email != "" {
		exists, err := repo.Exists(ctx, "email", email, excludeID)
		if err != nil {
			return err
		}
		if exists {
			return apperror.BadRequest("%s with email '%s' already exists", entityUser, email)
		}
	}
	return nil
}
