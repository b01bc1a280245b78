package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"go-catalog-api/internal/model"
	"go-catalog-api/internal/repository"
	"go-catalog-api/pkg/apperror"
	"go-catalog-api/pkg/jwt"
)

var (
	ErrInvalidCredentials   = apperror.Unauthorized("Incorrect username or password")
	ErrInvalidRefreshToken  = apperror.Unauthorized("Invalid refresh token")
	ErrUserUnavailable      = apperror.Unauthorized("User not found or inactive")
	ErrCouldNotValidate     = apperror.Unauthorized("Could not validate credentials")
	ErrWrongPassword        = apperror.BadRequest("Current password is incorrect")
	ErrAdminRequired        = apperror.Forbidden("Admin access required")
	ErrOwnRoleChange        = apperror.Forbidden("You cannot change your own role")
	ErrOwnActiveChange      = apperror.Forbidden("You cannot change your own active status")
	ErrProtectedUserRemoval = apperror.BadRequest("Cannot delete system or admin user")
)

const TokenTypeBearer = "bearer"

type AuthService interface {
	Login(ctx context.Context, req *LoginRequest) (*TokenResponse, error)
	Refresh(ctx context.Context, req *RefreshRequest) (*TokenResponse, error)
	Authenticate(ctx context.Context, accessToken string) (*model.User, error)
	Me(ctx context.Context, userID uint) (*model.UserResponse, error)
	Logout(ctx context.Context, userID uint) error
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type TokenResponse struct {
	AccessToken  string             `json:"access_token"`
	RefreshToken string             `json:"refresh_token"`
	TokenType    string             `json:"token_type"`
	User         model.UserResponse `json:"user"`
}

type authService struct {
	userRepo repository.UserRepository
}

func NewAuthService(userRepo repository.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*TokenResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	// 1. Find user by username
	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// 2. Inactive users and wrong passwords look the same to the caller
	if !user.IsActive || !user.CheckPassword(req.Password) {
		return nil, ErrInvalidCredentials
	}

	// 3. Rotate the session version; older tokens stop validating
	user.TokenVersion = uuid.New().String()
	if err := s.userRepo.UpdateTokenVersion(ctx, user.ID, user.TokenVersion); err != nil {
		return nil, err
	}

	// 4. Record the login
	now := time.Now()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, err
	}
	user.LastLogin = &now

	return s.issue(user)
}

func (s *authService) Refresh(ctx context.Context, req *RefreshRequest) (*TokenResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	claims, err := jwt.ValidateTokenOfType(req.RefreshToken, jwt.TokenTypeRefresh)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserUnavailable
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserUnavailable
	}
	if user.TokenVersion != claims.TokenVersion {
		return nil, ErrInvalidRefreshToken
	}

	return s.issue(user)
}

// Authenticate resolves an access token to an active user of the current session.
func (s *authService) Authenticate(ctx context.Context, accessToken string) (*model.User, error) {
	claims, err := jwt.ValidateTokenOfType(accessToken, jwt.TokenTypeAccess)
	if err != nil {
		return nil, ErrCouldNotValidate
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrCouldNotValidate
		}
		return nil, err
	}
	if !user.IsActive || user.TokenVersion != claims.TokenVersion {
		return nil, ErrCouldNotValidate
	}
	return user, nil
}

func (s *authService) Me(ctx context.Context, userID uint) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, lookupError(err, entityUser, userID)
	}
	resp := user.ToResponse()
	return &resp, nil
}

// Logout rotates the session version, invalidating every issued token.
func (s *authService) Logout(ctx context.Context, userID uint) error {
	return s.userRepo.UpdateTokenVersion(ctx, userID, uuid.New().String())
}

func (s *authService) issue(user *model.User) (*TokenResponse, error) {
	access, err := jwt.GenerateToken(user.ID, user.Username, string(user.Role), user.TokenVersion)
	if err != nil {
		return nil, err
	}
	refresh, err := jwt.GenerateRefreshToken(user.ID, user.Username, string(user.Role), user.TokenVersion)
	if err != nil {
		return nil, err
	}
	return &TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    TokenTypeBearer,
		User:         user.ToResponse(),
	}, nil
}
