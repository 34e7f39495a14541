package service

import (
	"context"
	"errors"
	"net/http"

	"pkl-club-api/internal/config"
	"pkl-club-api/internal/dto"
	"pkl-club-api/internal/middleware"
	"pkl-club-api/internal/model"
	"pkl-club-api/internal/repository"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	GetProfile(ctx context.Context, userID string) (*model.User, error)
}

type authServiceImpl struct {
	jwtCfg   *config.JWT
	userRepo repository.UserRepository
}

func NewAuthService(jwtCfg *config.JWT, userRepo repository.UserRepository) AuthService {
	return &authServiceImpl{
		jwtCfg:   jwtCfg,
		userRepo: userRepo,
	}
}

func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Account is deactivated")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}

	token, err := middleware.NewToken(s.jwtCfg.Secret, s.jwtCfg.TTL, user)
	if err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken: token,
		UserID:      user.ID,
		Username:    user.Username,
		UserType:    user.UserType,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Email:       user.Email,
	}, nil
}

func (s *authServiceImpl) GetProfile(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return nil, err
	}

	return user, nil
}
