package service

import (
	"context"
	"errors"
	"net/http"

	"pkl-club-api/internal/dto"
	"pkl-club-api/internal/model"
	"pkl-club-api/internal/repository"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SuperAdminUsername is the bootstrap admin account. It cannot be
// deleted or deactivated, even by another admin.
const SuperAdminUsername = "eman"

type UserService interface {
	Signup(ctx context.Context, req *dto.CreateUserRequest) (*model.User, error)
	CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*model.User, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	ListUsers(ctx context.Context, userType model.UserType) ([]*model.User, error)
	SearchUsers(ctx context.Context, q string) ([]*model.User, error)
	UpdateUser(ctx context.Context, id string, req *dto.UpdateUserRequest) (*model.User, error)
	DeleteUser(ctx context.Context, callerID, id string) error
	GrantPasses(ctx context.Context, id string, req *dto.GrantPassesRequest) (*model.User, error)
}

type userServiceImpl struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userServiceImpl{
		userRepo: userRepo,
	}
}

// Signup is the public registration path; admin accounts can only be
// created by an existing admin.
func (s *userServiceImpl) Signup(ctx context.Context, req *dto.CreateUserRequest) (*model.User, error) {
	if req.UserType == model.UserTypeAdmin {
		return nil, echo.NewHTTPError(http.StatusForbidden, "Cannot self-register as admin")
	}
	return s.createUser(ctx, req)
}

func (s *userServiceImpl) CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*model.User, error) {
	return s.createUser(ctx, req)
}

func (s *userServiceImpl) createUser(ctx context.Context, req *dto.CreateUserRequest) (*model.User, error) {
	if _, err := s.userRepo.FindByUsername(ctx, req.Username); err == nil {
		return nil, echo.NewHTTPError(http.StatusConflict, "Username already taken")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:         req.Username,
		Password:         string(hash),
		Email:            req.Email,
		UserType:         req.UserType,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Phone:            req.Phone,
		IsActive:         true,
		MembershipStatus: model.MembershipNone,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *userServiceImpl) GetUser(ctx context.Context, id string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return nil, err
	}

	return user, nil
}

func (s *userServiceImpl) ListUsers(ctx context.Context, userType model.UserType) ([]*model.User, error) {
	if userType != "" {
		return s.userRepo.FindByType(ctx, userType)
	}
	return s.userRepo.FindAll(ctx)
}

func (s *userServiceImpl) SearchUsers(ctx context.Context, q string) ([]*model.User, error) {
	if q == "" {
		return []*model.User{}, nil
	}
	return s.userRepo.Search(ctx, q)
}

func (s *userServiceImpl) UpdateUser(ctx context.Context, id string, req *dto.UpdateUserRequest) (*model.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if user.Username == SuperAdminUsername && req.IsActive != nil && !*req.IsActive {
		return nil, echo.NewHTTPError(http.StatusForbidden, "Super admin cannot be deactivated")
	}

	fields := map[string]interface{}{}
	if req.Email != nil {
		fields["email"] = *req.Email
	}
	if req.FirstName != nil {
		fields["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		fields["last_name"] = *req.LastName
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}

	if len(fields) == 0 {
		return user, nil
	}

	if err := s.userRepo.Updates(ctx, id, fields); err != nil {
		return nil, err
	}

	return s.userRepo.FindByID(ctx, id)
}

func (s *userServiceImpl) DeleteUser(ctx context.Context, callerID, id string) error {
	if callerID == id {
		return echo.NewHTTPError(http.StatusForbidden, "Cannot delete your own account")
	}

	user, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}
	if user.Username == SuperAdminUsername {
		return echo.NewHTTPError(http.StatusForbidden, "Super admin cannot be deleted")
	}

	return s.userRepo.Delete(ctx, id)
}

// GrantPasses sets absolute pass counts on a user. -1 means unlimited
// and is preserved until an admin sets a different value.
func (s *userServiceImpl) GrantPasses(ctx context.Context, id string, req *dto.GrantPassesRequest) (*model.User, error) {
	if _, err := s.GetUser(ctx, id); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.MembershipPasses != nil {
		fields["membership_passes"] = *req.MembershipPasses
	}
	if req.EventFeePasses != nil {
		fields["event_fee_passes"] = *req.EventFeePasses
	}

	if len(fields) == 0 {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "No pass counts provided")
	}

	if err := s.userRepo.Updates(ctx, id, fields); err != nil {
		return nil, err
	}

	return s.userRepo.FindByID(ctx, id)
}
