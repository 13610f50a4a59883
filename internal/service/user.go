package service

import (
	"context"
	"time"

	v1 "pvefleet/api/v1"
	"pvefleet/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

type UserService interface {
	Login(ctx context.Context, req *v1.LoginRequest) (string, error)
	GetProfile(ctx context.Context, userId string) (*v1.GetProfileResponseData, error)
	UpdateProfile(ctx context.Context, userId string, req *v1.UpdateProfileRequest) error
}

func NewUserService(
	service *Service,
	userRepo repository.UserRepository,
) UserService {
	return &userService{
		userRepo: userRepo,
		Service:  service,
	}
}

type userService struct {
	userRepo repository.UserRepository
	*Service
}

func (s *userService) Login(ctx context.Context, req *v1.LoginRequest) (string, error) {
	// 账号同时支持用户名和邮箱
	user, err := s.userRepo.GetByUsername(ctx, req.Account)
	if err != nil {
		return "", err
	}
	if user == nil {
		user, err = s.userRepo.GetByEmail(ctx, req.Account)
		if err != nil {
			return "", err
		}
	}
	if user == nil {
		return "", v1.ErrUnauthorized
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return "", v1.ErrUnauthorized
	}

	token, err := s.jwt.GenToken(user.UserId, time.Now().Add(time.Hour*24*7))
	if err != nil {
		return "", err
	}
	return token, nil
}

func (s *userService) GetProfile(ctx context.Context, userId string) (*v1.GetProfileResponseData, error) {
	user, err := s.userRepo.GetByID(ctx, userId)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, v1.ErrNotFound
	}
	return &v1.GetProfileResponseData{
		UserId:   user.UserId,
		Username: user.Username,
		Email:    user.Email,
		Nickname: user.Nickname,
	}, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userId string, req *v1.UpdateProfileRequest) error {
	user, err := s.userRepo.GetByID(ctx, userId)
	if err != nil {
		return err
	}
	if user == nil {
		return v1.ErrNotFound
	}

	if req.Nickname != "" {
		user.Nickname = req.Nickname
	}
	if req.NewPassword != "" {
		// 改密码必须先验旧密码
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
			return v1.ErrUnauthorized
		}
		hashed, err := hashPassword(req.NewPassword)
		if err != nil {
			return err
		}
		user.Password = hashed
	}

	return s.userRepo.Update(ctx, user)
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
