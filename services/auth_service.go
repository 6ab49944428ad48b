package services

import (
	"context"
	"errors"

	"github.com/ShounakM04/Rescue-Bites/models"
	"github.com/ShounakM04/Rescue-Bites/utils"

	"gorm.io/gorm"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type AuthService struct {
	db *gorm.DB
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{db: db}
}

type RegisterProviderInput struct {
	Name         string `json:"name" binding:"required"`
	Address      string `json:"address" binding:"required"`
	MobileNumber string `json:"mobile_number" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Pincode      string `json:"pincode" binding:"required"`
	Password     string `json:"password" binding:"required,min=8"`
}

type RegisterConsumerInput struct {
	Name         string `json:"name" binding:"required"`
	MobileNumber string `json:"mobile_number" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Pincode      string `json:"pincode" binding:"required"`
	Password     string `json:"password" binding:"required,min=8"`
}

func (s *AuthService) RegisterProvider(ctx context.Context, in RegisterProviderInput) (*models.Provider, error) {
	hashed, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	provider := &models.Provider{
		Name:         in.Name,
		Address:      in.Address,
		MobileNumber: in.MobileNumber,
		Email:        in.Email,
		Pincode:      in.Pincode,
		Password:     hashed,
	}
	if err := s.db.WithContext(ctx).Create(provider).Error; err != nil {
		return nil, err
	}
	return provider, nil
}

func (s *AuthService) RegisterConsumer(ctx context.Context, in RegisterConsumerInput) (*models.Consumer, error) {
	hashed, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	consumer := &models.Consumer{
		Name:         in.Name,
		MobileNumber: in.MobileNumber,
		Email:        in.Email,
		Pincode:      in.Pincode,
		Password:     hashed,
	}
	if err := s.db.WithContext(ctx).Create(consumer).Error; err != nil {
		return nil, err
	}
	return consumer, nil
}

func (s *AuthService) LoginProvider(ctx context.Context, email, password string) (string, error) {
	var provider models.Provider
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&provider).Error; err != nil {
		return "", ErrInvalidCredentials
	}
	if !utils.CheckPasswordHash(password, provider.Password) {
		return "", ErrInvalidCredentials
	}
	return utils.GenerateToken(utils.RoleProvider, provider.ID)
}

func (s *AuthService) LoginConsumer(ctx context.Context, email, password string) (string, error) {
	var consumer models.Consumer
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&consumer).Error; err != nil {
		return "", ErrInvalidCredentials
	}
	if !utils.CheckPasswordHash(password, consumer.Password) {
		return "", ErrInvalidCredentials
	}
	return utils.GenerateToken(utils.RoleConsumer, consumer.ID)
}
