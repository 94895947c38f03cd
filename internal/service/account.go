package service

import (
	"errors"
	"fmt"

	"xpense/internal/models"
	"xpense/internal/util"

	"gorm.io/gorm"
)

// AccountService holds the per-user settings: emergency rate and profile picture.
type AccountService struct {
	DB *gorm.DB
}

func NewAccountService(db *gorm.DB) *AccountService {
	return &AccountService{DB: db}
}

// User loads a user by name.
func (s *AccountService) User(username string) (*models.User, error) {
	var user models.User
	err := s.DB.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return &user, nil
}

// SetEmergencyRate stores a new rate (5-10). Existing entries keep the
// emergency fund they were written with.
func (s *AccountService) SetEmergencyRate(username string, rate int) error {
	if rate < models.MinEmergencyRate || rate > models.MaxEmergencyRate {
		return invalid("emergency_rate", "rate must be between %d and %d", models.MinEmergencyRate, models.MaxEmergencyRate)
	}
	res := s.DB.Model(&models.User{}).Where("username = ?", username).Update("emergency_rate", rate)
	if res.Error != nil {
		return fmt.Errorf("update emergency rate: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SetProfilePicture replaces the user's avatar.
func (s *AccountService) SetProfilePicture(username string, img []byte) error {
	if err := util.ValidateImage(img); err != nil {
		return invalid("profile_pic", "%v", err)
	}
	res := s.DB.Model(&models.User{}).Where("username = ?", username).Update("profile_pic", img)
	if res.Error != nil {
		return fmt.Errorf("update profile picture: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
