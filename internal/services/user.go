package services

import (
	"errors"
	"strings"

	"github.com/nazmulfx/Study-Buddy/internal/models"

	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) Get(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Update edits the profile of the current user. Username and email keep
// their registration normalization.
func (s *UserService) Update(userID uint, name, username, email, bio string) (*models.User, error) {
	user, err := s.Get(userID)
	if err != nil {
		return nil, err
	}

	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.ToLower(strings.TrimSpace(email))

	if email != user.Email {
		var count int64
		if err := s.db.Model(&models.User{}).Where("email = ? AND id <> ?", email, userID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrEmailTaken
		}
	}
	if username != user.Username {
		var count int64
		if err := s.db.Model(&models.User{}).Where("username = ? AND id <> ?", username, userID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrUsernameTaken
		}
	}

	user.Name = name
	user.Username = username
	user.Email = email
	user.Bio = bio
	if err := s.db.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) SetAvatar(userID uint, avatarURL string) (*models.User, error) {
	user, err := s.Get(userID)
	if err != nil {
		return nil, err
	}
	user.Avatar = avatarURL
	if err := s.db.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes the account. Authored messages go with it, hosted rooms
// stay behind with a NULL host, participant rows and refresh tokens are
// cleaned up. One transaction, so a half-deleted account never shows up.
func (s *UserService) Delete(userID uint) error {
	user, err := s.Get(userID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Room{}).Where("host_id = ?", userID).
			Update("host_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM room_participants WHERE user_id = ?", userID).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.RefreshToken{}).Error; err != nil {
			return err
		}
		return tx.Delete(user).Error
	})
}
