package services

import (
	"errors"
	"strings"

	"github.com/nazmulfx/Study-Buddy/internal/models"

	"gorm.io/gorm"
)

type MessageService struct {
	db    *gorm.DB
	rooms *RoomService
}

func NewMessageService(db *gorm.DB, rooms *RoomService) *MessageService {
	return &MessageService{db: db, rooms: rooms}
}

// Post writes the message and joins the author to the room's participant
// set in the same transaction.
func (s *MessageService) Post(roomID, userID uint, body string) (*models.Message, error) {
	var room models.Room
	if err := s.db.First(&room, roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	msg := models.Message{RoomID: roomID, UserID: userID, Body: body}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&msg).Error; err != nil {
			return err
		}
		return s.rooms.AddParticipant(tx, roomID, userID)
	})
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// Delete removes a message. Only its author may do this.
func (s *MessageService) Delete(messageID, userID uint) error {
	var msg models.Message
	if err := s.db.First(&msg, messageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMessageNotFound
		}
		return err
	}
	if msg.UserID != userID {
		return ErrNotAllowed
	}
	return s.db.Delete(&msg).Error
}

func (s *MessageService) ListByRoom(roomID uint) ([]models.Message, error) {
	var msgs []models.Message
	err := s.db.Where("room_id = ?", roomID).
		Order(models.DefaultOrder).
		Preload("User").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

func (s *MessageService) ListByUser(userID uint) ([]models.Message, error) {
	var msgs []models.Message
	err := s.db.Where("user_id = ?", userID).
		Order(models.DefaultOrder).
		Preload("Room").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

// Activity is the site-wide feed: the most recent messages, unfiltered.
func (s *MessageService) Activity(limit int) ([]models.Message, error) {
	var msgs []models.Message
	err := s.db.Order(models.DefaultOrder).
		Limit(limit).
		Preload("User").Preload("Room").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

// SearchByRoomTopic returns messages whose room's topic name contains q,
// feeding the sidebar of the home listing.
func (s *MessageService) SearchByRoomTopic(q string, limit int) ([]models.Message, error) {
	pattern := "%" + strings.ToLower(q) + "%"
	var msgs []models.Message
	err := s.db.
		Joins("JOIN rooms ON rooms.id = messages.room_id").
		Joins("LEFT JOIN topics ON topics.id = rooms.topic_id").
		Where("LOWER(topics.name) LIKE ?", pattern).
		Order("messages.updated_at DESC, messages.created_at DESC").
		Limit(limit).
		Preload("User").Preload("Room").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}
