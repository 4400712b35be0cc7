package services

import (
	"errors"
	"strings"

	"github.com/nazmulfx/Study-Buddy/internal/models"

	"gorm.io/gorm"
)

type RoomService struct {
	db     *gorm.DB
	topics *TopicService
}

func NewRoomService(db *gorm.DB, topics *TopicService) *RoomService {
	return &RoomService{db: db, topics: topics}
}

// Create resolves (or creates) the topic and opens a room hosted by the
// current user.
func (s *RoomService) Create(hostID uint, topicName, name, description string) (*models.Room, error) {
	topic, err := s.topics.GetOrCreate(topicName)
	if err != nil {
		return nil, err
	}
	room := models.Room{
		HostID:      &hostID,
		TopicID:     &topic.ID,
		Name:        name,
		Description: description,
	}
	if err := s.db.Create(&room).Error; err != nil {
		return nil, err
	}
	room.Topic = topic
	return &room, nil
}

func (s *RoomService) Get(roomID uint) (*models.Room, error) {
	var room models.Room
	err := s.db.Preload("Host").Preload("Topic").Preload("Participants").
		First(&room, roomID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

// Update overwrites name, description and topic. Only the host may do this.
func (s *RoomService) Update(roomID, userID uint, topicName, name, description string) (*models.Room, error) {
	var room models.Room
	if err := s.db.First(&room, roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	if room.HostID == nil || *room.HostID != userID {
		return nil, ErrNotAllowed
	}

	topic, err := s.topics.GetOrCreate(topicName)
	if err != nil {
		return nil, err
	}
	room.TopicID = &topic.ID
	room.Name = name
	room.Description = description
	if err := s.db.Save(&room).Error; err != nil {
		return nil, err
	}
	room.Topic = topic
	return &room, nil
}

// Delete removes the room together with its messages and participant rows.
// Only the host may do this.
func (s *RoomService) Delete(roomID, userID uint) error {
	var room models.Room
	if err := s.db.First(&room, roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoomNotFound
		}
		return err
	}
	if room.HostID == nil || *room.HostID != userID {
		return ErrNotAllowed
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("room_id = ?", roomID).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&room).Association("Participants").Clear(); err != nil {
			return err
		}
		return tx.Delete(&room).Error
	})
}

// Search returns rooms where q is a case-insensitive substring of the topic
// name, room name or description, in default order, capped at limit.
func (s *RoomService) Search(q string, limit int) ([]models.Room, error) {
	pattern := "%" + strings.ToLower(q) + "%"
	var rooms []models.Room
	err := s.db.
		Joins("LEFT JOIN topics ON topics.id = rooms.topic_id").
		Where("LOWER(topics.name) LIKE ? OR LOWER(rooms.name) LIKE ? OR LOWER(rooms.description) LIKE ?",
			pattern, pattern, pattern).
		Order("rooms.updated_at DESC, rooms.created_at DESC").
		Limit(limit).
		Preload("Host").Preload("Topic").Preload("Participants").
		Find(&rooms).Error
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

// CountAll is the unfiltered room total shown next to filtered listings.
func (s *RoomService) CountAll() (int64, error) {
	var count int64
	err := s.db.Model(&models.Room{}).Count(&count).Error
	return count, err
}

func (s *RoomService) ListByHost(hostID uint) ([]models.Room, error) {
	var rooms []models.Room
	err := s.db.Where("host_id = ?", hostID).
		Order(models.DefaultOrder).
		Preload("Topic").Preload("Participants").
		Find(&rooms).Error
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

// AddParticipant records that a user has posted in the room. Adding the
// same user twice is a no-op.
func (s *RoomService) AddParticipant(tx *gorm.DB, roomID, userID uint) error {
	room := models.Room{ID: roomID}
	return tx.Model(&room).Association("Participants").Append(&models.User{ID: userID})
}
