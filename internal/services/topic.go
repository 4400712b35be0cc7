package services

import (
	"strings"

	"github.com/nazmulfx/Study-Buddy/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TopicService struct {
	db *gorm.DB
}

func NewTopicService(db *gorm.DB) *TopicService {
	return &TopicService{db: db}
}

// GetOrCreate resolves a topic by exact name, creating it when absent.
// The insert is an ON CONFLICT DO NOTHING upsert on the unique name index,
// so two concurrent saves of a new topic cannot produce duplicate rows.
func (s *TopicService) GetOrCreate(name string) (*models.Topic, error) {
	topic := models.Topic{Name: name}
	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&topic).Error; err != nil {
		return nil, err
	}
	// The upsert leaves ID zero when the row already existed.
	if topic.ID == 0 {
		if err := s.db.Where("name = ?", name).First(&topic).Error; err != nil {
			return nil, err
		}
	}
	return &topic, nil
}

// List returns topics whose name contains q (case-insensitive); empty q
// returns all of them.
func (s *TopicService) List(q string, limit int) ([]models.Topic, error) {
	var topics []models.Topic
	query := s.db.Order("name ASC")
	if q != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q)+"%")
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&topics).Error; err != nil {
		return nil, err
	}
	return topics, nil
}
