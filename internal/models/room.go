package models

import "time"

// Room is hosted by one user and tagged with one topic. Both references
// survive deletion of their target: the column goes NULL, the room stays.
type Room struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	HostID       *uint     `gorm:"index" json:"host_id"`
	Host         *User     `gorm:"foreignKey:HostID;constraint:OnDelete:SET NULL" json:"host,omitempty"`
	TopicID      *uint     `gorm:"index" json:"topic_id"`
	Topic        *Topic    `gorm:"foreignKey:TopicID;constraint:OnDelete:SET NULL" json:"topic,omitempty"`
	Name         string    `gorm:"size:250;not null" json:"name"`
	Description  string    `gorm:"type:text" json:"description"`
	Participants []User    `gorm:"many2many:room_participants" json:"participants,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DefaultOrder is the listing order shared by rooms and messages:
// most recently updated first, creation time breaking ties.
const DefaultOrder = "updated_at DESC, created_at DESC"
