package models

type Topic struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:200;uniqueIndex;not null" json:"name"`
}
