package model

import (
	"time"

	"gorm.io/gorm"
)

type PostModel struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Author    string         `gorm:"type:varchar(255);not null" json:"author"`
	Password  string         `gorm:"type:varchar(255);not null" json:"-"`
	Title     string         `gorm:"type:varchar(20);not null" json:"title"`
	Content   string         `gorm:"type:varchar(200);not null" json:"content"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (PostModel) TableName() string {
	return "posts"
}
