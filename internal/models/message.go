package models

import (
	"time"
)

type Message struct {
	ID       uint   `gorm:"primaryKey"`
	ChatID   uint   `gorm:"not null;index"`
	SenderID uint   `gorm:"not null"`
	Text     string // может быть пустым только при наличии вложения
	ImageURL string
	IsRead   bool `gorm:"default:false"`
	CreatedAt time.Time `gorm:"index"`

	// Связи
	Sender User `gorm:"foreignKey:SenderID"`
	Chat   Chat `gorm:"foreignKey:ChatID"`
}
