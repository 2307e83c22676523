package models

import (
	"time"
)

// Chat — переписка между двумя пользователями, опционально привязана к товару
type Chat struct {
	ID        uint  `gorm:"primaryKey"`
	ProductID *uint `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time

	// Связи
	Participants []User    `gorm:"many2many:chat_participants"`
	Messages     []Message `gorm:"foreignKey:ChatID"`
	Product      *Product  `gorm:"foreignKey:ProductID"`
}

// OtherParticipant возвращает собеседника для данного пользователя
func (c *Chat) OtherParticipant(userID uint) *User {
	for i := range c.Participants {
		if c.Participants[i].ID != userID {
			return &c.Participants[i]
		}
	}
	return nil
}

// HasParticipant проверяет, состоит ли пользователь в чате
func (c *Chat) HasParticipant(userID uint) bool {
	for i := range c.Participants {
		if c.Participants[i].ID == userID {
			return true
		}
	}
	return false
}
