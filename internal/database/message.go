package database

import (
	"errors"
	"time"

	"github.com/almateam/alma-market/internal/models"
	"gorm.io/gorm"
)

// SaveMessage сохраняет сообщение и обновляет активность чата.
// Отправитель обязан состоять в чате.
func (d *Database) SaveMessage(message *models.Message) error {
	ok, err := d.IsParticipant(message.ChatID, message.SenderID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotParticipant
	}

	return d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(message).Error; err != nil {
			return err
		}
		return tx.Model(&models.Chat{}).
			Where("id = ?", message.ChatID).
			Update("updated_at", time.Now()).Error
	})
}

// GetChatMessages возвращает всю историю чата в порядке отправки
func (d *Database) GetChatMessages(chatID uint) ([]models.Message, error) {
	var messages []models.Message
	err := d.db.
		Where("chat_id = ?", chatID).
		Order("created_at ASC").
		Order("id ASC").
		Preload("Sender").
		Find(&messages).Error
	return messages, err
}

// LastMessage возвращает последнее сообщение чата, nil если сообщений нет
func (d *Database) LastMessage(chatID uint) (*models.Message, error) {
	var message models.Message
	err := d.db.
		Where("chat_id = ?", chatID).
		Order("created_at DESC").
		Order("id DESC").
		Preload("Sender").
		First(&message).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &message, nil
}

// UnreadCount считает непрочитанные сообщения от собеседника
func (d *Database) UnreadCount(chatID, userID uint) (int64, error) {
	var count int64
	err := d.db.Model(&models.Message{}).
		Where("chat_id = ? AND is_read = ? AND sender_id != ?", chatID, false, userID).
		Count(&count).Error
	return count, err
}

// MarkMessagesRead помечает прочитанными все чужие сообщения в чате.
// Повторный вызов ничего не меняет.
func (d *Database) MarkMessagesRead(chatID, userID uint) error {
	return d.db.Model(&models.Message{}).
		Where("chat_id = ? AND is_read = ? AND sender_id != ?", chatID, false, userID).
		Update("is_read", true).Error
}
