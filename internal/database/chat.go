package database

import (
	"errors"
	"time"

	"github.com/almateam/alma-market/internal/models"
	"gorm.io/gorm"
)

var ErrNotParticipant = errors.New("sender is not a chat participant")

func (d *Database) GetChat(id uint) (*models.Chat, error) {
	var chat models.Chat
	if err := d.db.Preload("Participants").First(&chat, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &chat, nil
}

// IsParticipant проверяет членство пользователя в чате
func (d *Database) IsParticipant(chatID, userID uint) (bool, error) {
	var count int64
	err := d.db.Table("chat_participants").
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		Count(&count).Error
	return count > 0, err
}

// GetUserChats возвращает чаты пользователя, сначала с самой свежей перепиской
func (d *Database) GetUserChats(userID uint) ([]models.Chat, error) {
	var chats []models.Chat
	err := d.db.
		Joins("JOIN chat_participants cp ON cp.chat_id = chats.id").
		Where("cp.user_id = ?", userID).
		Preload("Participants").
		Order("(SELECT MAX(m.created_at) FROM messages m WHERE m.chat_id = chats.id) DESC NULLS LAST").
		Order("chats.updated_at DESC").
		Find(&chats).Error
	if err != nil {
		return nil, err
	}
	return chats, nil
}

// GetOrCreateChat ищет чат между двумя пользователями (с учётом товара, если задан)
// и создаёт новый, если такого ещё нет
func (d *Database) GetOrCreateChat(userID, otherID uint, productID *uint) (*models.Chat, error) {
	var chat models.Chat

	query := d.db.
		Joins("JOIN chat_participants cp1 ON cp1.chat_id = chats.id").
		Joins("JOIN chat_participants cp2 ON cp2.chat_id = chats.id").
		Where("cp1.user_id = ? AND cp2.user_id = ?", userID, otherID)
	if productID != nil {
		query = query.Where("chats.product_id = ?", *productID)
	}

	err := query.Preload("Participants").First(&chat).Error
	if err == nil {
		return &chat, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var user, other models.User
	if err := d.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	if err := d.db.First(&other, "id = ?", otherID).Error; err != nil {
		return nil, err
	}

	chat = models.Chat{
		ProductID: productID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	err = d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&chat).Error; err != nil {
			return err
		}
		return tx.Model(&chat).Association("Participants").Append(&user, &other)
	})
	if err != nil {
		return nil, err
	}

	return &chat, nil
}

// TouchChat обновляет время последней активности чата
func (d *Database) TouchChat(chatID uint) error {
	return d.db.Model(&models.Chat{}).Where("id = ?", chatID).Update("updated_at", time.Now()).Error
}

// DeleteChat удаляет чат вместе с сообщениями
func (d *Database) DeleteChat(id uint) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Message{}, "chat_id = ?", id).Error; err != nil {
			return err
		}

		var chat models.Chat
		if err := tx.First(&chat, "id = ?", id).Error; err != nil {
			return err
		}

		if err := tx.Model(&chat).Association("Participants").Clear(); err != nil {
			return err
		}

		return tx.Delete(&chat).Error
	})
}
