package database

import (
	"errors"
	"time"

	"github.com/almateam/alma-market/internal/models"
	"gorm.io/gorm"
)

func (d *Database) CreateTradeRequest(request *models.TradeRequest) error {
	return d.db.Create(request).Error
}

func (d *Database) GetTradeRequest(id uint) (*models.TradeRequest, error) {
	var request models.TradeRequest
	if err := d.db.Preload("Product").First(&request, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (d *Database) UpdateTradeRequest(request *models.TradeRequest) error {
	return d.db.Save(request).Error
}

// GetIncomingRequests возвращает заявки на товары пользователя
func (d *Database) GetIncomingRequests(ownerID uint) ([]models.TradeRequest, error) {
	var requests []models.TradeRequest
	err := d.db.
		Where("owner_id = ?", ownerID).
		Preload("Product").
		Preload("Requester").
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

// GetOutgoingRequests возвращает заявки, отправленные пользователем
func (d *Database) GetOutgoingRequests(requesterID uint) ([]models.TradeRequest, error) {
	var requests []models.TradeRequest
	err := d.db.
		Where("requester_id = ?", requesterID).
		Preload("Product").
		Preload("Owner").
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

// GetOrCreateTradeRequest гарантирует наличие заявки с данным действием.
// Отклонённую или отменённую заявку возвращает обратно в pending.
func (d *Database) GetOrCreateTradeRequest(productID, requesterID, ownerID uint, action string) (*models.TradeRequest, error) {
	var request models.TradeRequest
	err := d.db.
		Where("product_id = ? AND requester_id = ? AND owner_id = ? AND action = ?",
			productID, requesterID, ownerID, action).
		First(&request).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		request = models.TradeRequest{
			ProductID:   productID,
			RequesterID: requesterID,
			OwnerID:     ownerID,
			Action:      action,
			Status:      models.TradePending,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}
		if err := d.db.Create(&request).Error; err != nil {
			return nil, err
		}
		return &request, nil
	}
	if err != nil {
		return nil, err
	}

	if request.Status == models.TradeRejected || request.Status == models.TradeCancelled {
		request.Status = models.TradePending
		if err := d.db.Save(&request).Error; err != nil {
			return nil, err
		}
	}

	return &request, nil
}
