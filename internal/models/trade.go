package models

import (
	"time"
)

// Действия заявки
const (
	ActionTake     = "take"
	ActionRent     = "rent"
	ActionExchange = "exchange"
)

// Статусы заявки
const (
	TradePending   = "pending"
	TradeAccepted  = "accepted"
	TradeRejected  = "rejected"
	TradeCompleted = "completed"
	TradeCancelled = "cancelled"
)

type TradeRequest struct {
	ID          uint   `gorm:"primaryKey"`
	ProductID   uint   `gorm:"not null;index"`
	RequesterID uint   `gorm:"not null;index"`
	OwnerID     uint   `gorm:"not null;index"`
	Action      string `gorm:"not null;check:action IN ('take','rent','exchange')"`
	Status      string `gorm:"not null;default:'pending'"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Связи
	Product   Product `gorm:"foreignKey:ProductID"`
	Requester User    `gorm:"foreignKey:RequesterID"`
	Owner     User    `gorm:"foreignKey:OwnerID"`
}
