package models

import (
	"time"
)

// Статусы аренды
const (
	RentActive    = "rented"
	RentReturned  = "returned"
	RentCancelled = "cancelled"
)

// RentItem — аренда товара
type RentItem struct {
	ID                 uint   `gorm:"primaryKey"`
	ProductID          uint   `gorm:"not null;index"`
	RenterID           uint   `gorm:"not null;index"`
	OwnerID            uint   `gorm:"not null;index"`
	Status             string `gorm:"not null;default:'rented'"`
	StartDate          time.Time
	EndDate            *time.Time
	ExpectedReturnDate *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time

	// Связи
	Product Product `gorm:"foreignKey:ProductID"`
	Renter  User    `gorm:"foreignKey:RenterID"`
	Owner   User    `gorm:"foreignKey:OwnerID"`
}
