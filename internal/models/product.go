package models

import (
	"time"
)

// Статусы товара
const (
	ProductAvailable = "available"
	ProductRequested = "requested"
	ProductExchanged = "exchanged"
	ProductTaken     = "taken"
)

// Типы объявлений
const (
	TypeFree     = "free"
	TypeExchange = "exchange"
	TypeRental   = "rental"
)

type Product struct {
	ID          uint   `gorm:"primaryKey"`
	UserID      uint   `gorm:"not null;index"`
	Name        string `gorm:"not null"`
	Phone       string
	Title       string `gorm:"not null"`
	Description string
	Type        string `gorm:"not null;check:type IN ('free','exchange','rental')"`
	Status      string `gorm:"not null;default:'available'"`

	MainCategoryID   *uint
	SubcategoryID    *uint
	SubSubcategoryID *uint

	ImageURL   string
	IsApproved bool `gorm:"default:false"` // прошёл модерацию
	CreatedAt  time.Time

	// Связи
	User           User      `gorm:"foreignKey:UserID"`
	MainCategory   *Category `gorm:"foreignKey:MainCategoryID"`
	Subcategory    *Category `gorm:"foreignKey:SubcategoryID"`
	SubSubcategory *Category `gorm:"foreignKey:SubSubcategoryID"`
}
