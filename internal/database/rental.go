package database

import (
	"errors"

	"github.com/almateam/alma-market/internal/models"
	"gorm.io/gorm"
)

func (d *Database) CreateRental(rental *models.RentItem) error {
	return d.db.Create(rental).Error
}

func (d *Database) GetRental(id uint) (*models.RentItem, error) {
	var rental models.RentItem
	err := d.db.
		Preload("Product").
		Preload("Renter").
		Preload("Owner").
		First(&rental, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &rental, nil
}

func (d *Database) UpdateRental(rental *models.RentItem) error {
	return d.db.Save(rental).Error
}

// FindActiveRental ищет незавершённую аренду товара данным пользователем
func (d *Database) FindActiveRental(productID, renterID uint) (*models.RentItem, error) {
	var rental models.RentItem
	err := d.db.
		Where("product_id = ? AND renter_id = ? AND status = ?",
			productID, renterID, models.RentActive).
		First(&rental).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rental, nil
}

// GetRentedItems возвращает аренды, где пользователь — арендатор
func (d *Database) GetRentedItems(renterID uint, status string) ([]models.RentItem, error) {
	query := d.db.Where("renter_id = ?", renterID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var rentals []models.RentItem
	err := query.
		Preload("Product").
		Preload("Owner").
		Order("created_at DESC").
		Find(&rentals).Error
	return rentals, err
}

// GetOwnedRentals возвращает аренды товаров пользователя
func (d *Database) GetOwnedRentals(ownerID uint, status string) ([]models.RentItem, error) {
	query := d.db.Where("owner_id = ?", ownerID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var rentals []models.RentItem
	err := query.
		Preload("Product").
		Preload("Renter").
		Order("created_at DESC").
		Find(&rentals).Error
	return rentals, err
}
