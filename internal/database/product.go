package database

import (
	"github.com/almateam/alma-market/internal/models"
)

func (d *Database) CreateProduct(product *models.Product) error {
	return d.db.Create(product).Error
}

func (d *Database) GetProduct(id uint) (*models.Product, error) {
	var product models.Product
	if err := d.db.Preload("User").First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (d *Database) UpdateProduct(product *models.Product) error {
	return d.db.Save(product).Error
}

func (d *Database) DeleteProduct(id uint) error {
	return d.db.Delete(&models.Product{}, "id = ?", id).Error
}

// GetApprovedProducts возвращает одобренные товары чужих пользователей,
// опционально отфильтрованные по категории любого уровня
func (d *Database) GetApprovedProducts(excludeUserID uint, categoryID *uint) ([]models.Product, error) {
	var products []models.Product

	query := d.db.
		Where("is_approved = ?", true).
		Where("user_id != ?", excludeUserID)

	if categoryID != nil {
		query = query.Where(
			"main_category_id = ? OR subcategory_id = ? OR sub_subcategory_id = ?",
			*categoryID, *categoryID, *categoryID,
		)
	}

	err := query.
		Preload("User").
		Order("created_at DESC").
		Find(&products).Error
	return products, err
}

// GetUserProducts возвращает объявления пользователя
func (d *Database) GetUserProducts(userID uint) ([]models.Product, error) {
	var products []models.Product
	err := d.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&products).Error
	return products, err
}

// GetRentableProducts возвращает одобренные товары для аренды без активной аренды
func (d *Database) GetRentableProducts(excludeUserID uint) ([]models.Product, error) {
	var products []models.Product
	err := d.db.
		Where("type = ? AND status = ? AND is_approved = ?",
			models.TypeRental, models.ProductAvailable, true).
		Where("user_id != ?", excludeUserID).
		Where("id NOT IN (?)",
			d.db.Model(&models.RentItem{}).
				Select("product_id").
				Where("status = ?", models.RentActive),
		).
		Preload("User").
		Order("created_at DESC").
		Find(&products).Error
	return products, err
}
