package database

import (
	"github.com/almateam/alma-market/internal/models"
)

func (d *Database) CreateCategory(category *models.Category) error {
	return d.db.Create(category).Error
}

func (d *Database) GetCategory(id uint) (*models.Category, error) {
	var category models.Category
	if err := d.db.First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// GetMainCategories возвращает корневые категории
func (d *Database) GetMainCategories() ([]models.Category, error) {
	var categories []models.Category
	err := d.db.Where("parent_id IS NULL").Order("name ASC").Find(&categories).Error
	return categories, err
}

// GetSubcategories возвращает детей категории
func (d *Database) GetSubcategories(parentID uint) ([]models.Category, error) {
	var categories []models.Category
	err := d.db.Where("parent_id = ?", parentID).Order("name ASC").Find(&categories).Error
	return categories, err
}
