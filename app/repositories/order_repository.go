package repositories

import (
	"github.com/shashiranjanraj/savannah/app/models"
	"gorm.io/gorm"
)

// OrderRepository handles database operations for Order.
type OrderRepository struct{}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

// Create persists a new order record.
func (r *OrderRepository) Create(tx *gorm.DB, order *models.Order) error {
	return tx.Create(order).Error
}

// FindByID looks up an order by primary key.
func (r *OrderRepository) FindByID(tx *gorm.DB, id uint) (models.Order, error) {
	var order models.Order
	err := tx.First(&order, id).Error
	return order, err
}

// List returns a page of all orders ordered by id.
func (r *OrderRepository) List(tx *gorm.DB, skip, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := tx.Order("id").Offset(skip).Limit(limit).Find(&orders).Error
	return orders, err
}

// ListByCustomer returns a page of one customer's orders ordered by id.
func (r *OrderRepository) ListByCustomer(tx *gorm.DB, customerID uint, skip, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := tx.Where("customer_id = ?", customerID).
		Order("id").Offset(skip).Limit(limit).Find(&orders).Error
	return orders, err
}

// CountByCustomer counts the orders owned by customerID.
func (r *OrderRepository) CountByCustomer(tx *gorm.DB, customerID uint) (int64, error) {
	var count int64
	err := tx.Model(&models.Order{}).
		Where("customer_id = ?", customerID).Count(&count).Error
	return count, err
}

// RecentByCustomer returns the newest orders for customerID, newest first.
func (r *OrderRepository) RecentByCustomer(tx *gorm.DB, customerID uint, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := tx.Where("customer_id = ?", customerID).
		Order("created_at desc, id desc").Limit(limit).Find(&orders).Error
	return orders, err
}

// Save persists changes to an existing order.
func (r *OrderRepository) Save(tx *gorm.DB, order *models.Order) error {
	return tx.Save(order).Error
}

// Delete hard-deletes the order row.
func (r *OrderRepository) Delete(tx *gorm.DB, order *models.Order) error {
	return tx.Unscoped().Delete(order).Error
}
