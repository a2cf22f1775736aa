// Package repositories holds the data access layer. Every method takes the
// *gorm.DB it should run on, so services can hand in the transaction that
// scopes the whole workflow call.
package repositories

import (
	"github.com/shashiranjanraj/savannah/app/models"
	"gorm.io/gorm"
)

// CustomerRepository handles database operations for Customer.
type CustomerRepository struct{}

func NewCustomerRepository() *CustomerRepository {
	return &CustomerRepository{}
}

// Create persists a new customer record.
func (r *CustomerRepository) Create(tx *gorm.DB, customer *models.Customer) error {
	return tx.Create(customer).Error
}

// FindByID looks up a customer by primary key.
func (r *CustomerRepository) FindByID(tx *gorm.DB, id uint) (models.Customer, error) {
	var customer models.Customer
	err := tx.First(&customer, id).Error
	return customer, err
}

// FindBySubject looks up the customer linked to an identity subject.
func (r *CustomerRepository) FindBySubject(tx *gorm.DB, subject string) (models.Customer, error) {
	var customer models.Customer
	err := tx.Where("subject_ref = ?", subject).First(&customer).Error
	return customer, err
}

// List returns a page of customers ordered by id.
func (r *CustomerRepository) List(tx *gorm.DB, skip, limit int) ([]models.Customer, error) {
	var customers []models.Customer
	err := tx.Order("id").Offset(skip).Limit(limit).Find(&customers).Error
	return customers, err
}

// Save persists changes to an existing customer.
func (r *CustomerRepository) Save(tx *gorm.DB, customer *models.Customer) error {
	return tx.Save(customer).Error
}

// Delete hard-deletes the customer row. The FK on orders makes the store
// reject this while orders still reference the customer.
func (r *CustomerRepository) Delete(tx *gorm.DB, customer *models.Customer) error {
	return tx.Unscoped().Delete(customer).Error
}
