package seeders

import (
	"errors"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/savannah/app/models"
	"github.com/shashiranjanraj/savannah/pkg/refcode"
)

func init() {
	Register("customers", SeedCustomers)
	Register("orders", SeedOrders)
}

// SeedCustomers inserts a handful of demo customers. Idempotent: skips
// subjects that already exist.
func SeedCustomers(db *gorm.DB) error {
	demo := []struct {
		subject string
		name    string
		phone   string
	}{
		{"demo-subject-amina", "Amina Otieno", "+254711000001"},
		{"demo-subject-brian", "Brian Kiprotich", "+254711000002"},
		{"demo-subject-clara", "Clara Mwangi", "+254711000003"},
	}

	for _, d := range demo {
		var existing models.Customer
		err := db.Where("subject_ref = ?", d.subject).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		customer := models.Customer{
			SubjectRef: d.subject,
			Name:       d.name,
			Phone:      d.phone,
			Code:       refcode.Generate(d.subject),
		}
		if err := db.Create(&customer).Error; err != nil {
			return err
		}
	}
	return nil
}

// SeedOrders gives the first demo customer a few orders in different
// statuses.
func SeedOrders(db *gorm.DB) error {
	var customer models.Customer
	if err := db.Where("subject_ref = ?", "demo-subject-amina").First(&customer).Error; err != nil {
		return err
	}

	var count int64
	if err := db.Model(&models.Order{}).Where("customer_id = ?", customer.ID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	// Amount holds the line total (unit price times quantity).
	orders := []models.Order{
		{CustomerID: customer.ID, Item: "Notebook", Amount: 22.50, Quantity: 3, Status: models.StatusDelivered},
		{CustomerID: customer.ID, Item: "Desk Lamp", Amount: 24.00, Quantity: 1, Status: models.StatusActive},
		{CustomerID: customer.ID, Item: "Pen", Amount: 12.50, Quantity: 10, Status: models.StatusPending},
	}
	return db.Create(&orders).Error
}
