package models

import "gorm.io/gorm"

// Customer is an account that places orders. SubjectRef ties the row to the
// identity provider's caller and is unique: one customer per subject. Code
// is generated at creation; neither field ever changes after insert.
type Customer struct {
	gorm.Model
	SubjectRef string `gorm:"uniqueIndex;size:255;not null" json:"subject_ref"`
	Name       string `gorm:"size:100;not null" json:"name"`
	Code       string `gorm:"uniqueIndex;size:100;not null" json:"code"`
	Phone      string `gorm:"size:20;not null" json:"phone_number"`

	// No cascade: the store rejects deleting a customer that still has
	// orders.
	Orders []Order `json:"orders,omitempty"`
}
