package models

import (
	"time"

	"gorm.io/gorm"
)

// Customer represents a client company that owns projects
type Customer struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Name      string    `json:"name" gorm:"not null"`
	Email     string    `json:"email" gorm:"default:null;index"`
	Phone     string    `json:"phone" gorm:"default:null"`
	Address   string    `json:"address" gorm:"default:null"`
	Status    string    `json:"status" gorm:"type:varchar(20);not null;default:'active'"` // active, inactive
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName sets the table name for Customer model
func (Customer) TableName() string {
	return "customers"
}

// BeforeCreate assigns a UUID when none is set
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	assignID(&c.ID)
	return nil
}
