package models

import (
	"time"

	"gorm.io/gorm"
)

// Facade is one exterior face of a building
type Facade struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Name        string    `json:"name" gorm:"not null"`
	Orientation string    `json:"orientation" gorm:"type:varchar(10);default:null"` // N, NE, E, ...
	AreaSqm     float64   `json:"areaSqm" gorm:"type:numeric(10,2);not null;default:0"`
	BuildingID  string    `json:"buildingId" gorm:"type:uuid;not null;index"`
	CustomerID  *string   `json:"customerId" gorm:"type:uuid;index"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TableName sets the table name for Facade model
func (Facade) TableName() string {
	return "facades"
}

// BeforeCreate assigns a UUID when none is set
func (f *Facade) BeforeCreate(tx *gorm.DB) error {
	assignID(&f.ID)
	return nil
}
