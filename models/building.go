package models

import (
	"time"

	"gorm.io/gorm"
)

// Building is a structure that belongs to exactly one project
type Building struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description" gorm:"default:null"`
	Floors      int       `json:"floors" gorm:"not null;default:1"`
	ProjectID   string    `json:"projectId" gorm:"type:uuid;not null;index"`
	CustomerID  *string   `json:"customerId" gorm:"type:uuid;index"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Facades []Facade `json:"facades,omitempty" gorm:"foreignKey:BuildingID;constraint:OnDelete:RESTRICT"`
}

// TableName sets the table name for Building model
func (Building) TableName() string {
	return "buildings"
}

// BeforeCreate assigns a UUID when none is set
func (b *Building) BeforeCreate(tx *gorm.DB) error {
	assignID(&b.ID)
	return nil
}
