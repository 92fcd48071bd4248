package models

import (
	"time"

	"gorm.io/gorm"
)

// Panel is a prefabricated facade panel tracked against a project
type Panel struct {
	ID         string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Reference  string    `json:"reference" gorm:"not null"`
	PanelType  string    `json:"panelType" gorm:"default:null"`
	WidthMM    int       `json:"widthMm" gorm:"column:width_mm;not null;default:0"`
	HeightMM   int       `json:"heightMm" gorm:"column:height_mm;not null;default:0"`
	Status     string    `json:"status" gorm:"type:varchar(20);not null;default:'designed'"` // designed, produced, installed
	ProjectID  string    `json:"projectId" gorm:"type:uuid;not null;index"`
	CustomerID *string   `json:"customerId" gorm:"type:uuid;index"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// TableName sets the table name for Panel model
func (Panel) TableName() string {
	return "panels"
}

// BeforeCreate assigns a UUID when none is set
func (p *Panel) BeforeCreate(tx *gorm.DB) error {
	assignID(&p.ID)
	return nil
}
