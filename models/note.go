package models

import (
	"time"

	"gorm.io/gorm"
)

// Note is a free-form dashboard note, optionally scoped to a customer
type Note struct {
	ID         string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Title      string    `json:"title" gorm:"not null"`
	Content    string    `json:"content" gorm:"type:text;default:null"`
	Pinned     bool      `json:"pinned" gorm:"not null;default:false"`
	AuthorID   *string   `json:"authorId" gorm:"type:uuid;index"`
	CustomerID *string   `json:"customerId" gorm:"type:uuid;index"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`

	Author *User `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:SET NULL"`
}

// TableName sets the table name for Note model
func (Note) TableName() string {
	return "notes"
}

// BeforeCreate assigns a UUID when none is set
func (n *Note) BeforeCreate(tx *gorm.DB) error {
	assignID(&n.ID)
	return nil
}
