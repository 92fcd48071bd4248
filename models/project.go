package models

import (
	"time"

	"gorm.io/gorm"
)

// ProjectStatus represents the lifecycle stage of a construction project
type ProjectStatus string

const (
	ProjectStatusPlanned    ProjectStatus = "planned"
	ProjectStatusInProgress ProjectStatus = "in_progress"
	ProjectStatusOnHold     ProjectStatus = "on_hold"
	ProjectStatusCompleted  ProjectStatus = "completed"
	ProjectStatusCancelled  ProjectStatus = "cancelled"
)

// ProjectStatuses lists every accepted project status
var ProjectStatuses = []ProjectStatus{
	ProjectStatusPlanned,
	ProjectStatusInProgress,
	ProjectStatusOnHold,
	ProjectStatusCompleted,
	ProjectStatusCancelled,
}

// Valid reports whether s is a known project status
func (s ProjectStatus) Valid() bool {
	for _, known := range ProjectStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Project represents a construction project, optionally owned by a customer
type Project struct {
	ID              string        `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Name            string        `json:"name" gorm:"not null"`
	Location        string        `json:"location" gorm:"default:null"`
	StartDate       *time.Time    `json:"startDate" gorm:"type:date"`
	EndDate         *time.Time    `json:"endDate" gorm:"type:date"`
	Status          ProjectStatus `json:"status" gorm:"type:varchar(20);not null;default:'planned'"`
	Cost            float64       `json:"cost" gorm:"type:numeric(14,2);not null;default:0"`
	EstimatedPanels int           `json:"estimatedPanels" gorm:"not null;default:0"`
	CustomerID      *string       `json:"customerId" gorm:"type:uuid;index"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`

	// Relations
	Customer  *Customer  `json:"customer,omitempty" gorm:"foreignKey:CustomerID;constraint:OnDelete:RESTRICT"`
	Buildings []Building `json:"buildings,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:RESTRICT"`
	Panels    []Panel    `json:"panels,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:RESTRICT"`
}

// TableName sets the table name for Project model
func (Project) TableName() string {
	return "projects"
}

// BeforeCreate assigns a UUID so callers know the id before the insert returns
func (p *Project) BeforeCreate(tx *gorm.DB) error {
	assignID(&p.ID)
	return nil
}

// Tenant returns the owning customer id, or "" when the project has none
func (p Project) Tenant() string {
	return deref(p.CustomerID)
}
