package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DeletionLog records the terminal outcome of a cascading project delete
type DeletionLog struct {
	ID               string            `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ProjectID        string            `json:"projectId" gorm:"type:uuid;not null;index"`
	ProjectName      string            `json:"projectName" gorm:"default:null"`
	CustomerID       *string           `json:"customerId" gorm:"type:uuid;index"`
	ActorID          string            `json:"actorId" gorm:"default:null"`
	Outcome          string            `json:"outcome" gorm:"type:varchar(40);not null;index"`
	Stage            string            `json:"stage" gorm:"type:varchar(20);default:null"`
	RemovedPanels    int64             `json:"removedPanels" gorm:"not null;default:0"`
	RemovedBuildings int64             `json:"removedBuildings" gorm:"not null;default:0"`
	RemovedFacades   int64             `json:"removedFacades" gorm:"not null;default:0"`
	Details          datatypes.JSONMap `json:"details" gorm:"type:jsonb"`
	CreatedAt        time.Time         `json:"createdAt" gorm:"index"`
}

// TableName sets the table name for DeletionLog model
func (DeletionLog) TableName() string {
	return "deletion_logs"
}

// BeforeCreate assigns a UUID when none is set
func (d *DeletionLog) BeforeCreate(tx *gorm.DB) error {
	assignID(&d.ID)
	return nil
}
