package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreatorAccount struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	DisplayName  string    `gorm:"type:varchar(255);not null"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	IsVerified   bool      `gorm:"not null;default:false"`
	WalletFrozen bool      `gorm:"not null;default:false"`
	Status       string    `gorm:"type:varchar(20);not null;index"`
	StrikeCount  int       `gorm:"not null;default:0"`
	Version      int64     `gorm:"not null;default:1"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (CreatorAccount) TableName() string { return "creator_accounts" }
