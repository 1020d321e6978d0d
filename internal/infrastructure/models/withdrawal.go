package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WithdrawalRequest struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CreatorID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	RequestedAmount int64      `gorm:"not null"`
	PlatformFee     int64      `gorm:"not null"`
	TaxWithheld     int64      `gorm:"not null"`
	NetPayable      int64      `gorm:"not null"`
	Status          string     `gorm:"type:varchar(20);not null;index"`
	PayoutSnapshot  string     `gorm:"type:text;not null"`
	TransactionID   *string    `gorm:"type:varchar(255)"`
	RejectionReason *string    `gorm:"type:text"`
	ProcessedBy     *uuid.UUID `gorm:"type:uuid"`
	Version         int64      `gorm:"not null;default:1"`
	RequestedAt     time.Time  `gorm:"not null"`
	ApprovedAt      *time.Time
	CompletedAt     *time.Time
	RejectedAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

func (WithdrawalRequest) TableName() string { return "withdrawal_requests" }
