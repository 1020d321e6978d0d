package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ModerationCase struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	SubjectType     string     `gorm:"type:varchar(20);not null;index:idx_cases_subject,priority:1"`
	SubjectID       uuid.UUID  `gorm:"type:uuid;not null;index:idx_cases_subject,priority:2"`
	AuthorID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	ScoreNSFW       float64    `gorm:"not null"`
	ScoreViolence   float64    `gorm:"not null"`
	ScoreHateSpeech float64    `gorm:"not null"`
	OverallRisk     string     `gorm:"type:varchar(20);not null"`
	Status          string     `gorm:"type:varchar(20);not null;index"`
	FlaggedReason   *string    `gorm:"type:text"`
	ReviewedBy      *uuid.UUID `gorm:"type:uuid"`
	ReviewedAt      *time.Time
	PreviousCaseID  *uuid.UUID `gorm:"type:uuid"`
	Version         int64      `gorm:"not null;default:1"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

func (ModerationCase) TableName() string { return "moderation_cases" }

type Strike struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index"`
	ViolationType string    `gorm:"type:varchar(100);not null"`
	IssuedBy      uuid.UUID `gorm:"type:uuid;not null"`
	IssuedAt      time.Time `gorm:"not null"`
	ExpiresAt     *time.Time
	CreatedAt     time.Time
}

func (Strike) TableName() string { return "strikes" }

type BannedKeyword struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Phrase    string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	Action    string    `gorm:"type:varchar(20);not null"`
	CreatedBy uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt time.Time
}

func (BannedKeyword) TableName() string { return "banned_keywords" }
