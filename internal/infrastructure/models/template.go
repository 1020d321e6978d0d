package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Template struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CreatorID          uuid.UUID  `gorm:"type:uuid;not null;index"`
	Title              string     `gorm:"type:varchar(255);not null"`
	Prompt             string     `gorm:"type:text;not null"`
	PreviewURL         string     `gorm:"type:varchar(512)"`
	ApprovalStatus     string     `gorm:"type:varchar(20);not null;index"`
	IsPaused           bool       `gorm:"not null;default:false"`
	IsFeatured         bool       `gorm:"not null;default:false"`
	RejectionReason    *string    `gorm:"type:text"`
	PreviousTemplateID *uuid.UUID `gorm:"type:uuid"`
	UseCount           int64      `gorm:"not null;default:0"`
	LikeCount          int64      `gorm:"not null;default:0"`
	Version            int64      `gorm:"not null;default:1"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
	DeletedAt          gorm.DeletedAt `gorm:"index"`
}

func (Template) TableName() string { return "templates" }
