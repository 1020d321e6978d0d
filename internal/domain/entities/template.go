package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// ApprovalStatus represents a template's approval lifecycle state
type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "PENDING"
	ApprovalStatusApproved ApprovalStatus = "APPROVED"
	ApprovalStatusRejected ApprovalStatus = "REJECTED"
)

// Template represents a creator-submitted image-generation template.
// REJECTED is terminal for a submission; a resubmission is a new record
// pointing back via PreviousTemplateID. UseCount/LikeCount are maintained
// by usage events, never written by admin actions.
type Template struct {
	ID                 uuid.UUID      `json:"id"`
	CreatorID          uuid.UUID      `json:"creatorId"`
	Title              string         `json:"title"`
	Prompt             string         `json:"prompt"`
	PreviewURL         string         `json:"previewUrl,omitempty"`
	ApprovalStatus     ApprovalStatus `json:"approvalStatus"`
	IsPaused           bool           `json:"isPaused"`
	IsFeatured         bool           `json:"isFeatured"`
	RejectionReason    null.String    `json:"rejectionReason,omitempty"`
	PreviousTemplateID *uuid.UUID     `json:"previousTemplateId,omitempty"`
	UseCount           int64          `json:"useCount"`
	LikeCount          int64          `json:"likeCount"`
	Version            int64          `json:"version"`
	CreatedAt          time.Time      `json:"createdAt"`
	UpdatedAt          time.Time      `json:"updatedAt"`
}

// CanAccrue reports whether usage of this template may produce earnings.
func (t *Template) CanAccrue() bool {
	return t.ApprovalStatus == ApprovalStatusApproved && !t.IsPaused
}

// SubmitTemplateInput represents input for submitting a template
type SubmitTemplateInput struct {
	CreatorID  uuid.UUID `json:"creatorId" binding:"required"`
	Title      string    `json:"title" binding:"required"`
	Prompt     string    `json:"prompt" binding:"required"`
	PreviewURL string    `json:"previewUrl"`
}
