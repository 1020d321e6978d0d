package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// WithdrawalStatus represents withdrawal request status
type WithdrawalStatus string

const (
	WithdrawalStatusPending    WithdrawalStatus = "PENDING"
	WithdrawalStatusProcessing WithdrawalStatus = "PROCESSING"
	WithdrawalStatusCompleted  WithdrawalStatus = "COMPLETED"
	WithdrawalStatusRejected   WithdrawalStatus = "REJECTED"
)

// IsTerminal reports whether the status admits no further transitions.
func (s WithdrawalStatus) IsTerminal() bool {
	return s == WithdrawalStatusCompleted || s == WithdrawalStatusRejected
}

// PayoutMethod is the creator's bank or UPI destination. It is snapshotted
// onto the request at creation and immutable thereafter.
type PayoutMethod struct {
	Type          string `json:"type" binding:"required,oneof=bank upi"`
	AccountName   string `json:"accountName,omitempty"`
	AccountNumber string `json:"accountNumber,omitempty"`
	IFSC          string `json:"ifsc,omitempty"`
	UpiID         string `json:"upiId,omitempty"`
}

// WithdrawalRequest represents a creator payout request. PlatformFee,
// TaxWithheld and NetPayable are computed once at request time and never
// recomputed, so historical payouts stay reproducible after rate changes.
type WithdrawalRequest struct {
	ID              uuid.UUID        `json:"id"`
	CreatorID       uuid.UUID        `json:"creatorId"`
	RequestedAmount int64            `json:"requestedAmount"`
	PlatformFee     int64            `json:"platformFee"`
	TaxWithheld     int64            `json:"taxWithheld"`
	NetPayable      int64            `json:"netPayable"`
	Status          WithdrawalStatus `json:"status"`
	PayoutSnapshot  string           `json:"payoutSnapshot"`
	TransactionID   null.String      `json:"transactionId,omitempty"`
	RejectionReason null.String      `json:"rejectionReason,omitempty"`
	ProcessedBy     *uuid.UUID       `json:"processedBy,omitempty"`
	Version         int64            `json:"version"`
	RequestedAt     time.Time        `json:"requestedAt"`
	ApprovedAt      *time.Time       `json:"approvedAt,omitempty"`
	CompletedAt     *time.Time       `json:"completedAt,omitempty"`
	RejectedAt      *time.Time       `json:"rejectedAt,omitempty"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

// RequestWithdrawalInput represents input for creating a withdrawal request
type RequestWithdrawalInput struct {
	CreatorID    uuid.UUID    `json:"creatorId" binding:"required"`
	Amount       int64        `json:"amount" binding:"required"`
	PayoutMethod PayoutMethod `json:"payoutMethod" binding:"required"`
}
