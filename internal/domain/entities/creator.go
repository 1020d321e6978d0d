package entities

import (
	"time"

	"github.com/google/uuid"
)

// CreatorStatus represents creator account status
type CreatorStatus string

const (
	CreatorStatusActive    CreatorStatus = "ACTIVE"
	CreatorStatusSuspended CreatorStatus = "SUSPENDED"
	CreatorStatusBanned    CreatorStatus = "BANNED"
)

// CreatorAccount represents a creator on the platform.
// Status and flags are mutated only through admin actions or automated
// moderation escalation, both using compare-and-swap on Version.
type CreatorAccount struct {
	ID           uuid.UUID     `json:"id"`
	DisplayName  string        `json:"displayName"`
	Email        string        `json:"email"`
	IsVerified   bool          `json:"isVerified"`
	WalletFrozen bool          `json:"walletFrozen"`
	Status       CreatorStatus `json:"status"`
	StrikeCount  int           `json:"strikeCount"`
	Version      int64         `json:"version"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// CreateCreatorInput represents input for registering a creator account
type CreateCreatorInput struct {
	DisplayName string `json:"displayName" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
}
