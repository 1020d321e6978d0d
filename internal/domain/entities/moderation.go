package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// ModerationSubjectType represents the kind of content under review
type ModerationSubjectType string

const (
	SubjectTypeTemplate ModerationSubjectType = "TEMPLATE"
	SubjectTypePrompt   ModerationSubjectType = "PROMPT"
	SubjectTypeImage    ModerationSubjectType = "IMAGE"
)

// RiskLevel represents the derived overall risk band
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "LOW"
	RiskLevelMedium   RiskLevel = "MEDIUM"
	RiskLevelHigh     RiskLevel = "HIGH"
	RiskLevelCritical RiskLevel = "CRITICAL"
)

// ModerationCaseStatus represents moderation case status
type ModerationCaseStatus string

const (
	CaseStatusPending  ModerationCaseStatus = "PENDING"
	CaseStatusReviewed ModerationCaseStatus = "REVIEWED"
	CaseStatusApproved ModerationCaseStatus = "APPROVED"
	CaseStatusBlocked  ModerationCaseStatus = "BLOCKED"
)

// IsTerminal reports whether a human decision has already been applied.
func (s ModerationCaseStatus) IsTerminal() bool {
	return s != CaseStatusPending
}

// KeywordAction is the policy attached to a banned keyword match
type KeywordAction string

const (
	KeywordActionAutoBlock KeywordAction = "AUTO_BLOCK"
	KeywordActionFlag      KeywordAction = "FLAG"
	KeywordActionWarning   KeywordAction = "WARNING"
)

// ModerationScores holds per-category classifier scores in [0,1]
type ModerationScores struct {
	NSFW       float64 `json:"nsfw"`
	Violence   float64 `json:"violence"`
	HateSpeech float64 `json:"hateSpeech"`
}

// Max returns the highest category score.
func (s ModerationScores) Max() float64 {
	m := s.NSFW
	if s.Violence > m {
		m = s.Violence
	}
	if s.HateSpeech > m {
		m = s.HateSpeech
	}
	return m
}

// ModerationCase is a scored review unit for a piece of submitted content,
// distinct from the content's approval record. Terminal decisions are not
// reversible here; an appeal creates a new case via PreviousCaseID.
type ModerationCase struct {
	ID             uuid.UUID             `json:"id"`
	SubjectType    ModerationSubjectType `json:"subjectType"`
	SubjectID      uuid.UUID             `json:"subjectId"`
	AuthorID       uuid.UUID             `json:"authorId"`
	Scores         ModerationScores      `json:"scores"`
	OverallRisk    RiskLevel             `json:"overallRisk"`
	Status         ModerationCaseStatus  `json:"status"`
	FlaggedReason  null.String           `json:"flaggedReason,omitempty"`
	ReviewedBy     *uuid.UUID            `json:"reviewedBy,omitempty"`
	ReviewedAt     *time.Time            `json:"reviewedAt,omitempty"`
	PreviousCaseID *uuid.UUID            `json:"previousCaseId,omitempty"`
	Version        int64                 `json:"version"`
	CreatedAt      time.Time             `json:"createdAt"`
	UpdatedAt      time.Time             `json:"updatedAt"`
}

// Strike is a recorded violation against a creator. Expired strikes do not
// count toward status escalation.
type Strike struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"userId"`
	ViolationType string     `json:"violationType"`
	IssuedBy      uuid.UUID  `json:"issuedBy"`
	IssuedAt      time.Time  `json:"issuedAt"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
}

// BannedKeyword is a data-driven moderation rule: a phrase plus the action
// taken when submitted content matches it.
type BannedKeyword struct {
	ID        uuid.UUID     `json:"id"`
	Phrase    string        `json:"phrase"`
	Action    KeywordAction `json:"action"`
	CreatedBy uuid.UUID     `json:"createdBy"`
	CreatedAt time.Time     `json:"createdAt"`
}

// EvaluateInput represents a content submission handed to the moderation engine
type EvaluateInput struct {
	SubjectType ModerationSubjectType `json:"subjectType" binding:"required"`
	SubjectID   uuid.UUID             `json:"subjectId" binding:"required"`
	AuthorID    uuid.UUID             `json:"authorId" binding:"required"`
	Content     string                `json:"content"`
	Scores      ModerationScores      `json:"scores"`
}

// ReviewDecision is a human decision applied to a pending case
type ReviewDecision string

const (
	DecisionApprove ReviewDecision = "APPROVED"
	DecisionBlock   ReviewDecision = "BLOCKED"
	DecisionReview  ReviewDecision = "REVIEWED"
)

// IssueStrikeInput represents input for issuing a strike
type IssueStrikeInput struct {
	UserID        uuid.UUID  `json:"userId" binding:"required"`
	ViolationType string     `json:"violationType" binding:"required"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
}

// AddKeywordInput represents input for adding a banned keyword
type AddKeywordInput struct {
	Phrase string        `json:"phrase" binding:"required"`
	Action KeywordAction `json:"action" binding:"required"`
}
