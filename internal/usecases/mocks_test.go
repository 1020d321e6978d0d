package usecases_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"promptmint.backend/internal/domain/entities"
	"promptmint.backend/internal/usecases"
)

// Mock UnitOfWork: runs the function in the caller's context so the
// repositories see the same mock state inside and outside the "transaction".
type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) Do(ctx context.Context, f func(context.Context) error) error {
	m.Called(ctx, f)
	return f(ctx)
}

// Mock CreatorRepository
type MockCreatorRepository struct {
	mock.Mock
}

func (m *MockCreatorRepository) Create(ctx context.Context, creator *entities.CreatorAccount) error {
	args := m.Called(ctx, creator)
	return args.Error(0)
}

func (m *MockCreatorRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.CreatorAccount, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.CreatorAccount), args.Error(1)
}

func (m *MockCreatorRepository) List(ctx context.Context, search string, limit, offset int) ([]*entities.CreatorAccount, int64, error) {
	args := m.Called(ctx, search, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.CreatorAccount), args.Get(1).(int64), args.Error(2)
}

func (m *MockCreatorRepository) Update(ctx context.Context, creator *entities.CreatorAccount, expectedVersion int64) error {
	args := m.Called(ctx, creator, expectedVersion)
	return args.Error(0)
}

// Mock TemplateRepository
type MockTemplateRepository struct {
	mock.Mock
}

func (m *MockTemplateRepository) Create(ctx context.Context, template *entities.Template) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

func (m *MockTemplateRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Template, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Template), args.Error(1)
}

func (m *MockTemplateRepository) ListByStatus(ctx context.Context, status entities.ApprovalStatus, limit, offset int) ([]*entities.Template, int64, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.Template), args.Get(1).(int64), args.Error(2)
}

func (m *MockTemplateRepository) CountByStatus(ctx context.Context, status entities.ApprovalStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTemplateRepository) Update(ctx context.Context, template *entities.Template, expectedVersion int64) error {
	args := m.Called(ctx, template, expectedVersion)
	return args.Error(0)
}

// Mock LedgerRepository
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) Append(ctx context.Context, entry *entities.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) GetByIdempotencyKey(ctx context.Context, key string) (*entities.LedgerEntry, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) Sum(ctx context.Context, creatorID uuid.UUID) (int64, error) {
	args := m.Called(ctx, creatorID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepository) SumKinds(ctx context.Context, creatorID uuid.UUID, kinds []entities.LedgerEntryKind) (int64, error) {
	args := m.Called(ctx, creatorID, kinds)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepository) List(ctx context.Context, creatorID uuid.UUID, from, to *time.Time, limit, offset int) ([]*entities.LedgerEntry, int64, error) {
	args := m.Called(ctx, creatorID, from, to, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.LedgerEntry), args.Get(1).(int64), args.Error(2)
}

func (m *MockLedgerRepository) GetSnapshot(ctx context.Context, creatorID uuid.UUID) (*entities.BalanceSnapshot, error) {
	args := m.Called(ctx, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.BalanceSnapshot), args.Error(1)
}

func (m *MockLedgerRepository) AdjustSnapshot(ctx context.Context, creatorID uuid.UUID, availableDelta, lifetimeDelta int64) error {
	args := m.Called(ctx, creatorID, availableDelta, lifetimeDelta)
	return args.Error(0)
}

func (m *MockLedgerRepository) ListSnapshots(ctx context.Context) ([]*entities.BalanceSnapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.BalanceSnapshot), args.Error(1)
}

// Mock WithdrawalRepository
type MockWithdrawalRepository struct {
	mock.Mock
}

func (m *MockWithdrawalRepository) Create(ctx context.Context, request *entities.WithdrawalRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockWithdrawalRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.WithdrawalRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.WithdrawalRequest), args.Error(1)
}

func (m *MockWithdrawalRepository) ListByStatus(ctx context.Context, status entities.WithdrawalStatus, limit, offset int) ([]*entities.WithdrawalRequest, int64, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.WithdrawalRequest), args.Get(1).(int64), args.Error(2)
}

func (m *MockWithdrawalRepository) CountByStatus(ctx context.Context, status entities.WithdrawalStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockWithdrawalRepository) SumOpenByCreator(ctx context.Context, creatorID uuid.UUID) (int64, error) {
	args := m.Called(ctx, creatorID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockWithdrawalRepository) Update(ctx context.Context, request *entities.WithdrawalRequest, expectedVersion int64) error {
	args := m.Called(ctx, request, expectedVersion)
	return args.Error(0)
}

// Mock ModerationRepository
type MockModerationRepository struct {
	mock.Mock
}

func (m *MockModerationRepository) CreateCase(ctx context.Context, c *entities.ModerationCase) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockModerationRepository) GetCaseByID(ctx context.Context, id uuid.UUID) (*entities.ModerationCase, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ModerationCase), args.Error(1)
}

func (m *MockModerationRepository) ListCasesByStatus(ctx context.Context, status entities.ModerationCaseStatus, limit, offset int) ([]*entities.ModerationCase, int64, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.ModerationCase), args.Get(1).(int64), args.Error(2)
}

func (m *MockModerationRepository) CountCasesByStatus(ctx context.Context, status entities.ModerationCaseStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockModerationRepository) HasBlockedCase(ctx context.Context, subjectType entities.ModerationSubjectType, subjectID uuid.UUID) (bool, error) {
	args := m.Called(ctx, subjectType, subjectID)
	return args.Bool(0), args.Error(1)
}

func (m *MockModerationRepository) UpdateCase(ctx context.Context, c *entities.ModerationCase, expectedVersion int64) error {
	args := m.Called(ctx, c, expectedVersion)
	return args.Error(0)
}

func (m *MockModerationRepository) CreateStrike(ctx context.Context, s *entities.Strike) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockModerationRepository) ListStrikes(ctx context.Context, userID uuid.UUID) ([]*entities.Strike, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Strike), args.Error(1)
}

func (m *MockModerationRepository) CountActiveStrikes(ctx context.Context, userID uuid.UUID, now time.Time) (int, error) {
	args := m.Called(ctx, userID, now)
	return args.Int(0), args.Error(1)
}

func (m *MockModerationRepository) CreateKeyword(ctx context.Context, k *entities.BannedKeyword) error {
	args := m.Called(ctx, k)
	return args.Error(0)
}

func (m *MockModerationRepository) ListKeywords(ctx context.Context) ([]*entities.BannedKeyword, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.BannedKeyword), args.Error(1)
}

// Mock Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, n usecases.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

// Mock PayoutGateway
type MockPayoutGateway struct {
	mock.Mock
}

func (m *MockPayoutGateway) InitiatePayout(ctx context.Context, request *entities.WithdrawalRequest) (string, error) {
	args := m.Called(ctx, request)
	return args.String(0), args.Error(1)
}
