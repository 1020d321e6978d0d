package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createCreatorTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE creator_accounts (
		id TEXT PRIMARY KEY,
		display_name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		is_verified BOOLEAN NOT NULL DEFAULT FALSE,
		wallet_frozen BOOLEAN NOT NULL DEFAULT FALSE,
		status TEXT NOT NULL,
		strike_count INTEGER NOT NULL DEFAULT 0,
		version INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createTemplateTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE templates (
		id TEXT PRIMARY KEY,
		creator_id TEXT NOT NULL,
		title TEXT NOT NULL,
		prompt TEXT NOT NULL,
		preview_url TEXT,
		approval_status TEXT NOT NULL,
		is_paused BOOLEAN NOT NULL DEFAULT FALSE,
		is_featured BOOLEAN NOT NULL DEFAULT FALSE,
		rejection_reason TEXT,
		previous_template_id TEXT,
		use_count INTEGER NOT NULL DEFAULT 0,
		like_count INTEGER NOT NULL DEFAULT 0,
		version INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createLedgerTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE ledger_entries (
		id TEXT PRIMARY KEY,
		creator_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		amount INTEGER NOT NULL,
		related_template_id TEXT,
		related_withdrawal_id TEXT,
		idempotency_key TEXT UNIQUE,
		sequence INTEGER NOT NULL,
		created_at DATETIME,
		UNIQUE (creator_id, sequence)
	);`)
	mustExec(t, db, `CREATE TABLE creator_balances (
		creator_id TEXT PRIMARY KEY,
		lifetime INTEGER NOT NULL DEFAULT 0,
		available INTEGER NOT NULL DEFAULT 0,
		updated_at DATETIME
	);`)
}

func createWithdrawalTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE withdrawal_requests (
		id TEXT PRIMARY KEY,
		creator_id TEXT NOT NULL,
		requested_amount INTEGER NOT NULL,
		platform_fee INTEGER NOT NULL,
		tax_withheld INTEGER NOT NULL,
		net_payable INTEGER NOT NULL,
		status TEXT NOT NULL,
		payout_snapshot TEXT NOT NULL,
		transaction_id TEXT,
		rejection_reason TEXT,
		processed_by TEXT,
		version INTEGER NOT NULL DEFAULT 1,
		requested_at DATETIME NOT NULL,
		approved_at DATETIME,
		completed_at DATETIME,
		rejected_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createModerationTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE moderation_cases (
		id TEXT PRIMARY KEY,
		subject_type TEXT NOT NULL,
		subject_id TEXT NOT NULL,
		author_id TEXT NOT NULL,
		score_nsfw REAL NOT NULL,
		score_violence REAL NOT NULL,
		score_hate_speech REAL NOT NULL,
		overall_risk TEXT NOT NULL,
		status TEXT NOT NULL,
		flagged_reason TEXT,
		reviewed_by TEXT,
		reviewed_at DATETIME,
		previous_case_id TEXT,
		version INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE strikes (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		violation_type TEXT NOT NULL,
		issued_by TEXT NOT NULL,
		issued_at DATETIME NOT NULL,
		expires_at DATETIME,
		created_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE banned_keywords (
		id TEXT PRIMARY KEY,
		phrase TEXT NOT NULL UNIQUE,
		action TEXT NOT NULL,
		created_by TEXT NOT NULL,
		created_at DATETIME
	);`)
}
