package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
)

// Well-known state keys. Each holds one JSON document.
const (
	KeyChatConversations = "chat_conversations"
	KeyPracticalCase     = "practical_case"
	KeyCaseAnswers       = "practical_case_answers"
	KeyMindMap           = "mindmap"
	KeyOutline           = "outline"
	KeySummary           = "summary"
	KeyComparator        = "comparator"
	KeyStudyPlan         = "study_plan"
)

// StateRepo persists UI and session state as JSON documents under string
// keys. Reads and writes are soft-fail: corruption or storage errors are
// logged and treated as absent state, never as a crash. Losing
// a saved screen state is always preferable to losing the session.
type StateRepo interface {
	// Load unmarshals the value at key into v. Returns false when the key
	// is absent or the stored value cannot be decoded.
	Load(ctx context.Context, key string, v any) bool

	// Save marshals v and stores it at key, best effort.
	Save(ctx context.Context, key string, v any)

	// Delete removes the value at key, best effort.
	Delete(ctx context.Context, key string)
}

type stateRepo struct {
	db *sql.DB
}

func (r *stateRepo) Load(ctx context.Context, key string, v any) bool {
	var raw string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM app_state WHERE key = ?`, key,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false
	}
	if err != nil {
		warnState("load", key, err)
		return false
	}

	if err := json.Unmarshal([]byte(raw), v); err != nil {
		warnState("decode", key, err)
		return false
	}
	return true
}

func (r *stateRepo) Save(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		warnState("encode", key, err)
		return
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO app_state (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(raw), time.Now().UTC(),
	)
	if err != nil {
		warnState("save", key, err)
	}
}

func (r *stateRepo) Delete(ctx context.Context, key string) {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM app_state WHERE key = ?`, key); err != nil {
		warnState("delete", key, err)
	}
}

func warnState(op, key string, err error) {
	zap.L().Warn("state "+op+" failed", zap.String("key", key), zap.Error(err))
}
