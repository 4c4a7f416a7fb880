package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sawtai/sawt/internal/domain"
)

// ErrSessionNotFound is returned when a session id has no row (or has
// expired and been deleted) — spec.md §3 "Sessions past expiry are deleted
// on next access and reconstructed empty".
var ErrSessionNotFound = errors.New("session not found")

// SessionStore is the durable per-session state store of spec.md §2.
type SessionStore struct {
	db     *DB
	expiry time.Duration
}

// NewSessionStore builds a SessionStore with the configured inactivity
// window used to stamp new/renewed sessions' expires_at.
func NewSessionStore(db *DB, expiry time.Duration) *SessionStore {
	return &SessionStore{db: db, expiry: expiry}
}

// sessionPayload is the JSON-serialized body of the `data` column; fsm_state
// is broken out into its own column purely so it can be indexed/queried,
// but the session struct itself is stored whole (spec.md §6 "Sessions use
// JSON-valued columns for cart, conversation_history, metadata").
type sessionPayload struct {
	CustomerName        string                    `json:"customer_name,omitempty"`
	CustomerPhone       string                    `json:"customer_phone,omitempty"`
	Location            domain.Location           `json:"location"`
	OrderType           domain.OrderType          `json:"order_type,omitempty"`
	Cart                domain.Cart               `json:"cart"`
	AppliedPromoCode    string                    `json:"applied_promo_code,omitempty"`
	ConversationHistory []domain.HistoryMessage   `json:"conversation_history"`
	ConversationSummary string                    `json:"conversation_summary,omitempty"`
	CameFromCheckout    bool                      `json:"came_from_checkout"`
	CameFromOrder       bool                      `json:"came_from_order"`
	Metadata            map[string]any            `json:"metadata,omitempty"`
	UserTurnCount       int                       `json:"user_turn_count"`
}

func toPayload(s *domain.Session) sessionPayload {
	return sessionPayload{
		CustomerName:        s.CustomerName,
		CustomerPhone:       s.CustomerPhone,
		Location:            s.Location,
		OrderType:           s.OrderType,
		Cart:                s.Cart,
		AppliedPromoCode:    s.AppliedPromoCode,
		ConversationHistory: s.ConversationHistory,
		ConversationSummary: s.ConversationSummary,
		CameFromCheckout:    s.CameFromCheckout,
		CameFromOrder:       s.CameFromOrder,
		Metadata:            s.Metadata,
		UserTurnCount:       s.UserTurnCount,
	}
}

func fromPayload(id string, state domain.FSMState, p sessionPayload, created, updated, expires time.Time) *domain.Session {
	return &domain.Session{
		ID:                  id,
		State:               state,
		CustomerName:        p.CustomerName,
		CustomerPhone:       p.CustomerPhone,
		Location:            p.Location,
		OrderType:           p.OrderType,
		Cart:                p.Cart,
		AppliedPromoCode:    p.AppliedPromoCode,
		ConversationHistory: p.ConversationHistory,
		ConversationSummary: p.ConversationSummary,
		CameFromCheckout:    p.CameFromCheckout,
		CameFromOrder:       p.CameFromOrder,
		Metadata:            p.Metadata,
		UserTurnCount:       p.UserTurnCount,
		CreatedAt:           created,
		UpdatedAt:           updated,
		ExpiresAt:           expires,
	}
}

// GetOrCreate loads the session by id, deleting and reconstructing it empty
// if it has expired, or creating a fresh INIT session if it never existed.
// If sessionID is empty, a new id is generated.
func (s *SessionStore) GetOrCreate(ctx context.Context, sessionID string) (*domain.Session, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	session, err := s.get(ctx, sessionID)
	if err != nil && !errors.Is(err, ErrSessionNotFound) {
		return nil, err
	}

	now := time.Now()
	if err == nil {
		if session.Expired(now) {
			if delErr := s.Delete(ctx, sessionID); delErr != nil {
				return nil, delErr
			}
		} else {
			return session, nil
		}
	}

	fresh := &domain.Session{
		ID:        sessionID,
		State:     domain.StateInit,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(s.expiry),
	}
	if err := s.Save(ctx, fresh); err != nil {
		return nil, err
	}
	return fresh, nil
}

func (s *SessionStore) get(ctx context.Context, sessionID string) (*domain.Session, error) {
	query := s.db.Rebind(`SELECT fsm_state, data, created_at, updated_at, expires_at FROM sessions WHERE id = ?`)

	var (
		state              string
		raw                []byte
		created, updated, expires time.Time
	)
	err := s.db.QueryRowContext(ctx, query, sessionID).Scan(&state, &raw, &created, &updated, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query session: %w", err)
	}

	var payload sessionPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("unmarshal session payload: %w", err)
	}

	return fromPayload(sessionID, domain.FSMState(state), payload, created, updated, expires), nil
}

// Save upserts the full session row, bumping updated_at and expires_at to
// now+expiry (sliding-window expiry on every turn).
func (s *SessionStore) Save(ctx context.Context, session *domain.Session) error {
	raw, err := json.Marshal(toPayload(session))
	if err != nil {
		return fmt.Errorf("marshal session payload: %w", err)
	}

	now := time.Now()
	session.UpdatedAt = now
	session.ExpiresAt = now.Add(s.expiry)
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}

	var query string
	switch s.db.Dialect {
	case DialectPostgres:
		query = `INSERT INTO sessions (id, fsm_state, data, created_at, updated_at, expires_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO UPDATE SET fsm_state = $2, data = $3, updated_at = $5, expires_at = $6`
	case DialectMySQL:
		query = `INSERT INTO sessions (id, fsm_state, data, created_at, updated_at, expires_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON DUPLICATE KEY UPDATE fsm_state = VALUES(fsm_state), data = VALUES(data), updated_at = VALUES(updated_at), expires_at = VALUES(expires_at)`
	default: // sqlite
		query = `INSERT INTO sessions (id, fsm_state, data, created_at, updated_at, expires_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET fsm_state = excluded.fsm_state, data = excluded.data, updated_at = excluded.updated_at, expires_at = excluded.expires_at`
	}

	_, err = s.db.ExecContext(ctx, query, session.ID, string(session.State), raw, session.CreatedAt, session.UpdatedAt, session.ExpiresAt)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

// Delete removes a session row.
func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	query := s.db.Rebind(`DELETE FROM sessions WHERE id = ?`)
	if _, err := s.db.ExecContext(ctx, query, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
