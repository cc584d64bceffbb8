package server

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Timestamps are stored as RFC 3339 text; libSQL has no native time type.
const sqliteTimeLayout = "2006-01-02T15:04:05.000Z"

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) RecordRound(ctx context.Context, r Round) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO rounds (group_id, feature, engine, card_id, card_name, winner, started_at, ended_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, r.GroupID, r.Feature, r.Engine, r.CardID, r.CardName, r.Winner,
		r.StartedAt.UTC().Format(sqliteTimeLayout),
		r.EndedAt.UTC().Format(sqliteTimeLayout))
	return err
}

func (s *SQLiteStore) RecentRounds(ctx context.Context, groupID string, limit int) ([]Round, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, group_id, feature, engine, card_id, card_name, winner, started_at, ended_at
		FROM rounds
		WHERE group_id = ?
		ORDER BY started_at DESC, id DESC
		LIMIT ?
	`, groupID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Round{}
	for rows.Next() {
		var r Round
		var started, ended string
		if err := rows.Scan(&r.ID, &r.GroupID, &r.Feature, &r.Engine, &r.CardID,
			&r.CardName, &r.Winner, &started, &ended); err != nil {
			return nil, err
		}
		if r.StartedAt, err = time.Parse(sqliteTimeLayout, started); err != nil {
			return nil, fmt.Errorf("parsing started_at %q: %w", started, err)
		}
		if r.EndedAt, err = time.Parse(sqliteTimeLayout, ended); err != nil {
			return nil, fmt.Errorf("parsing ended_at %q: %w", ended, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
