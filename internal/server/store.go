package server

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("not found")

// Round is one finished game round as recorded for the history view.
type Round struct {
	ID        int64     `json:"id"`
	GroupID   string    `json:"groupId"`
	Feature   string    `json:"feature"`
	Engine    string    `json:"engine"`
	CardID    string    `json:"cardId"`
	CardName  string    `json:"cardName"`
	Winner    int64     `json:"winner"`
	StartedAt time.Time `json:"startedAt"`
	EndedAt   time.Time `json:"endedAt"`
}

type RoundStore interface {
	RecordRound(ctx context.Context, r Round) error
	RecentRounds(ctx context.Context, groupID string, limit int) ([]Round, error)
}
