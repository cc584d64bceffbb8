package server

import (
	"encoding/json"
	"sync"
)

// RoundEvent is the payload published to a group's event subscribers.
type RoundEvent struct {
	Type     string `json:"type"`
	Feature  string `json:"feature,omitempty"`
	Winner   int64  `json:"winner,omitempty"`
	CardID   string `json:"cardId,omitempty"`
	CardName string `json:"cardName,omitempty"`
	Action   string `json:"action,omitempty"`
	Artifact string `json:"artifact,omitempty"`
}

// Broker is an in-process pub/sub for SSE events, keyed by group ID.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel that receives JSON-encoded round events for
// the given group.
func (b *Broker) Subscribe(groupID string) chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	if b.subs[groupID] == nil {
		b.subs[groupID] = make(map[chan []byte]struct{})
	}
	b.subs[groupID][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel from the group's subscribers.
func (b *Broker) Unsubscribe(groupID string, ch chan []byte) {
	b.mu.Lock()
	delete(b.subs[groupID], ch)
	if len(b.subs[groupID]) == 0 {
		delete(b.subs, groupID)
	}
	b.mu.Unlock()
}

// Publish sends an event to all subscribers of the given group.
func (b *Broker) Publish(groupID string, event RoundEvent) {
	data, _ := json.Marshal(event)
	b.mu.RLock()
	for ch := range b.subs[groupID] {
		select {
		case ch <- data:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}
