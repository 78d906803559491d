package amqp

import (
	"encoding/json"
	"time"
)

// Activity event kinds. The worker turns these into activity feed rows.
const (
	KindScheduleCreated    = "schedule.created"
	KindScheduleDeleted    = "schedule.deleted"
	KindSeriesDeleted      = "schedule.series_deleted"
	KindTransactionCreated = "transaction.created"
)

// ActivityMessage is the lightweight event published after a successful
// write. It carries ids and a human line, never the full entity; the worker
// materializes it into the group's activity feed.
type ActivityMessage struct {
	GroupID    string    `json:"group_id"`
	ActorID    string    `json:"actor_id"`
	Kind       string    `json:"kind"`
	RefID      string    `json:"ref_id,omitempty"`
	Message    string    `json:"message,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewActivityMessage(groupID, actorID, kind, refID, message string) *ActivityMessage {
	return &ActivityMessage{
		GroupID:    groupID,
		ActorID:    actorID,
		Kind:       kind,
		RefID:      refID,
		Message:    message,
		OccurredAt: time.Now().UTC(),
	}
}

func (m *ActivityMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ActivityMessageFromJSON(data []byte) (*ActivityMessage, error) {
	var msg ActivityMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
