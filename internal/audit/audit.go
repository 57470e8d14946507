// Package audit records security-relevant events. Entries are append-only
// and permanent; this package never updates or deletes them. Recording is
// fire-and-forget: a sink failure is logged and swallowed so it can never
// fail the auth operation that produced the event.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"taskhub.org/internal/auth"
	"taskhub.org/internal/ids"
	"taskhub.org/internal/obs"
	"taskhub.org/internal/stream"
)

// Store is the persistence port for audit entries.
type Store interface {
	Append(ctx context.Context, event *auth.Event) error
}

// Log implements auth.Recorder. It persists entries when a store is wired,
// mirrors every entry to the structured log, and feeds the live stream.
type Log struct {
	store Store
	fan   *stream.Stream
}

var _ auth.Recorder = (*Log)(nil)

// New constructs a Log. Both the store and the stream may be nil; the JSON
// log line is always emitted.
func New(store Store, fan *stream.Stream) *Log {
	return &Log{store: store, fan: fan}
}

// Record persists and broadcasts the event. The append respects the caller's
// deadline but its failure never propagates.
func (l *Log) Record(ctx context.Context, event auth.Event) {
	if event.ID == "" {
		event.ID = ids.New()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	logEntry(event, "")
	if l.store != nil {
		if err := l.store.Append(ctx, &event); err != nil {
			logEntry(event, err.Error())
		}
	}
	if l.fan != nil {
		l.fan.Publish(event)
	}
}

func logEntry(event auth.Event, appendErr string) {
	entry := map[string]any{
		"ts":    time.Now().UTC().Format(time.RFC3339Nano),
		"type":  "audit",
		"event": event.Action,
		"id":    event.ID,
		"fields": map[string]any{
			"identity_id":    event.IdentityID,
			"identity_email": event.IdentityEmail,
			"resource_type":  event.ResourceType,
			"resource_id":    event.ResourceID,
			"occurred_at":    event.OccurredAt.Format(time.RFC3339Nano),
		},
	}
	if appendErr != "" {
		entry["append_error"] = appendErr
	}
	data, err := json.Marshal(entry)
	if err != nil {
		obs.Logger().Println(`{"type":"audit","event":"marshal_failed"}`)
		return
	}
	obs.Logger().Println(string(data))
}
