package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"delega/internal/db"
)

// Case event types.
const (
	TypeJudicialProcessCreated    = "judicial_process.created"
	TypeJudicialProcessInProgress = "judicial_process.in_progress"
	TypePersonRegistered          = "person.registered"
	TypeLawyerRegistered          = "lawyer.registered"
)

type Writer struct {
	DB  *sql.DB
	Now func() time.Time
}

type Payload map[string]any

// Append writes an event through the unit of work in ctx, or directly when there is none.
func (w Writer) Append(ctx context.Context, evtType, entityKind, entityID, actorID string, payload Payload) error {
	now := time.Now
	if w.Now != nil {
		now = w.Now
	}
	ts := now().UTC().Format(time.RFC3339)
	if payload == nil {
		payload = Payload{}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}
	if actorID == "" {
		actorID = "system"
	}
	_, err = db.Conn(ctx, w.DB).ExecContext(ctx, `INSERT INTO events(ts,type,entity_kind,entity_id,actor_id,payload_json) VALUES (?,?,?,?,?,?)`,
		ts, evtType, entityKind, nullable(entityID), actorID, string(data))
	return err
}

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}
