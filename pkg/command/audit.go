package command

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urmzd/tled/pkg/db"
)

const auditTimeout = 2 * time.Second

// AuditListener records every event in store.
func AuditListener(store db.EventStore) Listener {
	return func(ev Event) {
		rec := &db.DeviceEvent{
			ID:      ev.ID.String(),
			Command: ev.Command,
			OK:      ev.OK,
			Message: ev.Message,
			At:      ev.At,
		}
		if ev.Args != nil {
			rec.Args, _ = json.Marshal(ev.Args)
		}
		if ev.Snapshot != nil {
			rec.Snapshot, _ = json.Marshal(ev.Snapshot)
		}

		ctx, cancel := context.WithTimeout(context.Background(), auditTimeout)
		defer cancel()

		if err := store.Record(ctx, rec); err != nil {
			log.Warn().Err(err).Str("command", ev.Command).Msg("Failed to record device event")
		}
	}
}
