package core

import (
	"context"

	"github.com/rs/zerolog"
)

// Recorder persists sensor samples for later analysis.
type Recorder interface {
	Record(ctx context.Context, sample Sample) error
}

// Ack is returned to the device once every reading was handed to the hub.
type Ack struct {
	Success bool
	Events  int
}

// Relay turns sensor samples into named events and routes them through the hub.
type Relay struct {
	hub      *Hub
	recorder Recorder
	scoped   bool
	log      *zerolog.Logger
}

// NewRelay builds a relay. recorder may be nil. When scoped is set, samples
// that carry a home id are broadcast to that home's room only; otherwise
// every connected client receives them.
func NewRelay(hub *Hub, recorder Recorder, scoped bool, logger *zerolog.Logger) *Relay {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Relay{hub: hub, recorder: recorder, scoped: scoped, log: logger}
}

// Publish emits one event per present reading. Delivery is fire-and-forget.
func (r *Relay) Publish(ctx context.Context, sample Sample) Ack {
	if sample.Empty() {
		return Ack{Success: true}
	}
	events := sample.Events()
	room := ""
	if r.scoped {
		room = sample.HomeID
	}

	for _, ev := range events {
		var delivered int
		if room != "" {
			delivered = r.hub.Broadcast(room, ev)
		} else {
			delivered = r.hub.BroadcastGlobal(ev)
		}
		r.log.Debug().
			Str("event", ev.Kind.String()).
			Str("room", room).
			Int("delivered", delivered).
			Msg("sensor event relayed")
	}

	if r.recorder != nil {
		if err := r.recorder.Record(ctx, sample); err != nil {
			r.log.Warn().Err(err).Str("home_id", sample.HomeID).Msg("failed to record sample")
		}
	}

	return Ack{Success: true, Events: len(events)}
}

// Diagnostic sends the manual verification event to one room.
func (r *Relay) Diagnostic(room, text string) int {
	return r.hub.Broadcast(room, DiagnosticEvent(text))
}
