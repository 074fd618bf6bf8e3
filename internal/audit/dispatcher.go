package audit

import "github.com/rs/zerolog"

type Event struct {
	ActorID  *string
	Action   string
	Entity   string
	EntityID *string
	Metadata any
}

// Sink receives audit events; the gorm-backed Logger is the production
// implementation.
type Sink interface {
	Log(actorID *string, action, entity string, entityID *string, metadata any) error
}

// Dispatcher writes audit events off the request path through a
// buffered channel and a single worker. A full queue drops the event;
// auditing must never fail an API call.
type Dispatcher struct {
	sink  Sink
	queue chan Event
	log   zerolog.Logger
}

func NewDispatcher(sink Sink, log zerolog.Logger) *Dispatcher {
	d := &Dispatcher{
		sink:  sink,
		queue: make(chan Event, 100),
		log:   log.With().Str("component", "audit").Logger(),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for ev := range d.queue {
		if err := d.sink.Log(
			ev.ActorID,
			ev.Action,
			ev.Entity,
			ev.EntityID,
			ev.Metadata,
		); err != nil {
			d.log.Error().Err(err).Str("action", ev.Action).Msg("audit write failed")
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
	default:
		d.log.Warn().Str("action", ev.Action).Msg("audit queue full, dropping event")
	}
}
