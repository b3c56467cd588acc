package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/spa-scheduler/internal/metrics"
)

const writeTimeout = 5 * time.Second

// Actor is who triggered an event and from where.
type Actor struct {
	UserID    string
	IP        string
	UserAgent string
}

type Event struct {
	Actor    Actor
	Action   string
	Entity   string
	EntityID *uuid.UUID
	Details  string
}

// Dispatcher writes events on a background worker. Dispatch never blocks and
// never fails: a full queue drops the event and a failed write is only logged.
type Dispatcher struct {
	writer  Writer
	log     *zap.Logger
	metrics *metrics.SchedulingMetrics

	queue chan Event
	done  chan struct{}
	once  sync.Once
}

func NewDispatcher(
	writer Writer,
	log *zap.Logger,
	m *metrics.SchedulingMetrics,
	queueSize int,
) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	if queueSize <= 0 {
		queueSize = 100
	}

	d := &Dispatcher{
		writer:  writer,
		log:     log,
		metrics: m,
		queue:   make(chan Event, queueSize),
		done:    make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for ev := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		if err := d.writer.Write(ctx, ev); err != nil {
			d.log.Warn("audit write failed",
				zap.String("action", ev.Action),
				zap.Error(err),
			)
		}
		cancel()
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}

	defer func() {
		// Dispatch after Close sends on a closed channel.
		if r := recover(); r != nil {
			d.log.Warn("audit dispatcher closed, dropping event", zap.String("action", ev.Action))
		}
	}()

	select {
	case d.queue <- ev:
	default:
		d.metrics.ObserveAuditDropped()
		d.log.Warn("audit queue full, dropping event", zap.String("action", ev.Action))
	}
}

// Close stops accepting events and waits until queued ones are written or ctx
// expires.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.once.Do(func() { close(d.queue) })

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
