package appointment

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/spa-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/spa-scheduler/internal/httperr"
	"github.com/BruksfildServices01/spa-scheduler/internal/lock"
	"github.com/BruksfildServices01/spa-scheduler/internal/metrics"
	"github.com/BruksfildServices01/spa-scheduler/internal/models"
)

const releaseTimeout = 2 * time.Second

// SlotGuard runs the overlap check and the write that depends on it as one
// critical section: the day lock is held and the store transaction is open
// from the check until the write commits.
type SlotGuard struct {
	locker  lock.Locker
	metrics *metrics.SchedulingMetrics
	log     *zap.Logger
}

func NewSlotGuard(
	locker lock.Locker,
	m *metrics.SchedulingMetrics,
	log *zap.Logger,
) *SlotGuard {
	if locker == nil {
		locker = lock.NewLocal()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &SlotGuard{locker: locker, metrics: m, log: log}
}

type writeFunc func(ctx context.Context, tx domain.Repository, ap *models.Appointment) error

func (g *SlotGuard) Reserve(
	ctx context.Context,
	repo domain.Repository,
	operation string,
	ap *models.Appointment,
	write writeFunc,
) error {

	q := domain.SlotOf(ap)

	waitStart := time.Now()
	release, err := g.locker.Acquire(ctx, q.LockKey())
	g.metrics.ObserveLockWait(operation, time.Since(waitStart))
	if err != nil {
		if httperr.IsKind(err, httperr.KindConflict) {
			g.metrics.ObserveConflict(operation, "lock")
		}
		return err
	}
	defer func() {
		rctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
		defer cancel()
		if err := release(rctx); err != nil {
			g.log.Warn("slot lock release failed",
				zap.String("key", q.LockKey()),
				zap.Error(err),
			)
		}
	}()

	return repo.Transaction(ctx, func(tx domain.Repository) error {
		existing, err := tx.FindOverlap(ctx, q)
		if err != nil {
			return err
		}
		if existing != nil {
			g.metrics.ObserveConflict(operation, "overlap")
			return domain.ConflictError(existing)
		}

		if err := write(ctx, tx, ap); err != nil {
			if errors.Is(err, domain.ErrSlotTaken) {
				g.metrics.ObserveConflict(operation, "storage")
			}
			return err
		}
		return nil
	})
}
