// internal/repository/unit_of_work.go
package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"minibank/internal/metrics"
	"minibank/internal/util"
)

// TxStatus is the lifecycle state of a unit of work.
type TxStatus int

const (
	TxInactive TxStatus = iota
	TxActive
	TxCommitted
	TxRolledBack
)

func (s TxStatus) String() string {
	switch s {
	case TxActive:
		return "ACTIVE"
	case TxCommitted:
		return "COMMITTED"
	case TxRolledBack:
		return "ROLLED_BACK"
	default:
		return "INACTIVE"
	}
}

// UnitOfWorkConfig controls retries of units of work that lost a serialization race.
type UnitOfWorkConfig struct {
	MaxAttempts       int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
}

// DefaultUnitOfWorkConfig returns sensible retry defaults.
func DefaultUnitOfWorkConfig() UnitOfWorkConfig {
	return UnitOfWorkConfig{
		MaxAttempts:       3,
		InitialBackoff:    5 * time.Millisecond,
		MaxBackoff:        200 * time.Millisecond,
		BackoffMultiplier: 2.0,
	}
}

type unitOfWorkState struct {
	id     string
	tx     Tx
	status TxStatus
}

type unitOfWorkKey struct{}

// CurrentTx returns the transaction of the unit of work active in ctx, if any.
func CurrentTx(ctx context.Context) (Tx, bool) {
	st, ok := ctx.Value(unitOfWorkKey{}).(*unitOfWorkState)
	if !ok || st.status != TxActive {
		return nil, false
	}
	return st.tx, true
}

// CurrentStatus returns the status of the unit of work carried by ctx.
func CurrentStatus(ctx context.Context) TxStatus {
	st, ok := ctx.Value(unitOfWorkKey{}).(*unitOfWorkState)
	if !ok {
		return TxInactive
	}
	return st.status
}

// UnitOfWork runs business operations atomically against a Persistence.
//
// The active unit of work travels in the context. A call that finds an active
// unit of work joins it; otherwise it becomes the owner and alone decides
// commit or rollback.
type UnitOfWork struct {
	persistence Persistence
	cfg         UnitOfWorkConfig
	logger      *slog.Logger
}

// NewUnitOfWork creates a new UnitOfWork.
func NewUnitOfWork(persistence Persistence, cfg UnitOfWorkConfig, logger *slog.Logger) *UnitOfWork {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	return &UnitOfWork{persistence: persistence, cfg: cfg, logger: logger}
}

// Do executes fn inside a unit of work, joining the one already active in ctx if present.
// Errors from fn are returned unchanged. An owner retries the whole of fn when it
// fails with util.ErrConflict, up to MaxAttempts.
func (u *UnitOfWork) Do(ctx context.Context, op string, fn func(ctx context.Context, tx Tx) error) error {
	if tx, ok := CurrentTx(ctx); ok {
		metrics.ObserveUnitOfWork("joined")
		return fn(ctx, tx)
	}

	for attempt := 1; ; attempt++ {
		err := u.run(ctx, op, fn)
		if err == nil || !errors.Is(err, util.ErrConflict) || attempt >= u.cfg.MaxAttempts {
			return err
		}

		backoff := u.backoff(attempt - 1)
		metrics.ObserveUnitOfWork("retried")
		u.logger.Warn("unit of work conflicted, retrying",
			slog.String("operation", op),
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", u.cfg.MaxAttempts),
			slog.Duration("backoff", backoff),
		)

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
	}
}

// run executes one owned attempt.
func (u *UnitOfWork) run(ctx context.Context, op string, fn func(ctx context.Context, tx Tx) error) (err error) {
	tx, err := u.persistence.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: failed to begin unit of work: %w", op, err)
	}

	st := &unitOfWorkState{id: uuid.NewString(), tx: tx, status: TxActive}
	log := u.logger.With(slog.String("operation", op), slog.String("uow_id", st.id))
	log.Debug("unit of work started")

	defer func() {
		if p := recover(); p != nil {
			u.rollback(log, st)
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, unitOfWorkKey{}, st), tx); err != nil {
		u.rollback(log, st)
		log.Debug("unit of work rolled back", slog.String("error", err.Error()))
		return err
	}

	// Commit releases the transaction whether or not it succeeds.
	if err := tx.Commit(); err != nil {
		st.status = TxRolledBack
		metrics.ObserveUnitOfWork("rolled_back")
		log.Debug("unit of work commit failed", slog.String("error", err.Error()))
		return fmt.Errorf("%s: failed to commit unit of work: %w", op, err)
	}
	st.status = TxCommitted
	metrics.ObserveUnitOfWork("committed")
	log.Debug("unit of work committed")
	return nil
}

func (u *UnitOfWork) rollback(log *slog.Logger, st *unitOfWorkState) {
	if st.status != TxActive {
		return
	}
	st.status = TxRolledBack
	metrics.ObserveUnitOfWork("rolled_back")
	if err := st.tx.Rollback(); err != nil {
		// The original error is more important; the rollback failure is only logged.
		log.Error("failed to roll back unit of work", slog.String("error", err.Error()))
	}
}

func (u *UnitOfWork) backoff(attemptNum int) time.Duration {
	mult := u.cfg.BackoffMultiplier
	if mult < 1 {
		mult = 1
	}
	backoff := time.Duration(float64(u.cfg.InitialBackoff) * math.Pow(mult, float64(attemptNum)))
	if u.cfg.MaxBackoff > 0 && backoff > u.cfg.MaxBackoff {
		backoff = u.cfg.MaxBackoff
	}
	return backoff
}

// Within runs fn in a unit of work and returns its result.
func Within[T any](ctx context.Context, uow *UnitOfWork, op string, fn func(ctx context.Context, tx Tx) (T, error)) (T, error) {
	var out T
	err := uow.Do(ctx, op, func(ctx context.Context, tx Tx) error {
		v, err := fn(ctx, tx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}
