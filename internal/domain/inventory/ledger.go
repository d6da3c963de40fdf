package inventory

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/platform/apperr"
	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/platform/clock"
	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/platform/lockset"
	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/platform/telemetry"
)

// RollbackPolicy decides what happens to a drug whose stock could not be
// restored after a failed transaction.
type RollbackPolicy string

const (
	// PolicyQuarantine freezes the drug until Reconcile is called.
	PolicyQuarantine RollbackPolicy = "quarantine"
	// PolicyLog records the failure and leaves the drug usable.
	PolicyLog RollbackPolicy = "log"
)

// ErrQuarantined is the cause of every fault returned for a frozen drug.
var ErrQuarantined = errors.New("drug is quarantined pending reconciliation")

type quarantine struct {
	cause error
	since time.Time
}

// Ledger is the only writer of drug stock. Each drug has its own lock; every
// mutation holds it, and Reserve holds a whole set of them so that a check
// and the decrements that follow it cannot interleave with another caller.
type Ledger struct {
	repo    Repository
	locks   *lockset.Set
	clock   clock.Clock
	policy  RollbackPolicy
	logger  zerolog.Logger
	metrics *telemetry.Metrics

	qmu         sync.Mutex
	quarantined map[string]quarantine
}

func NewLedger(repo Repository, clk clock.Clock, policy RollbackPolicy, logger zerolog.Logger, metrics *telemetry.Metrics) *Ledger {
	if policy == "" {
		policy = PolicyQuarantine
	}
	return &Ledger{
		repo:        repo,
		locks:       lockset.New(),
		clock:       clk,
		policy:      policy,
		logger:      logger,
		metrics:     metrics,
		quarantined: make(map[string]quarantine),
	}
}

func (l *Ledger) Policy() RollbackPolicy {
	return l.policy
}

// Increase adds qty units to the drug's stock.
func (l *Ledger) Increase(ctx context.Context, drugID string, qty int) error {
	if qty <= 0 {
		return apperr.Invalid("qty", "must be a positive integer, got %d", qty)
	}
	unlock := l.locks.Lock(drugID)
	defer unlock()
	return l.adjust(ctx, drugID, qty)
}

// Decrease removes qty units. It fails with an InsufficientStockError and
// leaves the drug untouched if fewer than qty units are available.
func (l *Ledger) Decrease(ctx context.Context, drugID string, qty int) error {
	if qty <= 0 {
		return apperr.Invalid("qty", "must be a positive integer, got %d", qty)
	}
	unlock := l.locks.Lock(drugID)
	defer unlock()
	return l.adjust(ctx, drugID, -qty)
}

// Stock returns the current stock of a drug.
func (l *Ledger) Stock(ctx context.Context, drugID string) (int, error) {
	d, err := l.repo.GetByID(ctx, drugID)
	if err != nil {
		return 0, err
	}
	return d.Stock, nil
}

// IsExpired reports whether the drug's expiry date is before today. An
// unknown drug is not expired.
func (l *Ledger) IsExpired(ctx context.Context, drugID string) bool {
	d, err := l.repo.GetByID(ctx, drugID)
	if err != nil {
		return false
	}
	return d.ExpiredOn(l.clock.Today())
}

// Reserve locks every drug in drugIDs, in sorted order, and runs fn while
// holding them. fn must only touch the reserved drugs through r.
func (l *Ledger) Reserve(ctx context.Context, drugIDs []string, fn func(r *Reservation) error) error {
	ids := lockset.Normalize(drugIDs)
	unlock := l.locks.Lock(ids...)
	defer unlock()

	held := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		held[id] = struct{}{}
	}
	return fn(&Reservation{ledger: l, ctx: ctx, held: held})
}

// Quarantined reports whether drugID is frozen.
func (l *Ledger) Quarantined(drugID string) bool {
	l.qmu.Lock()
	defer l.qmu.Unlock()
	_, ok := l.quarantined[drugID]
	return ok
}

// QuarantinedDrugs lists frozen drug ids in sorted order.
func (l *Ledger) QuarantinedDrugs() []string {
	l.qmu.Lock()
	defer l.qmu.Unlock()
	ids := make([]string, 0, len(l.quarantined))
	for id := range l.quarantined {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Reconcile sets an operator-verified stock value and lifts any quarantine.
func (l *Ledger) Reconcile(ctx context.Context, drugID string, stock int) error {
	if stock < 0 {
		return apperr.Invalid("stock", "must not be negative, got %d", stock)
	}
	unlock := l.locks.Lock(drugID)
	defer unlock()

	d, err := l.repo.GetByID(ctx, drugID)
	if err != nil {
		return err
	}
	previous := d.Stock
	d.Stock = stock
	if err := l.repo.Update(ctx, d); err != nil {
		return fmt.Errorf("reconcile drug %s: %w", drugID, err)
	}

	l.qmu.Lock()
	delete(l.quarantined, drugID)
	n := len(l.quarantined)
	l.qmu.Unlock()
	l.metrics.SetQuarantined(n)

	l.logger.Warn().
		Str("drug_id", drugID).
		Int("previous_stock", previous).
		Int("stock", stock).
		Msg("drug stock reconciled")
	return nil
}

// Exclusive runs fn while holding drugID's lock. Whole-aggregate writes go
// through it so they cannot overwrite a concurrent stock change.
func (l *Ledger) Exclusive(drugID string, fn func() error) error {
	unlock := l.locks.Lock(drugID)
	defer unlock()
	return fn()
}

// Forget drops quarantine state for a drug that no longer exists.
func (l *Ledger) Forget(drugID string) {
	l.qmu.Lock()
	delete(l.quarantined, drugID)
	n := len(l.quarantined)
	l.qmu.Unlock()
	l.metrics.SetQuarantined(n)
}

func (l *Ledger) checkQuarantine(op, drugID string) error {
	l.qmu.Lock()
	q, ok := l.quarantined[drugID]
	l.qmu.Unlock()
	if !ok {
		return nil
	}
	return &apperr.ConsistencyFault{
		Op:     op,
		ID:     drugID,
		Failed: "drug",
		Cause:  fmt.Errorf("%w since %s: %v", ErrQuarantined, q.since.Format(time.RFC3339), q.cause),
	}
}

// adjust applies delta to the stock of a drug whose lock the caller holds.
func (l *Ledger) adjust(ctx context.Context, drugID string, delta int) error {
	if err := l.checkQuarantine("inventory.adjust", drugID); err != nil {
		return err
	}
	d, err := l.repo.GetByID(ctx, drugID)
	if err != nil {
		return err
	}
	if delta > 0 && d.Stock > math.MaxInt-delta {
		return apperr.Invalid("qty", "increase of %d overflows stock %d of drug %q", delta, d.Stock, drugID)
	}
	if delta < 0 && d.Stock < -delta {
		return &apperr.InsufficientStockError{DrugID: d.ID, DrugName: d.Name, Available: d.Stock, Requested: -delta}
	}
	d.Stock += delta
	if err := l.repo.Update(ctx, d); err != nil {
		return fmt.Errorf("update stock of drug %s: %w", drugID, err)
	}

	direction, qty := telemetry.DirectionIncrease, delta
	if delta < 0 {
		direction, qty = telemetry.DirectionDecrease, -delta
	}
	l.metrics.StockMoved(direction, qty)
	l.logger.Debug().
		Str("drug_id", drugID).
		Str("direction", direction).
		Int("qty", qty).
		Int("stock", d.Stock).
		Msg("stock adjusted")
	return nil
}

func (l *Ledger) restoreFailed(drugID string, err error) {
	l.metrics.RollbackFailed()
	event := l.logger.Error().Err(err).Str("drug_id", drugID).Str("policy", string(l.policy))
	if l.policy != PolicyQuarantine {
		event.Msg("stock restore failed, drift left in place")
		return
	}

	l.qmu.Lock()
	l.quarantined[drugID] = quarantine{cause: err, since: time.Now()}
	n := len(l.quarantined)
	l.qmu.Unlock()
	l.metrics.SetQuarantined(n)
	event.Msg("stock restore failed, drug quarantined")
}

// Reservation is the handle Reserve passes to its callback. Every method acts
// on drugs whose locks are already held.
type Reservation struct {
	ledger *Ledger
	ctx    context.Context
	held   map[string]struct{}
}

func (r *Reservation) hold(drugID string) error {
	if _, ok := r.held[drugID]; !ok {
		return apperr.Invalid("drug_id", "drug %q is not part of this reservation", drugID)
	}
	return nil
}

// Check resolves the drug and verifies that qty units are available without
// changing anything.
func (r *Reservation) Check(drugID string, qty int) (*Drug, error) {
	if qty <= 0 {
		return nil, apperr.Invalid("qty", "must be a positive integer, got %d", qty)
	}
	if err := r.hold(drugID); err != nil {
		return nil, err
	}
	if err := r.ledger.checkQuarantine("inventory.check", drugID); err != nil {
		return nil, err
	}
	d, err := r.ledger.repo.GetByID(r.ctx, drugID)
	if err != nil {
		return nil, err
	}
	if d.Stock < qty {
		return nil, &apperr.InsufficientStockError{DrugID: d.ID, DrugName: d.Name, Available: d.Stock, Requested: qty}
	}
	return d, nil
}

func (r *Reservation) Decrease(drugID string, qty int) error {
	if qty <= 0 {
		return apperr.Invalid("qty", "must be a positive integer, got %d", qty)
	}
	if err := r.hold(drugID); err != nil {
		return err
	}
	return r.ledger.adjust(r.ctx, drugID, -qty)
}

// Restore writes back a stock value recorded before the reservation began.
// A failure is handled by the ledger's rollback policy and then returned for
// the caller to log. Restore ignores cancellation of the reservation context.
func (r *Reservation) Restore(drugID string, stock int) error {
	if err := r.hold(drugID); err != nil {
		return err
	}
	l := r.ledger
	ctx := context.WithoutCancel(r.ctx)

	d, err := l.repo.GetByID(ctx, drugID)
	if err != nil {
		l.restoreFailed(drugID, err)
		return err
	}
	moved := stock - d.Stock
	d.Stock = stock
	if err := l.repo.Update(ctx, d); err != nil {
		l.restoreFailed(drugID, err)
		return err
	}
	if moved < 0 {
		moved = -moved
	}
	l.metrics.StockMoved(telemetry.DirectionRestore, moved)
	l.logger.Info().Str("drug_id", drugID).Int("stock", stock).Msg("stock restored")
	return nil
}
