package inventory

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/platform/apperr"
	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/platform/clock"
	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/platform/logging"
	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/platform/telemetry"
)

func newTestLedger(policy RollbackPolicy) (*Ledger, *faultyRepo, *clock.Fixed) {
	repo := newFaultyRepo()
	clk := clock.NewFixed(today)
	metrics := telemetry.MustNew("test", prometheus.NewRegistry())
	return NewLedger(repo, clk, policy, logging.Nop(), metrics), repo, clk
}

func TestLedger_IncreaseDecrease(t *testing.T) {
	l, repo, _ := newTestLedger(PolicyQuarantine)
	seed(repo, "para", "Paracetamol", 100)
	ctx := context.Background()

	require.NoError(t, l.Decrease(ctx, "para", 30))
	require.NoError(t, l.Increase(ctx, "para", 5))
	stock, err := l.Stock(ctx, "para")
	require.NoError(t, err)
	assert.Equal(t, 75, stock)
}

func TestLedger_RejectsNonPositiveQty(t *testing.T) {
	l, repo, _ := newTestLedger(PolicyQuarantine)
	seed(repo, "para", "Paracetamol", 10)
	ctx := context.Background()

	for _, qty := range []int{0, -1} {
		assert.True(t, apperr.IsValidation(l.Increase(ctx, "para", qty)))
		assert.True(t, apperr.IsValidation(l.Decrease(ctx, "para", qty)))
	}
}

func TestLedger_IncreaseOverflowIsValidation(t *testing.T) {
	l, repo, _ := newTestLedger(PolicyQuarantine)
	seed(repo, "para", "Paracetamol", 100)
	ctx := context.Background()

	err := l.Increase(ctx, "para", math.MaxInt)
	assert.True(t, apperr.IsValidation(err), "got %v", err)
	assert.False(t, apperr.IsInsufficientStock(err))
	stock, _ := l.Stock(ctx, "para")
	assert.Equal(t, 100, stock)

	require.NoError(t, l.Increase(ctx, "para", math.MaxInt-100))
	stock, _ = l.Stock(ctx, "para")
	assert.Equal(t, math.MaxInt, stock)
}

func TestReservation_CheckRejectsNonPositiveQty(t *testing.T) {
	l, repo, _ := newTestLedger(PolicyQuarantine)
	seed(repo, "para", "Paracetamol", 100)

	for _, qty := range []int{0, -2} {
		err := l.Reserve(context.Background(), []string{"para"}, func(r *Reservation) error {
			_, err := r.Check("para", qty)
			return err
		})
		assert.True(t, apperr.IsValidation(err), "qty=%d: got %v", qty, err)
	}
}

func TestLedger_MissingDrug(t *testing.T) {
	l, _, _ := newTestLedger(PolicyQuarantine)
	assert.True(t, apperr.IsNotFound(l.Increase(context.Background(), "ghost", 1)))
	assert.True(t, apperr.IsNotFound(l.Decrease(context.Background(), "ghost", 1)))
}

func TestLedger_InsufficientStockDoesNotMutate(t *testing.T) {
	l, repo, _ := newTestLedger(PolicyQuarantine)
	seed(repo, "beta", "Betadine", 50)
	ctx := context.Background()

	err := l.Decrease(ctx, "beta", 51)
	var insufficient *apperr.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "Betadine", insufficient.DrugName)
	assert.Equal(t, 50, insufficient.Available)
	assert.Equal(t, 51, insufficient.Requested)
	assert.False(t, apperr.IsNotFound(err))

	stock, _ := l.Stock(ctx, "beta")
	assert.Equal(t, 50, stock)
}

func TestLedger_DecreaseThenIncreaseRestores(t *testing.T) {
	l, repo, _ := newTestLedger(PolicyQuarantine)
	seed(repo, "para", "Paracetamol", 40)
	ctx := context.Background()

	for q := 1; q <= 40; q++ {
		require.NoError(t, l.Decrease(ctx, "para", q))
		require.NoError(t, l.Increase(ctx, "para", q))
		stock, _ := l.Stock(ctx, "para")
		require.Equal(t, 40, stock, "q=%d", q)
	}
}

func TestLedger_StockNeverNegative(t *testing.T) {
	l, repo, _ := newTestLedger(PolicyQuarantine)
	seed(repo, "para", "Paracetamol", 20)
	ctx := context.Background()
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 2000; i++ {
		qty := rng.Intn(15) + 1
		if rng.Intn(2) == 0 {
			_ = l.Increase(ctx, "para", qty)
		} else {
			_ = l.Decrease(ctx, "para", qty)
		}
		stock, err := l.Stock(ctx, "para")
		require.NoError(t, err)
		require.GreaterOrEqual(t, stock, 0)
	}
}

func TestLedger_ConcurrentReservationsNeverOversell(t *testing.T) {
	l, repo, _ := newTestLedger(PolicyQuarantine)
	seed(repo, "para", "Paracetamol", 100)
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		granted int
	)
	for i := 0; i < 60; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := l.Reserve(ctx, []string{"para"}, func(r *Reservation) error {
				if _, err := r.Check("para", 3); err != nil {
					return err
				}
				return r.Decrease("para", 3)
			})
			if err == nil {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	stock, _ := l.Stock(ctx, "para")
	assert.Equal(t, 33, granted)
	assert.Equal(t, 1, stock)
}

func TestLedger_ReserveOverlappingSetsDoesNotDeadlock(t *testing.T) {
	l, repo, _ := newTestLedger(PolicyQuarantine)
	seed(repo, "a", "A", 1000)
	seed(repo, "b", "B", 1000)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		ids := []string{"a", "b"}
		if i%2 == 1 {
			ids = []string{"b", "a"}
		}
		wg.Add(1)
		go func(ids []string) {
			defer wg.Done()
			_ = l.Reserve(ctx, ids, func(r *Reservation) error {
				for _, id := range ids {
					if err := r.Decrease(id, 1); err != nil {
						return err
					}
				}
				return nil
			})
		}(ids)
	}
	wg.Wait()

	a, _ := l.Stock(ctx, "a")
	b, _ := l.Stock(ctx, "b")
	assert.Equal(t, 950, a)
	assert.Equal(t, 950, b)
}

func TestReservation_RejectsUnheldDrug(t *testing.T) {
	l, repo, _ := newTestLedger(PolicyQuarantine)
	seed(repo, "a", "A", 10)
	seed(repo, "b", "B", 10)

	err := l.Reserve(context.Background(), []string{"a"}, func(r *Reservation) error {
		return r.Decrease("b", 1)
	})
	assert.True(t, apperr.IsValidation(err))
	stock, _ := l.Stock(context.Background(), "b")
	assert.Equal(t, 10, stock)
}

func TestLedger_IsExpired(t *testing.T) {
	l, repo, clk := newTestLedger(PolicyQuarantine)
	ctx := context.Background()
	_ = repo.Create(ctx, &Drug{ID: "amox", Name: "Amoxicillin", Stock: 5, Unit: "capsule", ExpiryDate: today})

	assert.False(t, l.IsExpired(ctx, "amox"), "expiring today is not expired")
	assert.False(t, l.IsExpired(ctx, "ghost"))

	clk.Set(today.AddDate(0, 0, 1))
	assert.True(t, l.IsExpired(ctx, "amox"))
}

func TestLedger_RestoreFailureQuarantines(t *testing.T) {
	l, repo, _ := newTestLedger(PolicyQuarantine)
	seed(repo, "para", "Paracetamol", 100)
	ctx := context.Background()

	err := l.Reserve(ctx, []string{"para"}, func(r *Reservation) error {
		require.NoError(t, r.Decrease("para", 10))
		repo.breakUpdates("para", errBroken)
		return r.Restore("para", 100)
	})
	assert.ErrorIs(t, err, errBroken)
	assert.True(t, l.Quarantined("para"))
	assert.Equal(t, []string{"para"}, l.QuarantinedDrugs())

	repo.heal("para")
	err = l.Increase(ctx, "para", 1)
	assert.True(t, apperr.IsConsistencyFault(err))
	assert.ErrorIs(t, err, ErrQuarantined)
	stock, _ := l.Stock(ctx, "para")
	assert.Equal(t, 90, stock, "frozen drug keeps its drifted stock")

	require.NoError(t, l.Reconcile(ctx, "para", 100))
	assert.False(t, l.Quarantined("para"))
	require.NoError(t, l.Decrease(ctx, "para", 1))
	stock, _ = l.Stock(ctx, "para")
	assert.Equal(t, 99, stock)
}

func TestLedger_RestoreFailureLogPolicy(t *testing.T) {
	l, repo, _ := newTestLedger(PolicyLog)
	seed(repo, "para", "Paracetamol", 100)
	ctx := context.Background()

	_ = l.Reserve(ctx, []string{"para"}, func(r *Reservation) error {
		_ = r.Decrease("para", 10)
		repo.breakUpdates("para", errBroken)
		return r.Restore("para", 100)
	})
	repo.heal("para")
	assert.False(t, l.Quarantined("para"))
	assert.NoError(t, l.Increase(ctx, "para", 10))
}

func TestLedger_RestoreIgnoresCancellation(t *testing.T) {
	l, repo, _ := newTestLedger(PolicyQuarantine)
	seed(repo, "para", "Paracetamol", 100)
	ctx, cancel := context.WithCancel(context.Background())

	err := l.Reserve(ctx, []string{"para"}, func(r *Reservation) error {
		require.NoError(t, r.Decrease("para", 10))
		cancel()
		return r.Restore("para", 100)
	})
	require.NoError(t, err)
	stock, _ := l.Stock(context.Background(), "para")
	assert.Equal(t, 100, stock)
}

func TestLedger_ReconcileValidation(t *testing.T) {
	l, _, _ := newTestLedger(PolicyQuarantine)
	assert.True(t, apperr.IsValidation(l.Reconcile(context.Background(), "x", -1)))
	assert.True(t, apperr.IsNotFound(l.Reconcile(context.Background(), "x", 1)))
}
