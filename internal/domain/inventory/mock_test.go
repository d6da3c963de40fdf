package inventory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/platform/clock"
)

var (
	today     = clock.Date(2024, time.March, 10)
	errBroken = errors.New("drug store unavailable")
)

// faultyRepo fails updates of the drugs listed in failUpdate.
type faultyRepo struct {
	Repository
	mu         sync.Mutex
	failUpdate map[string]error
}

func newFaultyRepo() *faultyRepo {
	return &faultyRepo{Repository: NewMemRepo(), failUpdate: make(map[string]error)}
}

func (f *faultyRepo) breakUpdates(id string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failUpdate[id] = err
}

func (f *faultyRepo) heal(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.failUpdate, id)
}

func (f *faultyRepo) Update(ctx context.Context, d *Drug) error {
	f.mu.Lock()
	err := f.failUpdate[d.ID]
	f.mu.Unlock()
	if err != nil {
		return err
	}
	return f.Repository.Update(ctx, d)
}

func seed(repo Repository, id, name string, stock int) {
	_ = repo.Create(context.Background(), &Drug{
		ID:         id,
		Name:       name,
		Stock:      stock,
		Unit:       "tablet",
		ExpiryDate: today.AddDate(1, 0, 0),
	})
}
