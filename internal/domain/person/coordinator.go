package person

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/platform/apperr"
	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/platform/telemetry"
)

const personStore = "person"

// Coordinator keeps the shared person store and the victim and medical staff
// stores in agreement. Every person lives in the shared store and in exactly
// one variant store under the same id.
//
// Create is compensated: if the variant write fails the shared record is
// removed again. Update and Delete are best effort only. When the first store
// accepts the change and the second rejects it, the first store is not
// reverted and the caller receives a *apperr.ConsistencyFault describing
// which store holds which state.
//
// Writers are serialized and readers never observe a write half applied.
type Coordinator struct {
	mu       sync.RWMutex
	persons  Repository
	variants map[Kind]Repository
	logger   zerolog.Logger
	metrics  *telemetry.Metrics
}

func NewCoordinator(persons, victims, staff Repository, logger zerolog.Logger, metrics *telemetry.Metrics) *Coordinator {
	return &Coordinator{
		persons: persons,
		variants: map[Kind]Repository{
			KindVictim: victims,
			KindStaff:  staff,
		},
		logger:  logger,
		metrics: metrics,
	}
}

func (c *Coordinator) variant(kind Kind) (Repository, error) {
	repo, ok := c.variants[kind]
	if !ok {
		return nil, apperr.Invalid("kind", "unknown person kind %q", kind)
	}
	return repo, nil
}

func (c *Coordinator) fault(f *apperr.ConsistencyFault) error {
	c.logger.Error().
		Err(f.Cause).
		Str("op", f.Op).
		Str("person_id", f.ID).
		Strs("applied", f.Applied).
		Str("failed", f.Failed).
		Msg("consistency fault")
	c.metrics.ConsistencyFault(f.Op)
	return f
}

// Create writes p to the shared store and then to its variant store.
func (c *Coordinator) Create(ctx context.Context, p *Person) error {
	variant, err := c.variant(p.Kind)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.persons.Create(ctx, p); err != nil {
		return err
	}
	if err := variant.Create(ctx, p); err != nil {
		if cerr := c.persons.Delete(ctx, p.ID); cerr != nil {
			return c.fault(&apperr.ConsistencyFault{
				Op:      string(p.Kind) + ".create",
				ID:      p.ID,
				Applied: []string{personStore},
				Failed:  string(p.Kind),
				Cause:   errors.Join(err, fmt.Errorf("compensation: %w", cerr)),
			})
		}
		c.logger.Warn().Err(err).Str("person_id", p.ID).Str("kind", string(p.Kind)).
			Msg("variant write failed, person record removed")
		return err
	}
	return nil
}

// Get reads a person from its variant store.
func (c *Coordinator) Get(ctx context.Context, kind Kind, id string) (*Person, error) {
	variant, err := c.variant(kind)
	if err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return variant.GetByID(ctx, id)
}

// GetPerson reads from the shared store regardless of variant.
func (c *Coordinator) GetPerson(ctx context.Context, id string) (*Person, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.persons.GetByID(ctx, id)
}

// GetBoth reads a person from the shared store and its variant store in one
// consistent view.
func (c *Coordinator) GetBoth(ctx context.Context, kind Kind, id string) (shared, specific *Person, err error) {
	variant, err := c.variant(kind)
	if err != nil {
		return nil, nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if shared, err = c.persons.GetByID(ctx, id); err != nil {
		return nil, nil, err
	}
	if specific, err = variant.GetByID(ctx, id); err != nil {
		return nil, nil, err
	}
	return shared, specific, nil
}

func (c *Coordinator) List(ctx context.Context, kind Kind, limit, offset int) ([]*Person, int, error) {
	variant, err := c.variant(kind)
	if err != nil {
		return nil, 0, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return variant.List(ctx, limit, offset)
}

func (c *Coordinator) ListPersons(ctx context.Context, limit, offset int) ([]*Person, int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.persons.List(ctx, limit, offset)
}

// Update replaces p in both stores. p must already exist in its variant store.
func (c *Coordinator) Update(ctx context.Context, p *Person) error {
	variant, err := c.variant(p.Kind)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := variant.GetByID(ctx, p.ID); err != nil {
		return err
	}
	return c.update(ctx, variant, p)
}

// Modify applies fn to the stored person and persists the result in both
// stores without letting another writer interleave.
func (c *Coordinator) Modify(ctx context.Context, kind Kind, id string, fn func(*Person) error) error {
	variant, err := c.variant(kind)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	p, err := variant.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := fn(p); err != nil {
		return err
	}
	if p.ID != id || p.Kind != kind {
		return apperr.Invalid("id", "modification must not change identity of %q", id)
	}
	return c.update(ctx, variant, p)
}

// update expects the variant record to exist. A shared record missing at
// that point means the stores already disagree.
func (c *Coordinator) update(ctx context.Context, variant Repository, p *Person) error {
	if err := c.persons.Update(ctx, p); err != nil {
		if !apperr.IsNotFound(err) {
			return err
		}
		return c.fault(&apperr.ConsistencyFault{
			Op:     string(p.Kind) + ".update",
			ID:     p.ID,
			Failed: personStore,
			Cause:  err,
		})
	}
	if err := variant.Update(ctx, p); err != nil {
		return c.fault(&apperr.ConsistencyFault{
			Op:      string(p.Kind) + ".update",
			ID:      p.ID,
			Applied: []string{personStore},
			Failed:  string(p.Kind),
			Cause:   err,
		})
	}
	return nil
}

// Delete removes the person from its variant store and then from the shared
// store.
func (c *Coordinator) Delete(ctx context.Context, kind Kind, id string) error {
	variant, err := c.variant(kind)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := variant.Delete(ctx, id); err != nil {
		return err
	}
	if err := c.persons.Delete(ctx, id); err != nil {
		return c.fault(&apperr.ConsistencyFault{
			Op:      string(kind) + ".delete",
			ID:      id,
			Applied: []string{string(kind)},
			Failed:  personStore,
			Cause:   err,
		})
	}
	return nil
}
