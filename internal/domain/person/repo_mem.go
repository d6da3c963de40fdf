package person

import (
	"context"

	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/platform/apperr"
	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/platform/store"
	"github.com/rivoldymakatita/disaster-healthcare-management-system/pkg/pagination"
)

type memRepo struct {
	kind Kind
	s    *store.Store[*Person]
}

// NewMemRepo returns an in-memory collection. A non-empty kind restricts the
// collection to that variant.
func NewMemRepo(entity string, kind Kind) Repository {
	return &memRepo{
		kind: kind,
		s:    store.New(entity, func(p *Person) string { return p.ID }, store.WithClone((*Person).Clone)),
	}
}

func (r *memRepo) accepts(p *Person) error {
	if r.kind != "" && p.Kind != r.kind {
		return apperr.Invalid("kind", "%s store only holds %s records, got %q", r.s.Entity(), r.kind, p.Kind)
	}
	return nil
}

func (r *memRepo) Create(_ context.Context, p *Person) error {
	if err := r.accepts(p); err != nil {
		return err
	}
	return r.s.Add(p)
}

func (r *memRepo) GetByID(_ context.Context, id string) (*Person, error) {
	return r.s.Get(id)
}

func (r *memRepo) Update(_ context.Context, p *Person) error {
	if err := r.accepts(p); err != nil {
		return err
	}
	return r.s.Update(p.ID, p)
}

func (r *memRepo) Delete(_ context.Context, id string) error {
	return r.s.Delete(id)
}

func (r *memRepo) List(_ context.Context, limit, offset int) ([]*Person, int, error) {
	items, total := pagination.Slice(r.s.List(), pagination.New(limit, offset))
	return items, total, nil
}
