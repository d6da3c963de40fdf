package disaster

import (
	"context"

	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/platform/store"
	"github.com/rivoldymakatita/disaster-healthcare-management-system/pkg/pagination"
)

type memRepo struct {
	s *store.Store[*Disaster]
}

// NewMemRepo returns a process-lifetime Repository.
func NewMemRepo() Repository {
	return &memRepo{
		s: store.New("disaster", func(d *Disaster) string { return d.ID }, store.WithClone((*Disaster).Clone)),
	}
}

func (r *memRepo) Create(_ context.Context, d *Disaster) error {
	return r.s.Add(d)
}

func (r *memRepo) GetByID(_ context.Context, id string) (*Disaster, error) {
	return r.s.Get(id)
}

func (r *memRepo) Update(_ context.Context, d *Disaster) error {
	return r.s.Update(d.ID, d)
}

func (r *memRepo) Delete(_ context.Context, id string) error {
	return r.s.Delete(id)
}

func (r *memRepo) List(_ context.Context, limit, offset int) ([]*Disaster, int, error) {
	items, total := pagination.Slice(r.s.List(), pagination.New(limit, offset))
	return items, total, nil
}
