package examination

import (
	"context"

	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/platform/store"
	"github.com/rivoldymakatita/disaster-healthcare-management-system/pkg/pagination"
)

type memRepo struct {
	s *store.Store[*Examination]
}

func NewMemRepo() Repository {
	return &memRepo{
		s: store.New("examination", func(e *Examination) string { return e.ID }, store.WithClone((*Examination).Clone)),
	}
}

func (r *memRepo) Create(_ context.Context, e *Examination) error {
	return r.s.Add(e)
}

func (r *memRepo) GetByID(_ context.Context, id string) (*Examination, error) {
	return r.s.Get(id)
}

func (r *memRepo) Update(_ context.Context, e *Examination) error {
	return r.s.Update(e.ID, e)
}

func (r *memRepo) Delete(_ context.Context, id string) error {
	return r.s.Delete(id)
}

func (r *memRepo) List(_ context.Context, limit, offset int) ([]*Examination, int, error) {
	items, total := pagination.Slice(r.s.List(), pagination.New(limit, offset))
	return items, total, nil
}

func (r *memRepo) ListByVictim(_ context.Context, victimID string) ([]*Examination, error) {
	var result []*Examination
	for _, e := range r.s.List() {
		if e.VictimID == victimID {
			result = append(result, e)
		}
	}
	return result, nil
}
