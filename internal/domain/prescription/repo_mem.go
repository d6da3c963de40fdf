package prescription

import (
	"context"

	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/platform/store"
	"github.com/rivoldymakatita/disaster-healthcare-management-system/pkg/pagination"
)

type memRepo struct {
	s *store.Store[*Prescription]
}

func NewMemRepo() Repository {
	return &memRepo{
		s: store.New("prescription", func(p *Prescription) string { return p.ID }, store.WithClone((*Prescription).Clone)),
	}
}

func (r *memRepo) Create(_ context.Context, p *Prescription) error {
	return r.s.Add(p)
}

func (r *memRepo) GetByID(_ context.Context, id string) (*Prescription, error) {
	return r.s.Get(id)
}

func (r *memRepo) Delete(_ context.Context, id string) error {
	return r.s.Delete(id)
}

func (r *memRepo) List(_ context.Context, limit, offset int) ([]*Prescription, int, error) {
	items, total := pagination.Slice(r.s.List(), pagination.New(limit, offset))
	return items, total, nil
}

func (r *memRepo) ListByExamination(_ context.Context, examinationID string) ([]*Prescription, error) {
	var result []*Prescription
	for _, p := range r.s.List() {
		if p.ExaminationID == examinationID {
			result = append(result, p)
		}
	}
	return result, nil
}
