package post

import (
	"context"

	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/platform/store"
	"github.com/rivoldymakatita/disaster-healthcare-management-system/pkg/pagination"
)

type memRepo struct {
	s *store.Store[*Post]
}

func NewMemRepo() Repository {
	return &memRepo{
		s: store.New("post", func(p *Post) string { return p.ID }, store.WithClone((*Post).Clone)),
	}
}

func (r *memRepo) Create(_ context.Context, p *Post) error {
	return r.s.Add(p)
}

func (r *memRepo) GetByID(_ context.Context, id string) (*Post, error) {
	return r.s.Get(id)
}

func (r *memRepo) Update(_ context.Context, p *Post) error {
	return r.s.Update(p.ID, p)
}

func (r *memRepo) Delete(_ context.Context, id string) error {
	return r.s.Delete(id)
}

func (r *memRepo) List(_ context.Context, limit, offset int) ([]*Post, int, error) {
	items, total := pagination.Slice(r.s.List(), pagination.New(limit, offset))
	return items, total, nil
}

func (r *memRepo) ListByDisaster(_ context.Context, disasterID string) ([]*Post, error) {
	var result []*Post
	for _, p := range r.s.List() {
		if p.DisasterID == disasterID {
			result = append(result, p)
		}
	}
	return result, nil
}
