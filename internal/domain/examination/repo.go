package examination

import "context"

type Repository interface {
	Create(ctx context.Context, e *Examination) error
	GetByID(ctx context.Context, id string) (*Examination, error)
	Update(ctx context.Context, e *Examination) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*Examination, int, error)
	ListByVictim(ctx context.Context, victimID string) ([]*Examination, error)
}
