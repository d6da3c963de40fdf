package disaster

import "context"

type Repository interface {
	Create(ctx context.Context, d *Disaster) error
	GetByID(ctx context.Context, id string) (*Disaster, error)
	Update(ctx context.Context, d *Disaster) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*Disaster, int, error)
}
