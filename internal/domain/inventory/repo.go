package inventory

import "context"

type Repository interface {
	Create(ctx context.Context, d *Drug) error
	GetByID(ctx context.Context, id string) (*Drug, error)
	Update(ctx context.Context, d *Drug) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*Drug, int, error)
}
