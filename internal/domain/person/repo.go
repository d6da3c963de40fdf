package person

import "context"

// Repository is one physical person collection: the shared person store or
// one of the variant stores.
type Repository interface {
	Create(ctx context.Context, p *Person) error
	GetByID(ctx context.Context, id string) (*Person, error)
	Update(ctx context.Context, p *Person) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*Person, int, error)
}
