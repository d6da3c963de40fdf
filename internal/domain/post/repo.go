package post

import "context"

type Repository interface {
	Create(ctx context.Context, p *Post) error
	GetByID(ctx context.Context, id string) (*Post, error)
	Update(ctx context.Context, p *Post) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*Post, int, error)
	ListByDisaster(ctx context.Context, disasterID string) ([]*Post, error)
}
