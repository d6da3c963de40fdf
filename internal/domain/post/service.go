package post

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/domain/disaster"
	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/platform/apperr"
	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/platform/idgen"
)

// DisasterLookup resolves the disaster a post belongs to.
type DisasterLookup interface {
	GetDisaster(ctx context.Context, id string) (*disaster.Disaster, error)
}

type Service struct {
	repo      Repository
	disasters DisasterLookup
	ids       idgen.Generator
	logger    zerolog.Logger
}

func NewService(repo Repository, disasters DisasterLookup, ids idgen.Generator, logger zerolog.Logger) *Service {
	return &Service{repo: repo, disasters: disasters, ids: ids, logger: logger}
}

// CreatePost stores p under an existing disaster that has not finished.
func (s *Service) CreatePost(ctx context.Context, p *Post) error {
	if err := p.Validate(); err != nil {
		return err
	}
	d, err := s.disasters.GetDisaster(ctx, p.DisasterID)
	if err != nil {
		return err
	}
	if d.Finished() {
		return apperr.Invalid("disaster_id", "disaster %q is finished and cannot receive new posts", d.ID)
	}
	p.ID = s.ids.NewID()
	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.Error().Err(err).Str("post_id", p.ID).Msg("failed to store post")
		return fmt.Errorf("create post: %w", err)
	}
	s.logger.Info().Str("post_id", p.ID).Str("disaster_id", p.DisasterID).Msg("post created")
	return nil
}

func (s *Service) GetPost(ctx context.Context, id string) (*Post, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdatePost replaces the whole aggregate. The disaster must still exist but
// may be finished.
func (s *Service) UpdatePost(ctx context.Context, p *Post) error {
	if p.ID == "" {
		return apperr.Required("id")
	}
	if err := p.Validate(); err != nil {
		return err
	}
	if _, err := s.repo.GetByID(ctx, p.ID); err != nil {
		return err
	}
	if _, err := s.disasters.GetDisaster(ctx, p.DisasterID); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return err
	}
	s.logger.Info().Str("post_id", p.ID).Msg("post updated")
	return nil
}

func (s *Service) ChangeStatus(ctx context.Context, id string, status Status) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	p.Status = status
	if err := p.Validate(); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return err
	}
	s.logger.Info().Str("post_id", id).Str("status", string(status)).Msg("post status changed")
	return nil
}

func (s *Service) DeletePost(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Warn().Err(err).Str("post_id", id).Msg("post delete rejected")
		return err
	}
	s.logger.Info().Str("post_id", id).Msg("post deleted")
	return nil
}

func (s *Service) ListPosts(ctx context.Context, limit, offset int) ([]*Post, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) ListPostsByDisaster(ctx context.Context, disasterID string) ([]*Post, error) {
	return s.repo.ListByDisaster(ctx, disasterID)
}
