package disaster

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/platform/apperr"
	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/platform/clock"
	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/platform/idgen"
)

type Service struct {
	repo   Repository
	ids    idgen.Generator
	clock  clock.Clock
	logger zerolog.Logger
}

func NewService(repo Repository, ids idgen.Generator, clk clock.Clock, logger zerolog.Logger) *Service {
	return &Service{repo: repo, ids: ids, clock: clk, logger: logger}
}

// CreateDisaster assigns a new id to d and stores it.
func (s *Service) CreateDisaster(ctx context.Context, d *Disaster) error {
	if err := d.Validate(s.clock.Today()); err != nil {
		return err
	}
	d.ID = s.ids.NewID()
	if err := s.repo.Create(ctx, d); err != nil {
		s.logger.Error().Err(err).Str("disaster_id", d.ID).Msg("failed to store disaster")
		return fmt.Errorf("create disaster: %w", err)
	}
	s.logger.Info().Str("disaster_id", d.ID).Str("status", string(d.Status)).Msg("disaster created")
	return nil
}

func (s *Service) GetDisaster(ctx context.Context, id string) (*Disaster, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateDisaster replaces the whole aggregate.
func (s *Service) UpdateDisaster(ctx context.Context, d *Disaster) error {
	if d.ID == "" {
		return apperr.Required("id")
	}
	if err := d.Validate(s.clock.Today()); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, d); err != nil {
		s.logger.Warn().Err(err).Str("disaster_id", d.ID).Msg("disaster update rejected")
		return err
	}
	s.logger.Info().Str("disaster_id", d.ID).Msg("disaster updated")
	return nil
}

// ChangeStatus updates only the status field.
func (s *Service) ChangeStatus(ctx context.Context, id string, status Status) error {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	d.Status = status
	return s.UpdateDisaster(ctx, d)
}

// DeleteDisaster does not cascade to posts opened under the disaster.
func (s *Service) DeleteDisaster(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Warn().Err(err).Str("disaster_id", id).Msg("disaster delete rejected")
		return err
	}
	s.logger.Info().Str("disaster_id", id).Msg("disaster deleted")
	return nil
}

func (s *Service) ListDisasters(ctx context.Context, limit, offset int) ([]*Disaster, int, error) {
	return s.repo.List(ctx, limit, offset)
}
