package inventory

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/platform/apperr"
	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/platform/clock"
	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/platform/idgen"
	"github.com/rivoldymakatita/disaster-healthcare-management-system/pkg/pagination"
)

type Service struct {
	repo   Repository
	ledger *Ledger
	ids    idgen.Generator
	clock  clock.Clock
	logger zerolog.Logger
}

func NewService(repo Repository, ledger *Ledger, ids idgen.Generator, clk clock.Clock, logger zerolog.Logger) *Service {
	return &Service{repo: repo, ledger: ledger, ids: ids, clock: clk, logger: logger}
}

func (s *Service) Ledger() *Ledger {
	return s.ledger
}

func (s *Service) CreateDrug(ctx context.Context, d *Drug) error {
	if err := d.Validate(s.clock.Today()); err != nil {
		return err
	}
	d.ID = s.ids.NewID()
	if err := s.repo.Create(ctx, d); err != nil {
		s.logger.Error().Err(err).Str("drug_id", d.ID).Msg("failed to store drug")
		return fmt.Errorf("create drug: %w", err)
	}
	s.logger.Info().Str("drug_id", d.ID).Str("name", d.Name).Int("stock", d.Stock).Msg("drug created")
	return nil
}

func (s *Service) GetDrug(ctx context.Context, id string) (*Drug, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateDrug replaces the whole aggregate, stock included, while holding the
// drug's ledger lock. A quarantined drug can only be changed via Reconcile.
func (s *Service) UpdateDrug(ctx context.Context, d *Drug) error {
	if d.ID == "" {
		return apperr.Required("id")
	}
	if err := d.Validate(s.clock.Today()); err != nil {
		return err
	}
	err := s.ledger.Exclusive(d.ID, func() error {
		if err := s.ledger.checkQuarantine("drug.update", d.ID); err != nil {
			return err
		}
		return s.repo.Update(ctx, d)
	})
	if err != nil {
		return err
	}
	s.logger.Info().Str("drug_id", d.ID).Msg("drug updated")
	return nil
}

func (s *Service) DeleteDrug(ctx context.Context, id string) error {
	err := s.ledger.Exclusive(id, func() error {
		return s.repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.ledger.Forget(id)
	s.logger.Info().Str("drug_id", id).Msg("drug deleted")
	return nil
}

func (s *Service) ListDrugs(ctx context.Context, limit, offset int) ([]*Drug, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// ListExpired returns every drug whose expiry date has passed.
func (s *Service) ListExpired(ctx context.Context) ([]*Drug, error) {
	p := pagination.All()
	all, _, err := s.repo.List(ctx, p.Limit, p.Offset)
	if err != nil {
		return nil, err
	}
	today := s.clock.Today()
	var expired []*Drug
	for _, d := range all {
		if d.ExpiredOn(today) {
			expired = append(expired, d)
		}
	}
	return expired, nil
}
