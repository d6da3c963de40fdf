package person

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/domain/post"
	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/platform/apperr"
	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/platform/clock"
	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/platform/idgen"
)

// PostLookup resolves the post a person is registered at.
type PostLookup interface {
	GetPost(ctx context.Context, id string) (*post.Post, error)
}

type Service struct {
	coord  *Coordinator
	posts  PostLookup
	ids    idgen.Generator
	clock  clock.Clock
	logger zerolog.Logger
}

func NewService(coord *Coordinator, posts PostLookup, ids idgen.Generator, clk clock.Clock, logger zerolog.Logger) *Service {
	return &Service{coord: coord, posts: posts, ids: ids, clock: clk, logger: logger}
}

// Coordinator exposes the dual-write coordinator, shared with the triage
// synchronizer.
func (s *Service) Coordinator() *Coordinator {
	return s.coord
}

func (s *Service) check(ctx context.Context, p *Person, kind Kind) error {
	if p.Kind != kind {
		return apperr.Invalid("kind", "expected %s, got %q", kind, p.Kind)
	}
	if err := p.Validate(s.clock.Today()); err != nil {
		return err
	}
	if _, err := s.posts.GetPost(ctx, p.PostID()); err != nil {
		return err
	}
	return nil
}

func (s *Service) create(ctx context.Context, p *Person, kind Kind) error {
	if err := s.check(ctx, p, kind); err != nil {
		return err
	}
	p.ID = s.ids.NewID()
	if err := s.coord.Create(ctx, p); err != nil {
		return err
	}
	s.logger.Info().Str("person_id", p.ID).Str("kind", string(kind)).Str("post_id", p.PostID()).Msg("person registered")
	return nil
}

func (s *Service) update(ctx context.Context, p *Person, kind Kind) error {
	if p.ID == "" {
		return apperr.Required("id")
	}
	if err := s.check(ctx, p, kind); err != nil {
		return err
	}
	if err := s.coord.Update(ctx, p); err != nil {
		return err
	}
	s.logger.Info().Str("person_id", p.ID).Str("kind", string(kind)).Msg("person updated")
	return nil
}

func (s *Service) remove(ctx context.Context, kind Kind, id string) error {
	if err := s.coord.Delete(ctx, kind, id); err != nil {
		return err
	}
	s.logger.Info().Str("person_id", id).Str("kind", string(kind)).Msg("person removed")
	return nil
}

// -- Victim --

// CreateVictim registers a victim at an existing post and assigns its id.
func (s *Service) CreateVictim(ctx context.Context, v *Person) error {
	return s.create(ctx, v, KindVictim)
}

func (s *Service) GetVictim(ctx context.Context, id string) (*Person, error) {
	return s.coord.Get(ctx, KindVictim, id)
}

func (s *Service) ListVictims(ctx context.Context, limit, offset int) ([]*Person, int, error) {
	return s.coord.List(ctx, KindVictim, limit, offset)
}

func (s *Service) UpdateVictim(ctx context.Context, v *Person) error {
	return s.update(ctx, v, KindVictim)
}

func (s *Service) DeleteVictim(ctx context.Context, id string) error {
	return s.remove(ctx, KindVictim, id)
}

// -- Medical Staff --

func (s *Service) CreateStaff(ctx context.Context, m *Person) error {
	return s.create(ctx, m, KindStaff)
}

func (s *Service) GetStaff(ctx context.Context, id string) (*Person, error) {
	return s.coord.Get(ctx, KindStaff, id)
}

func (s *Service) ListStaff(ctx context.Context, limit, offset int) ([]*Person, int, error) {
	return s.coord.List(ctx, KindStaff, limit, offset)
}

func (s *Service) UpdateStaff(ctx context.Context, m *Person) error {
	return s.update(ctx, m, KindStaff)
}

func (s *Service) DeleteStaff(ctx context.Context, id string) error {
	return s.remove(ctx, KindStaff, id)
}

// -- Generic lookups --

func (s *Service) GetPerson(ctx context.Context, id string) (*Person, error) {
	return s.coord.GetPerson(ctx, id)
}

func (s *Service) ListPersons(ctx context.Context, limit, offset int) ([]*Person, int, error) {
	return s.coord.ListPersons(ctx, limit, offset)
}
