package examination

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/domain/person"
	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/platform/apperr"
	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/platform/clock"
	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/platform/idgen"
)

// PersonLookup resolves the victim and staff member an examination refers to.
type PersonLookup interface {
	GetVictim(ctx context.Context, id string) (*person.Person, error)
	GetStaff(ctx context.Context, id string) (*person.Person, error)
}

// TriageSyncer propagates an examination's triage result to the victim.
type TriageSyncer interface {
	Sync(ctx context.Context, victimID string, status person.TriageStatus) error
}

type Service struct {
	repo    Repository
	persons PersonLookup
	triage  TriageSyncer
	ids     idgen.Generator
	clock   clock.Clock
	logger  zerolog.Logger
}

func NewService(repo Repository, persons PersonLookup, triage TriageSyncer, ids idgen.Generator, clk clock.Clock, logger zerolog.Logger) *Service {
	return &Service{repo: repo, persons: persons, triage: triage, ids: ids, clock: clk, logger: logger}
}

// build resolves references and validates fields without touching any store.
func (s *Service) build(ctx context.Context, in Input) (*Examination, error) {
	if in.VictimID == "" {
		return nil, apperr.Required("victim_id")
	}
	if in.StaffID == "" {
		return nil, apperr.Required("staff_id")
	}
	if _, err := s.persons.GetVictim(ctx, in.VictimID); err != nil {
		return nil, err
	}
	if _, err := s.persons.GetStaff(ctx, in.StaffID); err != nil {
		return nil, err
	}

	triage, err := person.ParseTriage(in.Triage)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Complaint) == "" {
		return nil, apperr.Required("complaint")
	}
	if strings.TrimSpace(in.Diagnosis) == "" {
		return nil, apperr.Required("diagnosis")
	}
	today := s.clock.Today()
	date := in.Date
	if date.IsZero() {
		date = today
	}
	if clock.After(date, today) {
		return nil, apperr.Invalid("date", "must not be in the future")
	}

	return &Examination{
		VictimID:  in.VictimID,
		StaffID:   in.StaffID,
		Date:      clock.DateOf(date),
		Complaint: in.Complaint,
		Diagnosis: in.Diagnosis,
		Triage:    triage,
	}, nil
}

// syncTriage runs after the examination is stored. A failure leaves the
// examination in place and is reported as a fault naming it.
func (s *Service) syncTriage(ctx context.Context, e *Examination) error {
	if err := s.triage.Sync(ctx, e.VictimID, e.Triage); err != nil {
		s.logger.Error().Err(err).
			Str("examination_id", e.ID).
			Str("victim_id", e.VictimID).
			Msg("examination stored but triage sync failed")
		return &apperr.ConsistencyFault{
			Op:      "examination.triage_sync",
			ID:      e.ID,
			Applied: []string{"examination"},
			Failed:  "victim",
			Cause:   err,
		}
	}
	return nil
}

// RecordExamination stores a new examination and, if requested, copies its
// triage result onto the victim. When the sync fails the stored examination
// is still returned alongside the fault.
func (s *Service) RecordExamination(ctx context.Context, in Input) (*Examination, error) {
	e, err := s.build(ctx, in)
	if err != nil {
		return nil, err
	}
	e.ID = s.ids.NewID()
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("create examination: %w", err)
	}
	s.logger.Info().
		Str("examination_id", e.ID).
		Str("victim_id", e.VictimID).
		Str("staff_id", e.StaffID).
		Str("triage_status", string(e.Triage)).
		Bool("sync_triage", in.SyncTriage).
		Msg("examination recorded")

	if in.SyncTriage {
		if err := s.syncTriage(ctx, e); err != nil {
			return e, err
		}
	}
	return e, nil
}

// UpdateExamination replaces an examination with freshly validated input and
// re-syncs triage when requested.
func (s *Service) UpdateExamination(ctx context.Context, id string, in Input) (*Examination, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	e, err := s.build(ctx, in)
	if err != nil {
		return nil, err
	}
	e.ID = id
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	s.logger.Info().Str("examination_id", id).Msg("examination updated")

	if in.SyncTriage {
		if err := s.syncTriage(ctx, e); err != nil {
			return e, err
		}
	}
	return e, nil
}

func (s *Service) GetExamination(ctx context.Context, id string) (*Examination, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListExaminations(ctx context.Context, limit, offset int) ([]*Examination, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) ListByVictim(ctx context.Context, victimID string) ([]*Examination, error) {
	return s.repo.ListByVictim(ctx, victimID)
}

// DeleteExamination does not cascade to prescriptions issued for it.
func (s *Service) DeleteExamination(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("examination_id", id).Msg("examination deleted")
	return nil
}
