package prescription

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/domain/examination"
	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/domain/inventory"
	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/platform/apperr"
	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/platform/clock"
	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/platform/idgen"
	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/platform/telemetry"
)

// ExaminationLookup resolves the examination a prescription is issued for.
type ExaminationLookup interface {
	GetExamination(ctx context.Context, id string) (*examination.Examination, error)
}

type Service struct {
	repo     Repository
	exams    ExaminationLookup
	ledger   *inventory.Ledger
	ids      idgen.Generator
	clock    clock.Clock
	logger   zerolog.Logger
	metrics  *telemetry.Metrics
	observer Observer
}

func NewService(repo Repository, exams ExaminationLookup, ledger *inventory.Ledger, ids idgen.Generator, clk clock.Clock, logger zerolog.Logger, metrics *telemetry.Metrics) *Service {
	return &Service{repo: repo, exams: exams, ledger: ledger, ids: ids, clock: clk, logger: logger, metrics: metrics}
}

// SetObserver attaches a hook called on every transaction phase change.
func (s *Service) SetObserver(o Observer) {
	s.observer = o
}

// Issue creates a prescription dated today. See IssueOn.
func (s *Service) Issue(ctx context.Context, examinationID string, items []RequestItem) (string, error) {
	return s.IssueOn(ctx, examinationID, items, time.Time{})
}

// IssueOn validates the request, reserves stock for every merged line and
// stores the prescription. Nothing is changed if validation fails. A failure
// after stock has been taken restores the recorded stock before the original
// error is returned; restore failures are logged and left to the ledger's
// rollback policy.
func (s *Service) IssueOn(ctx context.Context, examinationID string, items []RequestItem, issueDate time.Time) (string, error) {
	tx := newTransaction(examinationID, s.logger, s.observer)
	err := s.run(ctx, tx, items, issueDate)
	s.finish(tx, err)
	if err != nil {
		return "", err
	}
	return tx.PrescriptionID, nil
}

func (s *Service) run(ctx context.Context, tx *Transaction, items []RequestItem, issueDate time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := s.exams.GetExamination(ctx, tx.ExaminationID); err != nil {
		return err
	}
	if err := ValidateItems(items); err != nil {
		return err
	}
	today := s.clock.Today()
	if issueDate.IsZero() {
		issueDate = today
	}
	if clock.After(issueDate, today) {
		return apperr.Invalid("issue_date", "must not be in the future")
	}
	merged, err := Merge(items)
	if err != nil {
		return err
	}
	tx.Items = merged

	return s.ledger.Reserve(ctx, tx.drugIDs(), func(r *inventory.Reservation) error {
		for _, it := range tx.Items {
			d, err := r.Check(it.DrugID, it.Quantity)
			if err != nil {
				return err
			}
			tx.before[d.ID] = d.Stock
			tx.names[d.ID] = d.Name
		}

		tx.moveTo(PhaseReserving)
		for _, it := range tx.Items {
			if err := ctx.Err(); err != nil {
				return s.rollback(tx, r, fmt.Errorf("reservation interrupted: %w", err))
			}
			if err := r.Decrease(it.DrugID, it.Quantity); err != nil {
				return s.rollback(tx, r, err)
			}
			tx.applied = append(tx.applied, it.DrugID)
		}

		tx.moveTo(PhaseCommitting)
		p := &Prescription{
			ID:            s.ids.NewID(),
			ExaminationID: tx.ExaminationID,
			Items:         make([]Item, len(tx.Items)),
			IssueDate:     clock.DateOf(issueDate),
		}
		for i, it := range tx.Items {
			p.Items[i] = Item{
				DrugID:       it.DrugID,
				DrugName:     tx.names[it.DrugID],
				Quantity:     it.Quantity,
				Dosage:       it.Dosage,
				Instructions: it.Instructions,
			}
		}
		if err := s.repo.Create(ctx, p); err != nil {
			return s.rollback(tx, r, fmt.Errorf("store prescription: %w", err))
		}
		tx.PrescriptionID = p.ID
		tx.moveTo(PhaseCommitted)
		return nil
	})
}

// rollback puts back the recorded stock of every applied drug and returns
// cause unchanged.
func (s *Service) rollback(tx *Transaction, r *inventory.Reservation, cause error) error {
	tx.moveTo(PhaseRollingBack)
	s.metrics.RollbackStarted()
	tx.logger.Warn().Err(cause).Strs("applied", tx.applied).Msg("prescription failed, rolling back stock")

	for _, id := range tx.applied {
		if err := r.Restore(id, tx.before[id]); err != nil {
			tx.restoreFailures = append(tx.restoreFailures, id)
			tx.logger.Error().Err(err).Str("drug_id", id).Int("stock", tx.before[id]).Msg("rollback could not restore stock")
		}
	}
	tx.moveTo(PhaseRolledBack)
	return cause
}

func (s *Service) finish(tx *Transaction, err error) {
	tx.Err = err
	elapsed := time.Since(tx.started).Seconds()
	if err == nil {
		s.metrics.PrescriptionOutcome(telemetry.OutcomeCommitted, elapsed)
		tx.logger.Info().
			Str("prescription_id", tx.PrescriptionID).
			Int("items", len(tx.Items)).
			Msg("prescription issued")
		return
	}

	outcome := telemetry.OutcomeRejected
	switch {
	case len(tx.restoreFailures) > 0:
		outcome = telemetry.OutcomeFaulted
	case tx.phase == PhaseRolledBack:
		outcome = telemetry.OutcomeRolledBack
	}
	tx.moveTo(PhaseFailed)
	s.metrics.PrescriptionOutcome(outcome, elapsed)
	tx.logger.Warn().Err(err).Str("outcome", outcome).Msg("prescription not issued")
}

func (s *Service) GetPrescription(ctx context.Context, id string) (*Prescription, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListPrescriptions(ctx context.Context, limit, offset int) ([]*Prescription, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) ListByExamination(ctx context.Context, examinationID string) ([]*Prescription, error) {
	return s.repo.ListByExamination(ctx, examinationID)
}

// DeletePrescription removes the record only; dispensed stock is not
// returned.
func (s *Service) DeletePrescription(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("prescription_id", id).Msg("prescription deleted")
	return nil
}
