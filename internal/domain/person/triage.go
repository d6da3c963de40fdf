package person

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/platform/apperr"
	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/platform/enum"
	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/platform/telemetry"
)

// TriageSynchronizer copies an examination's triage result onto the victim
// through the Coordinator.
type TriageSynchronizer struct {
	coord   *Coordinator
	logger  zerolog.Logger
	metrics *telemetry.Metrics
}

func NewTriageSynchronizer(coord *Coordinator, logger zerolog.Logger, metrics *telemetry.Metrics) *TriageSynchronizer {
	return &TriageSynchronizer{coord: coord, logger: logger, metrics: metrics}
}

// Sync overwrites the victim's triage status. A victim that has disappeared
// is reported as a ConsistencyFault.
func (t *TriageSynchronizer) Sync(ctx context.Context, victimID string, status TriageStatus) error {
	if !enum.Contains(TriageStatuses, status) {
		return apperr.Invalid("triage_status", "invalid value %q, valid values: [%s]", status, enum.Join(TriageStatuses))
	}
	var previous TriageStatus
	err := t.coord.Modify(ctx, KindVictim, victimID, func(p *Person) error {
		if p.Victim == nil {
			return apperr.Invalid("kind", "person %q has no victim details", p.ID)
		}
		previous = p.Victim.Triage
		p.Victim.Triage = status
		return nil
	})
	if apperr.IsNotFound(err) && !apperr.IsConsistencyFault(err) {
		t.logger.Error().Err(err).Str("victim_id", victimID).Msg("triage sync target vanished")
		t.metrics.ConsistencyFault("triage.sync")
		return &apperr.ConsistencyFault{Op: "triage.sync", ID: victimID, Failed: string(KindVictim), Cause: err}
	}
	if err != nil {
		return err
	}
	t.logger.Info().
		Str("victim_id", victimID).
		Str("from", string(previous)).
		Str("to", string(status)).
		Msg("triage status synchronized")
	return nil
}
