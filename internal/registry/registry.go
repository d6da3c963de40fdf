// Package registry wires one store per entity kind together with the services
// that own them, and exposes the two composite workflows: recording an
// examination and issuing a prescription.
//
// Every foreign reference is resolved through the owning service before the
// dependent aggregate is built, so a missing reference surfaces as a
// *apperr.NotFoundError and nothing is stored. Deletes never cascade; FKReport
// lists the references such deletes leave behind.
package registry

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/config"
	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/domain/disaster"
	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/domain/examination"
	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/domain/inventory"
	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/domain/person"
	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/domain/post"
	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/domain/prescription"
	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/platform/clock"
	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/platform/idgen"
	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/platform/logging"
	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/platform/telemetry"
)

// Options overrides the collaborators New would otherwise derive from config.
type Options struct {
	Clock   clock.Clock
	IDs     idgen.Generator
	Logger  *zerolog.Logger
	Metrics *telemetry.Metrics
}

type Registry struct {
	Disasters     *disaster.Service
	Posts         *post.Service
	People        *person.Service
	Triage        *person.TriageSynchronizer
	Drugs         *inventory.Service
	Ledger        *inventory.Ledger
	Examinations  *examination.Service
	Prescriptions *prescription.Service

	syncDefault bool
	clock       clock.Clock
}

func New(cfg *config.Config, opts Options) *Registry {
	clk := opts.Clock
	if clk == nil {
		clk = clock.System{Location: cfg.Location()}
	}
	ids := opts.IDs
	if ids == nil {
		ids = idgen.UUID{}
	}
	var logger zerolog.Logger
	if opts.Logger != nil {
		logger = *opts.Logger
	} else {
		logger = logging.New(cfg)
	}
	metrics := opts.Metrics

	disasters := disaster.NewService(disaster.NewMemRepo(), ids, clk, logging.Component(logger, "disaster"))
	posts := post.NewService(post.NewMemRepo(), disasters, ids, logging.Component(logger, "post"))

	coord := person.NewCoordinator(
		person.NewMemRepo("person", ""),
		person.NewMemRepo("victim", person.KindVictim),
		person.NewMemRepo("medical_staff", person.KindStaff),
		logging.Component(logger, "person.coordinator"),
		metrics,
	)
	people := person.NewService(coord, posts, ids, clk, logging.Component(logger, "person"))
	triage := person.NewTriageSynchronizer(coord, logging.Component(logger, "triage"), metrics)

	drugRepo := inventory.NewMemRepo()
	policy := inventory.PolicyLog
	if cfg.QuarantineOnRollbackFailure() {
		policy = inventory.PolicyQuarantine
	}
	ledger := inventory.NewLedger(drugRepo, clk, policy, logging.Component(logger, "ledger"), metrics)
	drugs := inventory.NewService(drugRepo, ledger, ids, clk, logging.Component(logger, "drug"))

	exams := examination.NewService(examination.NewMemRepo(), people, triage, ids, clk, logging.Component(logger, "examination"))
	prescriptions := prescription.NewService(prescription.NewMemRepo(), exams, ledger, ids, clk, logging.Component(logger, "prescription"), metrics)

	logger.Info().
		Str("rollback_policy", string(policy)).
		Bool("triage_sync_default", cfg.TriageSyncDefault).
		Msg("relief registry wired")

	return &Registry{
		Disasters:     disasters,
		Posts:         posts,
		People:        people,
		Triage:        triage,
		Drugs:         drugs,
		Ledger:        ledger,
		Examinations:  exams,
		Prescriptions: prescriptions,
		syncDefault:   cfg.TriageSyncDefault,
		clock:         clk,
	}
}

// Clock returns the clock every service validates dates against.
func (r *Registry) Clock() clock.Clock {
	return r.clock
}

// ExaminationRequest is the input of RecordExamination. A nil SyncTriage
// falls back to the configured default.
type ExaminationRequest struct {
	VictimID   string
	StaffID    string
	Complaint  string
	Diagnosis  string
	Triage     string
	Date       time.Time
	SyncTriage *bool
}

// RecordExamination stores an examination for an existing victim and staff
// member and optionally copies its triage result onto the victim.
func (r *Registry) RecordExamination(ctx context.Context, req ExaminationRequest) (*examination.Examination, error) {
	sync := r.syncDefault
	if req.SyncTriage != nil {
		sync = *req.SyncTriage
	}
	return r.Examinations.RecordExamination(ctx, examination.Input{
		VictimID:   req.VictimID,
		StaffID:    req.StaffID,
		Complaint:  req.Complaint,
		Diagnosis:  req.Diagnosis,
		Triage:     req.Triage,
		Date:       req.Date,
		SyncTriage: sync,
	})
}

// IssuePrescription runs the prescription transaction and returns the new id.
func (r *Registry) IssuePrescription(ctx context.Context, examinationID string, items []prescription.RequestItem) (string, error) {
	return r.Prescriptions.Issue(ctx, examinationID, items)
}
