// Command relief-sim runs a scripted disaster-relief scenario against the
// in-memory core: a disaster and post are opened, staff and a victim are
// registered, drugs are stocked, and an examination with triage sync is
// followed by a prescription.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/config"
	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/domain/disaster"
	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/domain/inventory"
	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/domain/person"
	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/domain/post"
	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/domain/prescription"
	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/platform/logging"
	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/platform/telemetry"
	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/registry"
	"github.com/rivoldymakatita/disaster-healthcare-management-system/pkg/pagination"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "relief-sim",
		Short: "Disaster relief core simulator",
	}
	rootCmd.AddCommand(runCmd())
	return rootCmd
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the scripted relief scenario",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := logging.New(cfg)

	reg := prometheus.NewRegistry()
	metrics, err := telemetry.New(cfg.MetricsNamespace, reg)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := registry.New(cfg, registry.Options{Logger: &logger, Metrics: metrics})
	summary, err := runScenario(ctx, r)
	if err != nil {
		logger.Error().Err(err).Msg("scenario failed")
		return err
	}

	logger.Info().
		Str("victim_id", summary.VictimID).
		Str("triage_status", string(summary.Triage)).
		Str("prescription_id", summary.PrescriptionID).
		Interface("stock", summary.Stock).
		Msg("scenario completed")
	logMetrics(logger, reg)
	return nil
}

// summary is the observable end state of a scenario run.
type summary struct {
	DisasterID     string
	PostID         string
	StaffID        string
	VictimID       string
	ExaminationID  string
	PrescriptionID string
	Triage         person.TriageStatus
	Stock          map[string]int
}

func runScenario(ctx context.Context, r *registry.Registry) (*summary, error) {
	s := &summary{}
	today := r.Clock().Today()

	d := &disaster.Disaster{
		Type:      "Earthquake",
		Location:  "Cianjur",
		StartDate: today,
		Status:    disaster.StatusActive,
	}
	if err := r.Disasters.CreateDisaster(ctx, d); err != nil {
		return nil, fmt.Errorf("disaster: %w", err)
	}
	s.DisasterID = d.ID

	p := &post.Post{
		DisasterID: d.ID,
		Name:       "Posko Utama Cianjur",
		Address:    "Jl. Raya Cianjur No. 1",
		Capacity:   100,
		Status:     post.StatusActive,
	}
	if err := r.Posts.CreatePost(ctx, p); err != nil {
		return nil, fmt.Errorf("post: %w", err)
	}
	s.PostID = p.ID

	doctor := person.NewStaff("Dr. Andi", "Bandung", person.SexMale, time.Date(1985, time.January, 2, 0, 0, 0, 0, time.UTC), person.StaffDetails{
		License:        "SIP-001",
		Role:           person.RoleDoctor,
		Specialization: "emergency medicine",
		PostID:         p.ID,
	})
	if err := r.People.CreateStaff(ctx, doctor); err != nil {
		return nil, fmt.Errorf("staff: %w", err)
	}
	s.StaffID = doctor.ID

	triage, err := person.ParseTriage("Yellow")
	if err != nil {
		return nil, err
	}
	victim := person.NewVictim("Siti", "Cugenang", person.SexFemale, time.Date(1990, time.May, 1, 0, 0, 0, 0, time.UTC), person.VictimDetails{
		Triage:    triage,
		Condition: "fractured left arm",
		FoundAt:   "collapsed house in Cugenang",
		PostID:    p.ID,
	})
	if err := r.People.CreateVictim(ctx, victim); err != nil {
		return nil, fmt.Errorf("victim: %w", err)
	}
	s.VictimID = victim.ID

	expiry := today.AddDate(1, 0, 0)
	paracetamol := &inventory.Drug{Name: "Paracetamol", Stock: 100, Unit: "tablet", ExpiryDate: expiry}
	betadine := &inventory.Drug{Name: "Betadine", Stock: 50, Unit: "bottle", ExpiryDate: expiry}
	for _, drug := range []*inventory.Drug{paracetamol, betadine} {
		if err := r.Drugs.CreateDrug(ctx, drug); err != nil {
			return nil, fmt.Errorf("drug %s: %w", drug.Name, err)
		}
	}

	sync := true
	exam, err := r.RecordExamination(ctx, registry.ExaminationRequest{
		VictimID:   victim.ID,
		StaffID:    doctor.ID,
		Complaint:  "pain and swelling in left arm",
		Diagnosis:  "closed fracture of the radius",
		Triage:     "Green",
		SyncTriage: &sync,
	})
	if err != nil {
		return nil, fmt.Errorf("examination: %w", err)
	}
	s.ExaminationID = exam.ID

	rxID, err := r.IssuePrescription(ctx, exam.ID, []prescription.RequestItem{
		{DrugID: paracetamol.ID, Quantity: 10, Dosage: 500, Instructions: "3x1 after meals"},
		{DrugID: betadine.ID, Quantity: 1, Dosage: 1, Instructions: "apply to wound twice a day"},
	})
	if err != nil {
		return nil, fmt.Errorf("prescription: %w", err)
	}
	s.PrescriptionID = rxID

	v, err := r.People.GetVictim(ctx, victim.ID)
	if err != nil {
		return nil, err
	}
	s.Triage = v.Victim.Triage
	if s.Stock, err = collectStock(ctx, r); err != nil {
		return nil, err
	}
	return s, nil
}

// collectStock walks the drug list one default-sized page at a time and
// reads each drug's current stock from the ledger, keyed by name.
func collectStock(ctx context.Context, r *registry.Registry) (map[string]int, error) {
	stock := map[string]int{}
	for p := pagination.Default(); ; p.Offset = p.NextOffset() {
		drugs, total, err := r.Drugs.ListDrugs(ctx, p.Limit, p.Offset)
		if err != nil {
			return nil, fmt.Errorf("list drugs: %w", err)
		}
		page := pagination.NewPage(drugs, total, p)
		for _, d := range page.Items {
			n, err := r.Ledger.Stock(ctx, d.ID)
			if err != nil {
				return nil, err
			}
			stock[d.Name] = n
		}
		if !page.HasMore {
			return stock, nil
		}
	}
}

func logMetrics(logger zerolog.Logger, g prometheus.Gatherer) {
	families, err := g.Gather()
	if err != nil {
		logger.Warn().Err(err).Msg("gather metrics")
		return
	}
	for _, f := range families {
		for _, m := range f.GetMetric() {
			ev := logger.Debug().Str("metric", f.GetName())
			for _, lp := range m.GetLabel() {
				ev = ev.Str(lp.GetName(), lp.GetValue())
			}
			switch {
			case m.GetCounter() != nil:
				ev.Float64("value", m.GetCounter().GetValue()).Msg("metric")
			case m.GetGauge() != nil:
				ev.Float64("value", m.GetGauge().GetValue()).Msg("metric")
			case m.GetHistogram() != nil:
				ev.Uint64("count", m.GetHistogram().GetSampleCount()).Msg("metric")
			default:
				ev.Msg("metric")
			}
		}
	}
}
