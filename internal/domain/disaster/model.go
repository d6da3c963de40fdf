package disaster

import (
	"strings"
	"time"

	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/platform/apperr"
	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/platform/clock"
	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/platform/enum"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusStandby  Status = "standby"
	StatusFinished Status = "finished"
)

var Statuses = []Status{StatusActive, StatusStandby, StatusFinished}

func ParseStatus(s string) (Status, error) {
	return enum.Parse("status", Statuses, s)
}

// Disaster is an incident that relief posts are opened under.
type Disaster struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Location  string    `json:"location"`
	StartDate time.Time `json:"start_date"`
	Status    Status    `json:"status"`
}

func (d *Disaster) Clone() *Disaster {
	c := *d
	return &c
}

// Finished reports whether the disaster no longer accepts new posts.
func (d *Disaster) Finished() bool {
	return d.Status == StatusFinished
}

// Validate checks field invariants against today's date.
func (d *Disaster) Validate(today time.Time) error {
	if strings.TrimSpace(d.Type) == "" {
		return apperr.Required("type")
	}
	if strings.TrimSpace(d.Location) == "" {
		return apperr.Required("location")
	}
	if d.StartDate.IsZero() {
		return apperr.Required("start_date")
	}
	if clock.After(d.StartDate, today) {
		return apperr.Invalid("start_date", "must not be in the future")
	}
	if !enum.Contains(Statuses, d.Status) {
		return apperr.Invalid("status", "invalid value %q, valid values: [%s]", d.Status, enum.Join(Statuses))
	}
	return nil
}
