package inventory

import (
	"strings"
	"time"

	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/platform/apperr"
	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/platform/clock"
)

// Drug is a stocked medicine. Stock is never negative.
type Drug struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Stock      int       `json:"stock"`
	Unit       string    `json:"unit"`
	ExpiryDate time.Time `json:"expiry_date"`
}

func (d *Drug) Clone() *Drug {
	c := *d
	return &c
}

// ExpiredOn reports whether the drug expired strictly before day.
func (d *Drug) ExpiredOn(day time.Time) bool {
	return clock.Before(d.ExpiryDate, day)
}

// Validate checks field invariants. The expiry date may not already have
// passed when a drug is created or replaced.
func (d *Drug) Validate(today time.Time) error {
	if strings.TrimSpace(d.Name) == "" {
		return apperr.Required("name")
	}
	if strings.TrimSpace(d.Unit) == "" {
		return apperr.Required("unit")
	}
	if d.Stock < 0 {
		return apperr.Invalid("stock", "must not be negative, got %d", d.Stock)
	}
	if d.ExpiryDate.IsZero() {
		return apperr.Required("expiry_date")
	}
	if d.ExpiredOn(today) {
		return apperr.Invalid("expiry_date", "must not be in the past")
	}
	return nil
}
