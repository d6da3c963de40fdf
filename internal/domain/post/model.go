package post

import (
	"strings"

	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/platform/apperr"
	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/platform/enum"
)

type Status string

const (
	StatusActive  Status = "active"
	StatusStandby Status = "standby"
	StatusClosed  Status = "closed"
)

var Statuses = []Status{StatusActive, StatusStandby, StatusClosed}

func ParseStatus(s string) (Status, error) {
	return enum.Parse("status", Statuses, s)
}

// Post is a relief post opened under a disaster. Victims and medical staff
// are registered against a post.
type Post struct {
	ID         string `json:"id"`
	DisasterID string `json:"disaster_id"`
	Name       string `json:"name"`
	Address    string `json:"address"`
	Capacity   int    `json:"capacity"`
	Status     Status `json:"status"`
}

func (p *Post) Clone() *Post {
	c := *p
	return &c
}

func (p *Post) Validate() error {
	if p.DisasterID == "" {
		return apperr.Required("disaster_id")
	}
	if strings.TrimSpace(p.Name) == "" {
		return apperr.Required("name")
	}
	if strings.TrimSpace(p.Address) == "" {
		return apperr.Required("address")
	}
	if p.Capacity < 0 {
		return apperr.Invalid("capacity", "must not be negative, got %d", p.Capacity)
	}
	if !enum.Contains(Statuses, p.Status) {
		return apperr.Invalid("status", "invalid value %q, valid values: [%s]", p.Status, enum.Join(Statuses))
	}
	return nil
}
