package examination

import (
	"time"

	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/domain/person"
)

// Examination records a staff member's assessment of a victim.
type Examination struct {
	ID        string              `json:"id"`
	VictimID  string              `json:"victim_id"`
	StaffID   string              `json:"staff_id"`
	Date      time.Time           `json:"date"`
	Complaint string              `json:"complaint"`
	Diagnosis string              `json:"diagnosis"`
	Triage    person.TriageStatus `json:"triage_status"`
}

func (e *Examination) Clone() *Examination {
	c := *e
	return &c
}

// Input carries the caller-supplied fields of an examination. Triage is the
// raw token and is parsed case-insensitively. A zero Date means today.
type Input struct {
	VictimID   string
	StaffID    string
	Complaint  string
	Diagnosis  string
	Triage     string
	Date       time.Time
	SyncTriage bool
}
