package person

import (
	"strings"
	"time"

	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/platform/apperr"
	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/platform/clock"
	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/platform/enum"
)

// Kind discriminates the Person variants.
type Kind string

const (
	KindVictim Kind = "victim"
	KindStaff  Kind = "medical_staff"
)

var Kinds = []Kind{KindVictim, KindStaff}

type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

var Sexes = []Sex{SexMale, SexFemale}

func ParseSex(s string) (Sex, error) {
	return enum.Parse("sex", Sexes, s)
}

// TriageStatus is the severity classification of a victim.
type TriageStatus string

const (
	TriageRed    TriageStatus = "red"
	TriageYellow TriageStatus = "yellow"
	TriageGreen  TriageStatus = "green"
	TriageBlack  TriageStatus = "black"
)

var TriageStatuses = []TriageStatus{TriageRed, TriageYellow, TriageGreen, TriageBlack}

func ParseTriage(s string) (TriageStatus, error) {
	return enum.Parse("triage_status", TriageStatuses, s)
}

type Role string

const (
	RoleDoctor     Role = "doctor"
	RoleNurse      Role = "nurse"
	RoleMidwife    Role = "midwife"
	RoleParamedic  Role = "paramedic"
	RolePharmacist Role = "pharmacist"
)

var Roles = []Role{RoleDoctor, RoleNurse, RoleMidwife, RoleParamedic, RolePharmacist}

func ParseRole(s string) (Role, error) {
	return enum.Parse("role", Roles, s)
}

// VictimDetails holds the fields only victims carry.
type VictimDetails struct {
	Triage    TriageStatus `json:"triage_status"`
	Condition string       `json:"initial_condition"`
	FoundAt   string       `json:"location_found"`
	PostID    string       `json:"post_id"`
}

// StaffDetails holds the fields only medical staff carry.
type StaffDetails struct {
	License        string `json:"license_number"`
	Role           Role   `json:"role"`
	Specialization string `json:"specialization"`
	PostID         string `json:"post_id"`
}

// Person is either a victim or a member of the medical staff. Exactly one of
// Victim and Staff is set, matching Kind.
type Person struct {
	ID        string         `json:"id"`
	Kind      Kind           `json:"kind"`
	Name      string         `json:"name"`
	Address   string         `json:"address"`
	Sex       Sex            `json:"sex"`
	BirthDate time.Time      `json:"birth_date"`
	Victim    *VictimDetails `json:"victim,omitempty"`
	Staff     *StaffDetails  `json:"staff,omitempty"`
}

func NewVictim(name, address string, sex Sex, birthDate time.Time, details VictimDetails) *Person {
	return &Person{
		Kind:      KindVictim,
		Name:      name,
		Address:   address,
		Sex:       sex,
		BirthDate: birthDate,
		Victim:    &details,
	}
}

func NewStaff(name, address string, sex Sex, birthDate time.Time, details StaffDetails) *Person {
	return &Person{
		Kind:      KindStaff,
		Name:      name,
		Address:   address,
		Sex:       sex,
		BirthDate: birthDate,
		Staff:     &details,
	}
}

func (p *Person) Clone() *Person {
	c := *p
	if p.Victim != nil {
		v := *p.Victim
		c.Victim = &v
	}
	if p.Staff != nil {
		s := *p.Staff
		c.Staff = &s
	}
	return &c
}

// PostID returns the post the person is registered at.
func (p *Person) PostID() string {
	switch {
	case p.Victim != nil:
		return p.Victim.PostID
	case p.Staff != nil:
		return p.Staff.PostID
	}
	return ""
}

func (p *Person) Validate(today time.Time) error {
	if strings.TrimSpace(p.Name) == "" {
		return apperr.Required("name")
	}
	if strings.TrimSpace(p.Address) == "" {
		return apperr.Required("address")
	}
	if !enum.Contains(Sexes, p.Sex) {
		return apperr.Invalid("sex", "invalid value %q, valid values: [%s]", p.Sex, enum.Join(Sexes))
	}
	if p.BirthDate.IsZero() {
		return apperr.Required("birth_date")
	}
	if clock.After(p.BirthDate, today) {
		return apperr.Invalid("birth_date", "must not be in the future")
	}

	switch p.Kind {
	case KindVictim:
		if p.Victim == nil || p.Staff != nil {
			return apperr.Invalid("kind", "victim must carry victim details only")
		}
		return p.Victim.validate()
	case KindStaff:
		if p.Staff == nil || p.Victim != nil {
			return apperr.Invalid("kind", "medical staff must carry staff details only")
		}
		return p.Staff.validate()
	default:
		return apperr.Invalid("kind", "invalid value %q, valid values: [%s]", p.Kind, enum.Join(Kinds))
	}
}

func (v *VictimDetails) validate() error {
	if !enum.Contains(TriageStatuses, v.Triage) {
		return apperr.Invalid("triage_status", "invalid value %q, valid values: [%s]", v.Triage, enum.Join(TriageStatuses))
	}
	if strings.TrimSpace(v.Condition) == "" {
		return apperr.Required("initial_condition")
	}
	if strings.TrimSpace(v.FoundAt) == "" {
		return apperr.Required("location_found")
	}
	if v.PostID == "" {
		return apperr.Required("post_id")
	}
	return nil
}

func (s *StaffDetails) validate() error {
	if strings.TrimSpace(s.License) == "" {
		return apperr.Required("license_number")
	}
	if !enum.Contains(Roles, s.Role) {
		return apperr.Invalid("role", "invalid value %q, valid values: [%s]", s.Role, enum.Join(Roles))
	}
	if strings.TrimSpace(s.Specialization) == "" {
		return apperr.Required("specialization")
	}
	if s.PostID == "" {
		return apperr.Required("post_id")
	}
	return nil
}
