package registry

import (
	"context"

	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/platform/apperr"
	"github.com/rivoldymakatita/disaster-healthcare-management-system/pkg/pagination"
)

// Dangling is a stored reference whose target no longer exists.
type Dangling struct {
	Entity string
	ID     string
	Field  string
	Target string
	Ref    string
}

// FKReport walks every collection and lists references left dangling by
// deletes. It never mutates anything.
func (r *Registry) FKReport(ctx context.Context) ([]Dangling, error) {
	var out []Dangling
	all := pagination.All()
	missing := func(err error) (bool, error) {
		if err == nil {
			return false, nil
		}
		if apperr.IsNotFound(err) {
			return true, nil
		}
		return false, err
	}
	check := func(entity, id, field, target, ref string, err error) error {
		gone, err := missing(err)
		if err != nil {
			return err
		}
		if gone {
			out = append(out, Dangling{Entity: entity, ID: id, Field: field, Target: target, Ref: ref})
		}
		return nil
	}

	posts, _, err := r.Posts.ListPosts(ctx, all.Limit, all.Offset)
	if err != nil {
		return nil, err
	}
	for _, p := range posts {
		_, gerr := r.Disasters.GetDisaster(ctx, p.DisasterID)
		if err := check("post", p.ID, "disaster_id", "disaster", p.DisasterID, gerr); err != nil {
			return nil, err
		}
	}

	persons, _, err := r.People.ListPersons(ctx, all.Limit, all.Offset)
	if err != nil {
		return nil, err
	}
	for _, p := range persons {
		_, gerr := r.Posts.GetPost(ctx, p.PostID())
		if err := check(string(p.Kind), p.ID, "post_id", "post", p.PostID(), gerr); err != nil {
			return nil, err
		}
	}

	exams, _, err := r.Examinations.ListExaminations(ctx, all.Limit, all.Offset)
	if err != nil {
		return nil, err
	}
	for _, e := range exams {
		_, gerr := r.People.GetVictim(ctx, e.VictimID)
		if err := check("examination", e.ID, "victim_id", "victim", e.VictimID, gerr); err != nil {
			return nil, err
		}
		_, gerr = r.People.GetStaff(ctx, e.StaffID)
		if err := check("examination", e.ID, "staff_id", "medical_staff", e.StaffID, gerr); err != nil {
			return nil, err
		}
	}

	scripts, _, err := r.Prescriptions.ListPrescriptions(ctx, all.Limit, all.Offset)
	if err != nil {
		return nil, err
	}
	for _, p := range scripts {
		_, gerr := r.Examinations.GetExamination(ctx, p.ExaminationID)
		if err := check("prescription", p.ID, "examination_id", "examination", p.ExaminationID, gerr); err != nil {
			return nil, err
		}
		for _, it := range p.Items {
			_, gerr := r.Drugs.GetDrug(ctx, it.DrugID)
			if err := check("prescription", p.ID, "items.drug_id", "drug", it.DrugID, gerr); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}
