package prescription

import "time"

// Item is one line of a prescription. A prescription holds at most one item
// per drug.
type Item struct {
	DrugID       string `json:"drug_id"`
	DrugName     string `json:"drug_name"`
	Quantity     int    `json:"quantity"`
	Dosage       int    `json:"dosage"`
	Instructions string `json:"instructions"`
}

type Prescription struct {
	ID            string    `json:"id"`
	ExaminationID string    `json:"examination_id"`
	Items         []Item    `json:"items"`
	IssueDate     time.Time `json:"issue_date"`
}

func (p *Prescription) Clone() *Prescription {
	c := *p
	c.Items = append([]Item(nil), p.Items...)
	return &c
}

// Item returns the line for drugID, if any.
func (p *Prescription) Item(drugID string) (Item, bool) {
	for _, it := range p.Items {
		if it.DrugID == drugID {
			return it, true
		}
	}
	return Item{}, false
}

// RequestItem is a requested line before merging.
type RequestItem struct {
	DrugID       string
	Quantity     int
	Dosage       int
	Instructions string
}
