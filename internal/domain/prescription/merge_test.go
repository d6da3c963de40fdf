package prescription

import (
	"math"
	"testing"

	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/platform/apperr"
)

func TestMerge_SumsDuplicatesFirstOccurrenceWins(t *testing.T) {
	merged, err := Merge([]RequestItem{
		{DrugID: "a", Quantity: 10, Dosage: 1, Instructions: "3x1 after meals"},
		{DrugID: "b", Quantity: 1, Dosage: 1, Instructions: "apply to wound"},
		{DrugID: "a", Quantity: 5, Dosage: 2, Instructions: "2x1"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(merged) != 2 {
		t.Fatalf("expected 2 merged items, got %d", len(merged))
	}
	if merged[0].DrugID != "a" || merged[1].DrugID != "b" {
		t.Errorf("expected first-appearance order [a b], got [%s %s]", merged[0].DrugID, merged[1].DrugID)
	}
	if merged[0].Quantity != 15 {
		t.Errorf("expected quantity 15, got %d", merged[0].Quantity)
	}
	if merged[0].Dosage != 1 || merged[0].Instructions != "3x1 after meals" {
		t.Errorf("expected first occurrence dosage and instructions, got %d / %q", merged[0].Dosage, merged[0].Instructions)
	}
}

func TestMerge_DoesNotModifyInput(t *testing.T) {
	in := []RequestItem{{DrugID: "a", Quantity: 1}, {DrugID: "a", Quantity: 2}}
	if _, err := Merge(in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in[0].Quantity != 1 {
		t.Errorf("input mutated: %d", in[0].Quantity)
	}
}

func TestMerge_RejectsOverflowingTotal(t *testing.T) {
	_, err := Merge([]RequestItem{
		{DrugID: "a", Quantity: math.MaxInt, Dosage: 1, Instructions: "x"},
		{DrugID: "a", Quantity: math.MaxInt, Dosage: 1, Instructions: "x"},
	})
	if !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	merged, err := Merge([]RequestItem{
		{DrugID: "a", Quantity: math.MaxInt - 1, Dosage: 1, Instructions: "x"},
		{DrugID: "a", Quantity: 1, Dosage: 1, Instructions: "x"},
	})
	if err != nil {
		t.Fatalf("a total of exactly MaxInt must be accepted: %v", err)
	}
	if merged[0].Quantity != math.MaxInt {
		t.Errorf("expected MaxInt, got %d", merged[0].Quantity)
	}
}

func TestValidateItems(t *testing.T) {
	valid := RequestItem{DrugID: "a", Quantity: 1, Dosage: 1, Instructions: "1x1"}
	tests := []struct {
		name    string
		items   []RequestItem
		wantErr bool
	}{
		{"valid", []RequestItem{valid}, false},
		{"empty", nil, true},
		{"blank drug", []RequestItem{{DrugID: " ", Quantity: 1, Dosage: 1, Instructions: "x"}}, true},
		{"zero quantity", []RequestItem{{DrugID: "a", Quantity: 0, Dosage: 1, Instructions: "x"}}, true},
		{"negative dosage", []RequestItem{{DrugID: "a", Quantity: 1, Dosage: -1, Instructions: "x"}}, true},
		{"blank instructions", []RequestItem{{DrugID: "a", Quantity: 1, Dosage: 1, Instructions: ""}}, true},
		{"second item invalid", []RequestItem{valid, {DrugID: "b"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateItems(tt.items)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateItems() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !apperr.IsValidation(err) {
				t.Errorf("expected validation error, got %T", err)
			}
		})
	}
}

func TestPhase_Transitions(t *testing.T) {
	if !PhaseValidating.canMoveTo(PhaseFailed) {
		t.Error("validating must be able to fail directly")
	}
	if PhaseReserving.canMoveTo(PhaseFailed) {
		t.Error("reserving must roll back before failing")
	}
	if PhaseCommitted.canMoveTo(PhaseRollingBack) {
		t.Error("committed is terminal")
	}
	if !PhaseCommitted.Terminal() || !PhaseFailed.Terminal() || PhaseRolledBack.Terminal() {
		t.Error("unexpected terminal set")
	}
}
