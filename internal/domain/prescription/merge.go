package prescription

import (
	"math"
	"strings"

	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/platform/apperr"
)

// ValidateItems checks every requested line on its own.
func ValidateItems(items []RequestItem) error {
	if len(items) == 0 {
		return apperr.Invalid("items", "must not be empty")
	}
	for i, it := range items {
		if strings.TrimSpace(it.DrugID) == "" {
			return apperr.Invalid("items", "item %d: drug_id is required", i)
		}
		if it.Quantity <= 0 {
			return apperr.Invalid("items", "item %d: quantity must be a positive integer, got %d", i, it.Quantity)
		}
		if it.Dosage <= 0 {
			return apperr.Invalid("items", "item %d: dosage must be a positive integer, got %d", i, it.Dosage)
		}
		if strings.TrimSpace(it.Instructions) == "" {
			return apperr.Invalid("items", "item %d: instructions are required", i)
		}
	}
	return nil
}

// Merge collapses lines for the same drug into one, in order of first
// appearance. Quantities are summed; the first line's dosage and
// instructions are kept and later ones are ignored. Items must already have
// passed ValidateItems. A summed quantity that does not fit in an int is a
// ValidationError.
func Merge(items []RequestItem) ([]RequestItem, error) {
	index := make(map[string]int, len(items))
	merged := make([]RequestItem, 0, len(items))
	for _, it := range items {
		if i, ok := index[it.DrugID]; ok {
			if merged[i].Quantity > math.MaxInt-it.Quantity {
				return nil, apperr.Invalid("items", "total quantity for drug %q overflows", it.DrugID)
			}
			merged[i].Quantity += it.Quantity
			continue
		}
		index[it.DrugID] = len(merged)
		merged = append(merged, it)
	}
	return merged, nil
}
