package mess

import (
	"strings"
	"time"

	"github.com/messhall/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// MenuEntry represents one item on the weekly menu: a
// (day-of-week, meal-slot, item, diet-category) tuple. Duplicates are
// permitted; there is no uniqueness constraint across the tuple.
type MenuEntry struct {
	shared.BaseAggregateRoot
	Day      string
	Meal     string
	Item     string
	FoodType string
	// Cost is the optional per-serving cost used for provisioning estimates
	Cost *decimal.Decimal
}

// NewMenuEntry creates a new menu entry. Day and meal labels are
// Title-cased so "monday" and "Monday" select the same weekday; matching
// elsewhere is exact equality on the stored value.
func NewMenuEntry(day, meal, item, foodType string) (*MenuEntry, error) {
	day = strings.TrimSpace(day)
	meal = strings.TrimSpace(meal)
	item = strings.TrimSpace(item)
	if day == "" {
		return nil, shared.NewDomainError("INVALID_DAY", "Day cannot be empty")
	}
	if meal == "" {
		return nil, shared.NewDomainError("INVALID_MEAL", "Meal cannot be empty")
	}
	if item == "" {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item cannot be empty")
	}

	entry := &MenuEntry{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Day:               titleCaser.String(strings.ToLower(day)),
		Meal:              titleCaser.String(strings.ToLower(meal)),
		Item:              item,
		FoodType:          strings.TrimSpace(foodType),
	}

	entry.AddDomainEvent(NewMenuEntryCreatedEvent(entry))

	return entry, nil
}

// SetCost sets the optional per-serving cost
func (m *MenuEntry) SetCost(cost decimal.Decimal) error {
	if cost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Cost cannot be negative")
	}

	m.Cost = &cost
	m.UpdatedAt = time.Now()
	m.IncrementVersion()

	return nil
}

// IsVeg reports whether the entry's diet category is exactly "veg",
// case-insensitively. Anything else lands in the non-veg catch-all.
func (m *MenuEntry) IsVeg() bool {
	return strings.ToLower(m.FoodType) == FoodTypeVeg
}

// NormalizeDayLabel Title-cases a weekday label the same way NewMenuEntry
// stores it, so "monday" queries match "Monday" rows.
func NormalizeDayLabel(day string) string {
	return titleCaser.String(strings.ToLower(strings.TrimSpace(day)))
}

// ConflictsWith reports whether the entry's item name contains the given
// allergy string, case-insensitively. An empty allergy string never
// conflicts. Substring containment is the deliberate policy, false
// positives included ("nut" flags "Donut").
func (m *MenuEntry) ConflictsWith(allergies string) bool {
	allergies = strings.TrimSpace(allergies)
	if allergies == "" {
		return false
	}
	return strings.Contains(strings.ToLower(m.Item), strings.ToLower(allergies))
}
