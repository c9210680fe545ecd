// Package pricing holds the price computation and schedule validation used
// by both the live preview endpoint and the publish gate.
//
// Everything here is pure: functions read the records they are given and
// never touch storage. Malformed or negative values are coerced to safe
// defaults and reported as notes rather than returned as errors.
package pricing

import (
	"fmt"

	"github.com/Priyanka03s/travel-sid-sub002/internal/models"
)

// TierMode selects how accommodation tiers feed the accommodation sum when
// neither a flat value nor itemized costs are provided.
type TierMode struct {
	all  bool
	tier models.TierName
}

// AllTiers sums every tier's total. Used for publish validation and for the
// quote stored on a published listing.
var AllTiers = TierMode{all: true}

// SelectedTier uses only the named tier's total. Used by the interactive
// preview, where the traveler-facing price depends on one chosen tier.
func SelectedTier(name models.TierName) TierMode {
	return TierMode{tier: name}
}

func (m TierMode) String() string {
	if m.all {
		return "all"
	}
	return "selected:" + string(m.tier)
}

// CostSums are the per-category subtotals.
type CostSums struct {
	Accommodation  float64
	Transportation float64
	Activities     float64
	Notes          []string
}

// Subtotal is the sum of the three categories.
func (s CostSums) Subtotal() float64 {
	return s.Accommodation + s.Transportation + s.Activities
}

// AggregateCosts computes the category subtotals of a pricing record.
//
// A flat value that is present and non-zero wins over its itemized list.
// Accommodation falls back to the tiers only when the flat value is absent
// or zero and the itemized list is empty.
func AggregateCosts(p models.Pricing, tiers *models.AccommodationTiers, mode TierMode) CostSums {
	var sums CostSums
	sums.Accommodation = categorySum("accommodation", p.Accommodation, p.AccommodationItems, &sums.Notes)
	sums.Transportation = categorySum("transportation", p.Transportation, p.TransportationItems, &sums.Notes)
	sums.Activities = categorySum("activities", p.Activities, p.ActivityItems, &sums.Notes)

	if !hasFlat(p.Accommodation) && len(p.AccommodationItems) == 0 && tiers != nil {
		sums.Accommodation = tierSum(tiers, mode, &sums.Notes)
	}
	return sums
}

func hasFlat(v *float64) bool {
	return v != nil && *v > 0
}

func categorySum(category string, flat *float64, items []models.CostItem, notes *[]string) float64 {
	if flat != nil && *flat != 0 {
		if *flat > 0 {
			return *flat
		}
		*notes = append(*notes, fmt.Sprintf("%s: negative flat value %.2f ignored", category, *flat))
	}
	var sum float64
	for i, item := range items {
		if item.Cost < 0 {
			*notes = append(*notes, fmt.Sprintf("%s item %d: negative cost %.2f counted as 0", category, i+1, item.Cost))
			continue
		}
		sum += item.Cost
	}
	return sum
}

func tierSum(tiers *models.AccommodationTiers, mode TierMode, notes *[]string) float64 {
	if !mode.all {
		t, ok := tiers.Tier(mode.tier)
		if !ok {
			*notes = append(*notes, fmt.Sprintf("accommodation: unknown tier %q", mode.tier))
			return 0
		}
		return tierTotal(string(mode.tier), t, notes)
	}
	var sum float64
	for _, name := range models.TierNames {
		t, _ := tiers.Tier(name)
		sum += tierTotal(string(name), t, notes)
	}
	return sum
}

// TierTotal is the day-1 price plus every additional day's price.
func TierTotal(t models.Tier) float64 {
	var discard []string
	return tierTotal("", t, &discard)
}

func tierTotal(name string, t models.Tier, notes *[]string) float64 {
	var total float64
	if t.TierPrice < 0 {
		*notes = append(*notes, fmt.Sprintf("accommodation.%s: negative day 1 price counted as 0", name))
	} else {
		total = t.TierPrice
	}
	for _, d := range t.TierDays {
		if d.Price < 0 {
			*notes = append(*notes, fmt.Sprintf("accommodation.%s: negative price for day %d counted as 0", name, d.Day))
			continue
		}
		total += d.Price
	}
	return total
}

// ValidateTierDays checks that no tier prices more additional days than the
// itinerary has nights. Day 1 is covered by the tier price, so a tier may
// list at most itineraryDates-1 additional days. An empty itinerary is not
// checked since the wizard fills it later.
func ValidateTierDays(tiers *models.AccommodationTiers, itineraryDates int) []string {
	if tiers == nil || itineraryDates <= 0 {
		return nil
	}
	nights := itineraryDates - 1
	var problems []string
	for _, name := range models.TierNames {
		t, _ := tiers.Tier(name)
		if len(t.TierDays) > nights {
			problems = append(problems, fmt.Sprintf("%s: %d additional days exceed %d available nights", name, len(t.TierDays), nights))
		}
	}
	return problems
}
