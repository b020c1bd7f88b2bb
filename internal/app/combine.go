package app

import (
	"sort"

	"amenity_engine/internal/domain"
)

// Combine merges one rate-plan result and one room-product result for a
// single reservation into the final per-amenity classification.
//
// Precedence, highest first:
//
//	room-product INCLUDED > room-product MANDATORY >
//	rate-plan classification > room-product EXTRA (additive only)
//
// The rate-plan classes seed the set, then the combine rule table layers
// the room-product classes on top. Pure function: inputs are not
// mutated and repeated calls give identical results.
func Combine(ratePlan, roomProduct []domain.ClassifiedAmenity, catalog []domain.Amenity) domain.CombinedResolution {
	set := newClassSet()
	rpDates := map[int64][]string{}
	for _, a := range ratePlan {
		set.add(a.Class, a.ID)
		if a.Class == domain.ClassIncluded {
			rpDates[a.ID] = a.IncludedDates
		}
	}

	byClass := map[domain.EntitlementClass][]int64{}
	prIncluded := map[int64]struct{}{}
	for _, a := range roomProduct {
		byClass[a.Class] = append(byClass[a.Class], a.ID)
		if a.Class == domain.ClassIncluded {
			prIncluded[a.ID] = struct{}{}
		}
	}
	applyRules(set, combineRules, byClass)

	ordered := make([]domain.Amenity, len(catalog))
	copy(ordered, catalog)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	var res domain.CombinedResolution
	for _, a := range ordered {
		switch {
		case set.has(domain.ClassIncluded, a.ID):
			ca := domain.ClassifiedAmenity{Amenity: a, Class: domain.ClassIncluded}
			// Dates only when the inclusion is attributable to the rate
			// plan alone; the room-product source has no date axis.
			if ds, ok := rpDates[a.ID]; ok {
				if _, pr := prIncluded[a.ID]; !pr {
					ca.IncludedDates = ds
				}
			}
			res.Included = append(res.Included, ca)
		case set.has(domain.ClassExtra, a.ID):
			res.Extra = append(res.Extra, domain.ClassifiedAmenity{Amenity: a, Class: domain.ClassExtra})
		case set.has(domain.ClassMandatory, a.ID):
			res.Mandatory = append(res.Mandatory, domain.ClassifiedAmenity{Amenity: a, Class: domain.ClassMandatory})
		}
	}
	return res
}
