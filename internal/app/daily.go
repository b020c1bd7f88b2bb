package app

import "amenity_engine/internal/domain"

// catalogIndex gives the resolvers O(1) amenity lookups by id and by code.
type catalogIndex struct {
	byID   map[int64]domain.Amenity
	byCode map[string]int64
}

func indexCatalog(as []domain.Amenity) catalogIndex {
	ix := catalogIndex{
		byID:   make(map[int64]domain.Amenity, len(as)),
		byCode: make(map[string]int64, len(as)),
	}
	for _, a := range as {
		ix.byID[a.ID] = a
		if a.Code != "" {
			ix.byCode[a.Code] = a.ID
		}
	}
	return ix
}

// dailyResult maps amenity id → the dates the classification holds.
// An id appears in at most one of the three maps.
type dailyResult struct {
	Extra     map[int64][]string
	Included  map[int64][]string
	Mandatory map[int64][]string
}

// resolveDaily turns one rate plan's base entitlements plus its per-date
// overrides into day-qualified classification maps for the given stay
// dates (inclusive, in order, one entry per calendar day).
//
// EXTRA and MANDATORY come straight from the base rows and cover the full
// span. Base INCLUDED rows are only the fallback for dates without an
// override: an override's code list is the complete INCLUDED set for its
// date and replaces the default, it is never unioned with it.
func resolveDaily(dates []string, base []domain.RatePlanEntitlement, overrides []domain.RatePlanDailyOverride, catalog catalogIndex) dailyResult {
	res := dailyResult{
		Extra:     map[int64][]string{},
		Included:  map[int64][]string{},
		Mandatory: map[int64][]string{},
	}
	if len(dates) == 0 {
		return res
	}

	var defaultIncluded []int64
	for _, e := range base {
		if _, ok := catalog.byID[e.AmenityID]; !ok {
			continue
		}
		switch e.Class {
		case domain.ClassExtra:
			res.Extra[e.AmenityID] = append([]string(nil), dates...)
		case domain.ClassMandatory:
			res.Mandatory[e.AmenityID] = append([]string(nil), dates...)
		case domain.ClassIncluded:
			defaultIncluded = append(defaultIncluded, e.AmenityID)
		}
	}

	byDate := make(map[string]domain.RatePlanDailyOverride, len(overrides))
	for _, o := range overrides {
		byDate[o.Date] = o
	}

	for _, date := range dates {
		includedIDs := defaultIncluded
		if o, ok := byDate[date]; ok {
			includedIDs = nil
			for _, code := range o.IncludedAmenityCodes {
				// codes missing from the catalog are dropped silently
				if id, ok := catalog.byCode[code]; ok {
					includedIDs = append(includedIDs, id)
				}
			}
		}
		for _, id := range includedIDs {
			// Whole-span removal: a single included day strips the
			// amenity's EXTRA/MANDATORY entry for the entire stay, not
			// just this date. Inherited behavior, see DESIGN.md.
			delete(res.Extra, id)
			delete(res.Mandatory, id)
			if ds := res.Included[id]; len(ds) == 0 || ds[len(ds)-1] != date {
				res.Included[id] = append(ds, date)
			}
		}
	}
	return res
}
