package app

import (
	"context"
	"sort"

	"amenity_engine/internal/domain"
)

// ResolveRatePlanEntitlements classifies amenities for a batch of stays
// by rate plan. A plan with a derived-rate-plan setting follows its
// master: that master's base entitlements and daily overrides are the
// only data read for the stay, but the returned record still carries the
// caller's original rate plan id. Entitlement and override data for the
// union of followed plans (and the union of all stay dates) is fetched
// once for the whole batch.
func (s *ResolutionService) ResolveRatePlanEntitlements(ctx context.Context, hotelID int64, stays []domain.RatePlanStay) ([]domain.RatePlanResolution, error) {
	planIDs := make([]int64, 0, len(stays))
	for _, st := range stays {
		planIDs = append(planIDs, st.RatePlanID)
	}
	planIDs = distinctInt64(planIDs)

	settings, err := s.ratePlans.ListDerivedSettings(ctx, planIDs)
	if err != nil {
		return nil, err
	}
	follows := make(map[int64]int64, len(settings))
	for _, d := range settings {
		follows[d.RatePlanID] = d.DerivedRatePlanID
	}
	followed := func(id int64) int64 {
		if m, ok := follows[id]; ok {
			return m
		}
		return id
	}

	followIDs := make([]int64, 0, len(planIDs))
	for _, id := range planIDs {
		followIDs = append(followIDs, followed(id))
	}
	followIDs = distinctInt64(followIDs)

	dateSet := map[string]struct{}{}
	for _, st := range stays {
		for _, d := range st.Span.Dates() {
			dateSet[d] = struct{}{}
		}
	}
	allDates := make([]string, 0, len(dateSet))
	for d := range dateSet {
		allDates = append(allDates, d)
	}
	sort.Strings(allDates)

	ents, err := s.ratePlans.ListRatePlanEntitlements(ctx, followIDs)
	if err != nil {
		return nil, err
	}
	overrides, err := s.ratePlans.ListDailyOverrides(ctx, hotelID, allDates, followIDs)
	if err != nil {
		return nil, err
	}
	catalog, err := s.hotelAmenities(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	ix := indexCatalog(catalog)

	entsByPlan := map[int64][]domain.RatePlanEntitlement{}
	for _, e := range ents {
		entsByPlan[e.RatePlanID] = append(entsByPlan[e.RatePlanID], e)
	}
	ovsByPlan := map[int64][]domain.RatePlanDailyOverride{}
	for _, o := range overrides {
		ovsByPlan[o.RatePlanID] = append(ovsByPlan[o.RatePlanID], o)
	}

	out := make([]domain.RatePlanResolution, 0, len(stays))
	for _, st := range stays {
		dates := st.Span.Dates()
		fid := followed(st.RatePlanID)

		inSpan := make(map[string]struct{}, len(dates))
		for _, d := range dates {
			inSpan[d] = struct{}{}
		}
		var stayOvs []domain.RatePlanDailyOverride
		for _, o := range ovsByPlan[fid] {
			if _, ok := inSpan[o.Date]; ok {
				stayOvs = append(stayOvs, o)
			}
		}

		daily := resolveDaily(dates, entsByPlan[fid], stayOvs, ix)
		out = append(out, domain.RatePlanResolution{
			RatePlanID: st.RatePlanID, // the caller's id, not the followed one
			Index:      st.Index,
			Amenities:  classifiedFromDaily(daily, catalog),
		})
	}
	return out, nil
}

// classifiedFromDaily flattens the three daily maps into a single list in
// catalog (amenity id) order. Only INCLUDED entries carry dates; EXTRA
// and MANDATORY hold for the whole span by construction.
func classifiedFromDaily(r dailyResult, catalog []domain.Amenity) []domain.ClassifiedAmenity {
	var out []domain.ClassifiedAmenity
	for _, a := range catalog {
		if ds, ok := r.Included[a.ID]; ok {
			out = append(out, domain.ClassifiedAmenity{Amenity: a, Class: domain.ClassIncluded, IncludedDates: ds})
		} else if _, ok := r.Extra[a.ID]; ok {
			out = append(out, domain.ClassifiedAmenity{Amenity: a, Class: domain.ClassExtra})
		} else if _, ok := r.Mandatory[a.ID]; ok {
			out = append(out, domain.ClassifiedAmenity{Amenity: a, Class: domain.ClassMandatory})
		}
	}
	return out
}
