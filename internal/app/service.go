package app

import (
	"context"
	"fmt"
	"sort"
	"time"

	"amenity_engine/internal/domain"
)

// ResolutionService resolves amenity entitlements for reservation batches.
// All collaborator data is fetched once per batch and the resolution
// itself is pure: identical inputs give identical outputs regardless of
// batch order.
type ResolutionService struct {
	catalog      domain.AmenityCatalog
	ratePlans    domain.RatePlanEntitlementSource
	roomProducts domain.RoomProductEntitlementSource
	cache        domain.Cache
	cacheTTL     time.Duration
}

func NewResolutionService(
	catalog domain.AmenityCatalog,
	ratePlans domain.RatePlanEntitlementSource,
	roomProducts domain.RoomProductEntitlementSource,
	cache domain.Cache,
	ttl time.Duration,
) *ResolutionService {
	return &ResolutionService{
		catalog:      catalog,
		ratePlans:    ratePlans,
		roomProducts: roomProducts,
		cache:        cache,
		cacheTTL:     ttl,
	}
}

// hotelAmenities returns the hotel's catalog sorted by id, cache-aside.
func (s *ResolutionService) hotelAmenities(ctx context.Context, hotelID int64) ([]domain.Amenity, error) {
	key := fmt.Sprintf("amenities:%d", hotelID)
	var as []domain.Amenity
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &as); ok {
			return as, nil
		}
	}
	as, err := s.catalog.ListAmenities(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	sort.Slice(as, func(i, j int) bool { return as[i].ID < as[j].ID })
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, as, int(s.cacheTTL.Seconds()))
	}
	return as, nil
}

// ResolveStayEntitlements resolves reservations that carry both a rate
// plan and a room product: both batch resolvers run off their single
// up-front fetches, then the per-reservation results are combined.
func (s *ResolutionService) ResolveStayEntitlements(ctx context.Context, hotelID int64, stays []domain.Stay) ([]domain.StayResolution, error) {
	rpStays := make([]domain.RatePlanStay, 0, len(stays))
	prStays := make([]domain.RoomProductStay, 0, len(stays))
	for _, st := range stays {
		rpStays = append(rpStays, domain.RatePlanStay{Span: st.Span, RatePlanID: st.RatePlanID, Index: st.Index})
		prStays = append(prStays, domain.RoomProductStay{RoomProductID: st.RoomProductID, Index: st.Index})
	}

	rp, err := s.ResolveRatePlanEntitlements(ctx, hotelID, rpStays)
	if err != nil {
		return nil, err
	}
	pr, err := s.ResolveRoomProductEntitlements(ctx, hotelID, prStays)
	if err != nil {
		return nil, err
	}
	catalog, err := s.hotelAmenities(ctx, hotelID)
	if err != nil {
		return nil, err
	}

	rpByIndex := make(map[int][]domain.ClassifiedAmenity, len(rp))
	for _, r := range rp {
		rpByIndex[r.Index] = r.Amenities
	}
	prByIndex := make(map[int][]domain.ClassifiedAmenity, len(pr))
	for _, r := range pr {
		prByIndex[r.Index] = r.Amenities
	}

	out := make([]domain.StayResolution, 0, len(stays))
	for _, st := range stays {
		out = append(out, domain.StayResolution{
			Index:  st.Index,
			Result: Combine(rpByIndex[st.Index], prByIndex[st.Index], catalog),
		})
	}
	return out, nil
}

func distinctInt64(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
