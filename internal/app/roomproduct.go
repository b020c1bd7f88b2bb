package app

import (
	"context"

	"amenity_engine/internal/domain"
)

// ResolveRoomProductEntitlements classifies amenities for a batch of
// stays by room product. Room-product entitlements carry no date axis,
// so the result has no date qualification. Duplicate assignments of one
// amenity (upstream data duplication) collapse via the room-product rule
// table: INCLUDED > MANDATORY > EXTRA.
func (s *ResolutionService) ResolveRoomProductEntitlements(ctx context.Context, hotelID int64, stays []domain.RoomProductStay) ([]domain.RoomProductResolution, error) {
	productIDs := make([]int64, 0, len(stays))
	for _, st := range stays {
		productIDs = append(productIDs, st.RoomProductID)
	}
	productIDs = distinctInt64(productIDs)

	ents, err := s.roomProducts.ListRoomProductEntitlements(ctx, productIDs, []int64{hotelID})
	if err != nil {
		return nil, err
	}
	catalog, err := s.hotelAmenities(ctx, hotelID)
	if err != nil {
		return nil, err
	}

	byProduct := map[int64][]domain.RoomProductEntitlement{}
	for _, e := range ents {
		byProduct[e.RoomProductID] = append(byProduct[e.RoomProductID], e)
	}

	out := make([]domain.RoomProductResolution, 0, len(stays))
	for _, st := range stays {
		byClass := map[domain.EntitlementClass][]int64{}
		for _, e := range byProduct[st.RoomProductID] {
			byClass[e.Class] = append(byClass[e.Class], e.AmenityID)
		}
		set := newClassSet()
		applyRules(set, roomProductRules, byClass)

		var ams []domain.ClassifiedAmenity
		for _, a := range catalog {
			switch {
			case set.has(domain.ClassIncluded, a.ID):
				ams = append(ams, domain.ClassifiedAmenity{Amenity: a, Class: domain.ClassIncluded})
			case set.has(domain.ClassExtra, a.ID):
				ams = append(ams, domain.ClassifiedAmenity{Amenity: a, Class: domain.ClassExtra})
			case set.has(domain.ClassMandatory, a.ID):
				ams = append(ams, domain.ClassifiedAmenity{Amenity: a, Class: domain.ClassMandatory})
			}
		}
		out = append(out, domain.RoomProductResolution{
			RoomProductID: st.RoomProductID,
			Index:         st.Index,
			Amenities:     ams,
		})
	}
	return out, nil
}
