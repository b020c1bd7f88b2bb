package app_test

import (
	"context"
	"reflect"
	"testing"
	"time"

	"amenity_engine/internal/app"
	"amenity_engine/internal/domain"
)

// ---- fakes ----

type fakeSources struct {
	amenities    []domain.Amenity
	entitlements []domain.RatePlanEntitlement
	overrides    []domain.RatePlanDailyOverride
	derived      []domain.DerivedRatePlanSetting
	roomProducts []domain.RoomProductEntitlement

	catalogCalls int
}

func (f *fakeSources) ListAmenities(ctx context.Context, hotelID int64) ([]domain.Amenity, error) {
	f.catalogCalls++
	return f.amenities, nil
}

func (f *fakeSources) ListRatePlanEntitlements(ctx context.Context, ratePlanIDs []int64) ([]domain.RatePlanEntitlement, error) {
	want := map[int64]struct{}{}
	for _, id := range ratePlanIDs {
		want[id] = struct{}{}
	}
	var out []domain.RatePlanEntitlement
	for _, e := range f.entitlements {
		if _, ok := want[e.RatePlanID]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeSources) ListDailyOverrides(ctx context.Context, hotelID int64, dates []string, ratePlanIDs []int64) ([]domain.RatePlanDailyOverride, error) {
	wantPlan := map[int64]struct{}{}
	for _, id := range ratePlanIDs {
		wantPlan[id] = struct{}{}
	}
	wantDate := map[string]struct{}{}
	for _, d := range dates {
		wantDate[d] = struct{}{}
	}
	var out []domain.RatePlanDailyOverride
	for _, o := range f.overrides {
		if _, ok := wantPlan[o.RatePlanID]; !ok {
			continue
		}
		if _, ok := wantDate[o.Date]; !ok {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeSources) ListDerivedSettings(ctx context.Context, ratePlanIDs []int64) ([]domain.DerivedRatePlanSetting, error) {
	return f.derived, nil
}

func (f *fakeSources) ListRoomProductEntitlements(ctx context.Context, roomProductIDs []int64, hotelIDs []int64) ([]domain.RoomProductEntitlement, error) {
	want := map[int64]struct{}{}
	for _, id := range roomProductIDs {
		want[id] = struct{}{}
	}
	var out []domain.RoomProductEntitlement
	for _, e := range f.roomProducts {
		if _, ok := want[e.RoomProductID]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeCache struct {
	store map[string][]domain.Amenity
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	if c.store == nil {
		return false, nil
	}
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	if d, ok := dst.(*[]domain.Amenity); ok {
		*d = v
	}
	return true, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string][]domain.Amenity{}
	}
	if as, ok := v.([]domain.Amenity); ok {
		c.store[key] = as
	}
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	delete(c.store, key)
	return nil
}

func newService(src *fakeSources) *app.ResolutionService {
	return app.NewResolutionService(src, src, src, &fakeCache{}, 10*time.Minute)
}

var serviceCatalog = []domain.Amenity{
	{ID: 1, Code: "BRK", HotelID: 9},
	{ID: 2, Code: "SPA", HotelID: 9},
	{ID: 3, Code: "PRK", HotelID: 9},
}

// ---- tests ----

// A plan with a derived setting resolves off the master's data but the
// result still carries the caller's rate plan id.
func TestResolveRatePlans_DerivedPlanFollowsMaster(t *testing.T) {
	src := &fakeSources{
		amenities: serviceCatalog,
		derived:   []domain.DerivedRatePlanSetting{{RatePlanID: 10, DerivedRatePlanID: 20}},
		entitlements: []domain.RatePlanEntitlement{
			{RatePlanID: 20, AmenityID: 1, Class: domain.ClassIncluded}, // master's data
			{RatePlanID: 10, AmenityID: 2, Class: domain.ClassExtra},    // must not be read
		},
	}
	svc := newService(src)

	out, err := svc.ResolveRatePlanEntitlements(context.Background(), 9, []domain.RatePlanStay{
		{Span: domain.StaySpan{FromDate: "2026-08-01", ToDate: "2026-08-02"}, RatePlanID: 10, Index: 4},
	})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(out) != 1 || out[0].RatePlanID != 10 || out[0].Index != 4 {
		t.Fatalf("identity echo: %+v", out)
	}
	if len(out[0].Amenities) != 1 || out[0].Amenities[0].ID != 1 || out[0].Amenities[0].Class != domain.ClassIncluded {
		t.Fatalf("amenities: %+v", out[0].Amenities)
	}
	if !reflect.DeepEqual(out[0].Amenities[0].IncludedDates, []string{"2026-08-01", "2026-08-02"}) {
		t.Fatalf("dates: %v", out[0].Amenities[0].IncludedDates)
	}
}

// Resolving two reservations together equals resolving them separately.
func TestResolveRatePlans_BatchIndependence(t *testing.T) {
	src := &fakeSources{
		amenities: serviceCatalog,
		entitlements: []domain.RatePlanEntitlement{
			{RatePlanID: 7, AmenityID: 1, Class: domain.ClassIncluded},
			{RatePlanID: 8, AmenityID: 2, Class: domain.ClassMandatory},
		},
		overrides: []domain.RatePlanDailyOverride{
			{RatePlanID: 7, Date: "2026-08-02", IncludedAmenityCodes: []string{"PRK"}},
		},
	}
	svc := newService(src)

	r1 := domain.RatePlanStay{Span: domain.StaySpan{FromDate: "2026-08-01", ToDate: "2026-08-02"}, RatePlanID: 7, Index: 0}
	r2 := domain.RatePlanStay{Span: domain.StaySpan{FromDate: "2026-08-05", ToDate: "2026-08-05"}, RatePlanID: 8, Index: 1}

	together, err := svc.ResolveRatePlanEntitlements(context.Background(), 9, []domain.RatePlanStay{r1, r2})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	alone1, _ := svc.ResolveRatePlanEntitlements(context.Background(), 9, []domain.RatePlanStay{r1})
	alone2, _ := svc.ResolveRatePlanEntitlements(context.Background(), 9, []domain.RatePlanStay{r2})

	if !reflect.DeepEqual(together[0], alone1[0]) {
		t.Fatalf("r1 differs:\n%+v\n%+v", together[0], alone1[0])
	}
	if !reflect.DeepEqual(together[1], alone2[0]) {
		t.Fatalf("r2 differs:\n%+v\n%+v", together[1], alone2[0])
	}
}

func TestResolveRoomProducts_IntraSourcePrecedence(t *testing.T) {
	src := &fakeSources{
		amenities: serviceCatalog,
		roomProducts: []domain.RoomProductEntitlement{
			{RoomProductID: 3, AmenityID: 1, Class: domain.ClassIncluded},
			{RoomProductID: 3, AmenityID: 1, Class: domain.ClassExtra}, // duplicate upstream row
			{RoomProductID: 3, AmenityID: 2, Class: domain.ClassMandatory},
			{RoomProductID: 3, AmenityID: 2, Class: domain.ClassExtra},
		},
	}
	svc := newService(src)

	out, err := svc.ResolveRoomProductEntitlements(context.Background(), 9, []domain.RoomProductStay{
		{RoomProductID: 3, Index: 0},
	})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	ams := out[0].Amenities
	if len(ams) != 2 {
		t.Fatalf("amenities: %+v", ams)
	}
	if ams[0].ID != 1 || ams[0].Class != domain.ClassIncluded {
		t.Fatalf("amenity 1: %+v", ams[0])
	}
	if ams[1].ID != 2 || ams[1].Class != domain.ClassMandatory {
		t.Fatalf("amenity 2: %+v", ams[1])
	}
	if ams[0].IncludedDates != nil {
		t.Fatalf("room-product results carry no dates: %+v", ams[0])
	}
}

func TestCatalogCache_SecondBatchServedFromCache(t *testing.T) {
	src := &fakeSources{amenities: serviceCatalog}
	svc := newService(src)

	stays := []domain.RoomProductStay{{RoomProductID: 3, Index: 0}}
	if _, err := svc.ResolveRoomProductEntitlements(context.Background(), 9, stays); err != nil {
		t.Fatalf("err: %v", err)
	}
	if _, err := svc.ResolveRoomProductEntitlements(context.Background(), 9, stays); err != nil {
		t.Fatalf("err: %v", err)
	}
	if src.catalogCalls != 1 {
		t.Fatalf("catalog fetched %d times, want 1", src.catalogCalls)
	}
}

func TestResolveStayEntitlements_CombinesPerIndex(t *testing.T) {
	src := &fakeSources{
		amenities: serviceCatalog,
		entitlements: []domain.RatePlanEntitlement{
			{RatePlanID: 7, AmenityID: 1, Class: domain.ClassIncluded},
			{RatePlanID: 7, AmenityID: 2, Class: domain.ClassExtra},
		},
		roomProducts: []domain.RoomProductEntitlement{
			{RoomProductID: 3, AmenityID: 2, Class: domain.ClassMandatory},
		},
	}
	svc := newService(src)

	out, err := svc.ResolveStayEntitlements(context.Background(), 9, []domain.Stay{
		{Span: domain.StaySpan{FromDate: "2026-08-01", ToDate: "2026-08-01"}, RatePlanID: 7, RoomProductID: 3, Index: 11},
	})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(out) != 1 || out[0].Index != 11 {
		t.Fatalf("out: %+v", out)
	}
	res := out[0].Result
	if len(res.Included) != 1 || res.Included[0].ID != 1 {
		t.Fatalf("included: %+v", res.Included)
	}
	if len(res.Mandatory) != 1 || res.Mandatory[0].ID != 2 {
		t.Fatalf("mandatory: %+v", res.Mandatory)
	}
	if len(res.Extra) != 0 {
		t.Fatalf("extra: %+v", res.Extra)
	}
}
