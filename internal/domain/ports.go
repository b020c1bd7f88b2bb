package domain

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// Read ports. The engine only ever reads configuration; all lookups take
// id sets so a whole batch can be served from one round trip.

type AmenityCatalog interface {
	ListAmenities(ctx context.Context, hotelID int64) ([]Amenity, error)
}

type RatePlanEntitlementSource interface {
	ListRatePlanEntitlements(ctx context.Context, ratePlanIDs []int64) ([]RatePlanEntitlement, error)
	ListDailyOverrides(ctx context.Context, hotelID int64, dates []string, ratePlanIDs []int64) ([]RatePlanDailyOverride, error)
	ListDerivedSettings(ctx context.Context, ratePlanIDs []int64) ([]DerivedRatePlanSetting, error)
}

type RoomProductEntitlementSource interface {
	ListRoomProductEntitlements(ctx context.Context, roomProductIDs []int64, hotelIDs []int64) ([]RoomProductEntitlement, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// Sync ports. The syncer pulls configuration from the platform API and
// mirrors it into local storage for the resolution service to read.

type ConfigClient interface {
	GetAmenities(ctx context.Context, hotelID int64) ([]map[string]any, error)
	GetRatePlanConfig(ctx context.Context, hotelID int64) (map[string]any, error)
	GetRoomProductEntitlements(ctx context.Context, hotelID int64) ([]map[string]any, error)
}

type ConfigRepository interface {
	// Write paths (syncer only)
	UpsertAmenities(ctx context.Context, as []Amenity) error
	ReplaceRatePlanEntitlements(ctx context.Context, ratePlanID int64, es []RatePlanEntitlement) error
	ReplaceDailyOverride(ctx context.Context, hotelID int64, o RatePlanDailyOverride) error
	UpsertDerivedSetting(ctx context.Context, s DerivedRatePlanSetting) error
	ReplaceRoomProductEntitlements(ctx context.Context, hotelID, roomProductID int64, es []RoomProductEntitlement) error
	LogSyncMiss(ctx context.Context, hotelID int64, status int, reason string) error

	// Read ports served from the same store
	AmenityCatalog
	RatePlanEntitlementSource
	RoomProductEntitlementSource
}
