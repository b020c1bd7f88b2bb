package domain

import "time"

// EntitlementClass is the classification of an amenity for a stay.
// The three classes are mutually exclusive per amenity and reservation.
type EntitlementClass string

const (
	ClassIncluded  EntitlementClass = "INCLUDED"
	ClassExtra     EntitlementClass = "EXTRA"
	ClassMandatory EntitlementClass = "MANDATORY"
)

// DateLayout is the wire format for calendar days. No time-of-day
// component participates in day matching anywhere in the engine.
const DateLayout = "2006-01-02"

type Amenity struct {
	ID          int64
	Code        string // stable external key; daily overrides reference it
	HotelID     int64
	Name        *string
	Description *string
	Icon        *string
}

// RatePlanEntitlement is a base (non-dated) rate-plan↔amenity assignment.
// It applies to every date of a stay unless a daily override replaces it.
type RatePlanEntitlement struct {
	RatePlanID int64
	AmenityID  int64
	Class      EntitlementClass
}

// RatePlanDailyOverride is the complete INCLUDED set for one rate plan on
// one date. When present it replaces the base INCLUDED set for that date,
// it never merges with it. At most one record per (rate plan, date).
type RatePlanDailyOverride struct {
	RatePlanID           int64
	Date                 string // YYYY-MM-DD
	IncludedAmenityCodes []string
}

// DerivedRatePlanSetting says RatePlanID follows DerivedRatePlanID for
// entitlement purposes. At most one active mapping per rate plan.
type DerivedRatePlanSetting struct {
	RatePlanID        int64
	DerivedRatePlanID int64
}

type RoomProductEntitlement struct {
	RoomProductID int64
	AmenityID     int64
	Class         EntitlementClass
}

// StaySpan is the inclusive date range of a reservation.
type StaySpan struct {
	FromDate string // YYYY-MM-DD
	ToDate   string // YYYY-MM-DD
}

// Dates expands the span into one entry per calendar day, in order,
// both endpoints included. Malformed or inverted spans yield nil; the
// caller is responsible for validating spans before resolution.
func (s StaySpan) Dates() []string {
	from, err := time.Parse(DateLayout, s.FromDate)
	if err != nil {
		return nil
	}
	to, err := time.Parse(DateLayout, s.ToDate)
	if err != nil {
		return nil
	}
	var out []string
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		out = append(out, d.Format(DateLayout))
	}
	return out
}

// RatePlanStay is one reservation in a rate-plan resolution batch.
// Index is an opaque caller correlation token echoed back unchanged.
type RatePlanStay struct {
	Span       StaySpan
	RatePlanID int64
	Index      int
}

type RoomProductStay struct {
	RoomProductID int64
	Index         int
}

// Stay is one reservation in a combined resolution batch, carrying both
// entitlement sources.
type Stay struct {
	Span          StaySpan
	RatePlanID    int64
	RoomProductID int64
	Index         int
}

// ClassifiedAmenity is an amenity tagged with its resolved class.
// IncludedDates is populated only for INCLUDED results whose inclusion
// is attributable to the rate-plan source (the only date-granular one).
type ClassifiedAmenity struct {
	Amenity
	Class         EntitlementClass
	IncludedDates []string
}

// RatePlanResolution echoes the original (caller's) rate plan id even
// when a master rate plan's data was used for resolution.
type RatePlanResolution struct {
	RatePlanID int64
	Index      int
	Amenities  []ClassifiedAmenity
}

type RoomProductResolution struct {
	RoomProductID int64
	Index         int
	Amenities     []ClassifiedAmenity
}

// CombinedResolution is the final cross-source classification for one
// reservation.
type CombinedResolution struct {
	Included  []ClassifiedAmenity
	Extra     []ClassifiedAmenity
	Mandatory []ClassifiedAmenity
}

type StayResolution struct {
	Index  int
	Result CombinedResolution
}
