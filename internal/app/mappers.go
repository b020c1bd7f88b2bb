package app

import (
	"strconv"
	"strings"

	"amenity_engine/internal/domain"
)

/********** alias registries (single source of truth) **********/

var amenityAliases = map[string][]string{
	"code":        {"code", "amenity_code", "amenityCode", "external_code"},
	"name":        {"name", "amenity_name", "label", "title"},
	"description": {"description", "desc", "long_description"},
	"icon":        {"icon", "icon_url", "iconUrl", "image"},
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns string at path or "".
func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// firstNonEmptyAlias: first non-empty string for a named alias set.
func firstNonEmptyAlias(m map[string]any, aliases map[string][]string, key string) *string {
	for _, p := range aliases[key] {
		if s := lookupStr(m, p); s != "" {
			return &s
		}
	}
	return nil
}

// firstInt64Flexible: int64 from several paths (float64/int/string).
func firstInt64Flexible(m map[string]any, paths ...string) *int64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			x := int64(v)
			return &x
		case int:
			x := int64(v)
			return &x
		case int64:
			x := v
			return &x
		case string:
			s := strings.TrimSpace(v)
			if s == "" {
				continue
			}
			if n, err := strconv.ParseInt(s, 10, 64); err == nil {
				return &n
			}
		}
	}
	return nil
}

// stringSlice: accept []any holding strings.
func stringSlice(m map[string]any, paths ...string) []string {
	for _, k := range paths {
		if raw, ok := lookupAny(m, k).([]any); ok {
			out := make([]string, 0, len(raw))
			for _, it := range raw {
				if s, ok := it.(string); ok && s != "" {
					out = append(out, s)
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}
	return nil
}

func mapSlice(m map[string]any, path string) []map[string]any {
	raw, ok := lookupAny(m, path).([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(raw))
	for _, it := range raw {
		if obj, ok := it.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out
}

// normalizeClass maps the platform's class spellings onto the three
// entitlement classes. Unknown values are rejected, not guessed.
func normalizeClass(s string) (domain.EntitlementClass, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "INCLUDED", "FREE", "INCLUSIVE":
		return domain.ClassIncluded, true
	case "EXTRA", "ADDON", "OPTIONAL":
		return domain.ClassExtra, true
	case "MANDATORY", "FORCED", "OBLIGATORY":
		return domain.ClassMandatory, true
	}
	return "", false
}

/********** amenity mapper **********/

func mapAmenities(hotelID int64, in []map[string]any) []domain.Amenity {
	out := make([]domain.Amenity, 0, len(in))
	for _, m := range in {
		id := firstInt64Flexible(m, "id", "amenity_id", "amenityId")
		code := firstNonEmptyAlias(m, amenityAliases, "code")
		if id == nil || code == nil {
			continue // unusable row, the catalog is keyed by both
		}
		out = append(out, domain.Amenity{
			ID:          *id,
			Code:        *code,
			HotelID:     hotelID,
			Name:        firstNonEmptyAlias(m, amenityAliases, "name"),
			Description: firstNonEmptyAlias(m, amenityAliases, "description"),
			Icon:        firstNonEmptyAlias(m, amenityAliases, "icon"),
		})
	}
	return out
}

/********** rate-plan config mapper **********/

type ratePlanConfig struct {
	ID           int64
	DerivedID    *int64
	Entitlements []domain.RatePlanEntitlement
	Overrides    []domain.RatePlanDailyOverride
}

func mapRatePlanConfigs(payload map[string]any) []ratePlanConfig {
	var out []ratePlanConfig
	for _, rp := range mapSlice(payload, "rate_plans") {
		id := firstInt64Flexible(rp, "id", "rate_plan_id", "ratePlanId")
		if id == nil {
			continue
		}
		cfg := ratePlanConfig{
			ID:        *id,
			DerivedID: firstInt64Flexible(rp, "derived_rate_plan_id", "derivedRatePlanId", "master_rate_plan_id"),
		}
		for _, e := range mapSlice(rp, "entitlements") {
			amenityID := firstInt64Flexible(e, "amenity_id", "amenityId")
			class, ok := normalizeClass(lookupStr(e, "class"))
			if amenityID == nil || !ok {
				continue
			}
			cfg.Entitlements = append(cfg.Entitlements, domain.RatePlanEntitlement{
				RatePlanID: *id,
				AmenityID:  *amenityID,
				Class:      class,
			})
		}
		for _, o := range mapSlice(rp, "daily_overrides") {
			date := lookupStr(o, "date")
			if date == "" {
				continue
			}
			cfg.Overrides = append(cfg.Overrides, domain.RatePlanDailyOverride{
				RatePlanID:           *id,
				Date:                 date,
				IncludedAmenityCodes: stringSlice(o, "included_amenity_codes", "includedAmenityCodes", "amenity_codes"),
			})
		}
		out = append(out, cfg)
	}
	return out
}

/********** room-product mapper **********/

type roomProductConfig struct {
	ID           int64
	Entitlements []domain.RoomProductEntitlement
}

func mapRoomProductConfigs(in []map[string]any) []roomProductConfig {
	out := make([]roomProductConfig, 0, len(in))
	for _, m := range in {
		id := firstInt64Flexible(m, "room_product_id", "roomProductId", "id")
		if id == nil {
			continue
		}
		cfg := roomProductConfig{ID: *id}
		for _, e := range mapSlice(m, "entitlements") {
			amenityID := firstInt64Flexible(e, "amenity_id", "amenityId")
			class, ok := normalizeClass(lookupStr(e, "class"))
			if amenityID == nil || !ok {
				continue
			}
			cfg.Entitlements = append(cfg.Entitlements, domain.RoomProductEntitlement{
				RoomProductID: *id,
				AmenityID:     *amenityID,
				Class:         class,
			})
		}
		out = append(out, cfg)
	}
	return out
}
