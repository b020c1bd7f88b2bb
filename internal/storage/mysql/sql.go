package mysql

// ---------------------------------------------------------------------------
// WRITE PATHS (syncer)
// ---------------------------------------------------------------------------

const upsertAmenitiesPrefix = `
INSERT INTO amenities
  (id, hotel_id, code, name, description, icon)
VALUES `

const upsertAmenitiesOnDup = `
ON DUPLICATE KEY UPDATE
  hotel_id    = VALUES(hotel_id),
  code        = VALUES(code),
  name        = VALUES(name),
  description = VALUES(description),
  icon        = VALUES(icon),
  updated_at  = CURRENT_TIMESTAMP
`

const deleteRatePlanEntitlementsSQL = `
DELETE FROM rate_plan_entitlements WHERE rate_plan_id = ?
`

const insertRatePlanEntitlementsPrefix = `
INSERT INTO rate_plan_entitlements
  (rate_plan_id, amenity_id, class)
VALUES `

// An override is the complete INCLUDED set for its (plan, date); storing
// it is a straight replace.
const replaceDailyOverrideSQL = `
INSERT INTO rate_plan_daily_overrides
  (hotel_id, rate_plan_id, override_date, included_codes)
VALUES
  (?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  hotel_id       = VALUES(hotel_id),
  included_codes = VALUES(included_codes)
`

const upsertDerivedSettingSQL = `
INSERT INTO derived_rate_plan_settings (rate_plan_id, derived_rate_plan_id)
VALUES (?, ?)
ON DUPLICATE KEY UPDATE derived_rate_plan_id = VALUES(derived_rate_plan_id)
`

const deleteRoomProductEntitlementsSQL = `
DELETE FROM room_product_entitlements WHERE hotel_id = ? AND room_product_id = ?
`

const insertRoomProductEntitlementsPrefix = `
INSERT INTO room_product_entitlements
  (hotel_id, room_product_id, amenity_id, class)
VALUES `

const insertSyncMissSQL = `
INSERT INTO sync_misses (hotel_id, http_status, reason)
VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE seen_at = CURRENT_TIMESTAMP
`

// ---------------------------------------------------------------------------
// READ PATHS (resolution service)
// ---------------------------------------------------------------------------

const selectAmenitiesSQL = `
SELECT id, hotel_id, code, name, description, icon
FROM amenities
WHERE hotel_id = ?
ORDER BY id
`

const selectRatePlanEntitlementsSQL = `
SELECT rate_plan_id, amenity_id, class
FROM rate_plan_entitlements
WHERE rate_plan_id IN (%s)
ORDER BY rate_plan_id, amenity_id
`

// override_date round-trips as YYYY-MM-DD text; no time-of-day is stored.
const selectDailyOverridesSQL = `
SELECT rate_plan_id, DATE_FORMAT(override_date, '%%Y-%%m-%%d'), included_codes
FROM rate_plan_daily_overrides
WHERE hotel_id = ? AND rate_plan_id IN (%s) AND override_date IN (%s)
ORDER BY rate_plan_id, override_date
`

const selectDerivedSettingsSQL = `
SELECT rate_plan_id, derived_rate_plan_id
FROM derived_rate_plan_settings
WHERE rate_plan_id IN (%s)
`

const selectRoomProductEntitlementsSQL = `
SELECT room_product_id, amenity_id, class
FROM room_product_entitlements
WHERE room_product_id IN (%s) AND hotel_id IN (%s)
ORDER BY room_product_id, amenity_id
`
