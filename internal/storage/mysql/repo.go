package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"amenity_engine/internal/domain"
)

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

// placeholders returns "?,?,...,?" with n markers.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?,", n-1) + "?"
}

func int64Args(ids []int64) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}

func stringArgs(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// ---------------------------------------------------------------------------
// Write paths
// ---------------------------------------------------------------------------

func (r *Repo) UpsertAmenities(ctx context.Context, as []domain.Amenity) error {
	if len(as) == 0 {
		return nil
	}
	values := make([]string, 0, len(as))
	args := make([]any, 0, len(as)*6)
	for _, a := range as {
		values = append(values, "(?,?,?,?,?,?)")
		args = append(args, a.ID, a.HotelID, a.Code, valStr(a.Name), valStr(a.Description), valStr(a.Icon))
	}
	sqlStr := upsertAmenitiesPrefix + strings.Join(values, ",") + upsertAmenitiesOnDup
	_, err := r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *Repo) ReplaceRatePlanEntitlements(ctx context.Context, ratePlanID int64, es []domain.RatePlanEntitlement) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, deleteRatePlanEntitlementsSQL, ratePlanID); err != nil {
		return err
	}
	if len(es) > 0 {
		values := make([]string, 0, len(es))
		args := make([]any, 0, len(es)*3)
		for _, e := range es {
			values = append(values, "(?,?,?)")
			args = append(args, ratePlanID, e.AmenityID, string(e.Class))
		}
		if _, err := tx.ExecContext(ctx, insertRatePlanEntitlementsPrefix+strings.Join(values, ","), args...); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *Repo) ReplaceDailyOverride(ctx context.Context, hotelID int64, o domain.RatePlanDailyOverride) error {
	codes, err := json.Marshal(o.IncludedAmenityCodes)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, replaceDailyOverrideSQL, hotelID, o.RatePlanID, o.Date, string(codes))
	return err
}

func (r *Repo) UpsertDerivedSetting(ctx context.Context, s domain.DerivedRatePlanSetting) error {
	_, err := r.db.ExecContext(ctx, upsertDerivedSettingSQL, s.RatePlanID, s.DerivedRatePlanID)
	return err
}

func (r *Repo) ReplaceRoomProductEntitlements(ctx context.Context, hotelID, roomProductID int64, es []domain.RoomProductEntitlement) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, deleteRoomProductEntitlementsSQL, hotelID, roomProductID); err != nil {
		return err
	}
	if len(es) > 0 {
		values := make([]string, 0, len(es))
		args := make([]any, 0, len(es)*4)
		for _, e := range es {
			values = append(values, "(?,?,?,?)")
			args = append(args, hotelID, roomProductID, e.AmenityID, string(e.Class))
		}
		if _, err := tx.ExecContext(ctx, insertRoomProductEntitlementsPrefix+strings.Join(values, ","), args...); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *Repo) LogSyncMiss(ctx context.Context, hotelID int64, status int, reason string) error {
	_, err := r.db.ExecContext(ctx, insertSyncMissSQL, hotelID, status, reason)
	return err
}

// ---------------------------------------------------------------------------
// Read paths
// ---------------------------------------------------------------------------

func (r *Repo) ListAmenities(ctx context.Context, hotelID int64) ([]domain.Amenity, error) {
	rows, err := r.db.QueryContext(ctx, selectAmenitiesSQL, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Amenity
	for rows.Next() {
		var a domain.Amenity
		var name, desc, icon sql.NullString
		if err := rows.Scan(&a.ID, &a.HotelID, &a.Code, &name, &desc, &icon); err != nil {
			return nil, err
		}
		if name.Valid {
			s := name.String
			a.Name = &s
		}
		if desc.Valid {
			s := desc.String
			a.Description = &s
		}
		if icon.Valid {
			s := icon.String
			a.Icon = &s
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *Repo) ListRatePlanEntitlements(ctx context.Context, ratePlanIDs []int64) ([]domain.RatePlanEntitlement, error) {
	if len(ratePlanIDs) == 0 {
		return nil, nil
	}
	q := fmt.Sprintf(selectRatePlanEntitlementsSQL, placeholders(len(ratePlanIDs)))
	rows, err := r.db.QueryContext(ctx, q, int64Args(ratePlanIDs)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.RatePlanEntitlement
	for rows.Next() {
		var e domain.RatePlanEntitlement
		var class string
		if err := rows.Scan(&e.RatePlanID, &e.AmenityID, &class); err != nil {
			return nil, err
		}
		e.Class = domain.EntitlementClass(class)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *Repo) ListDailyOverrides(ctx context.Context, hotelID int64, dates []string, ratePlanIDs []int64) ([]domain.RatePlanDailyOverride, error) {
	if len(dates) == 0 || len(ratePlanIDs) == 0 {
		return nil, nil
	}
	q := fmt.Sprintf(selectDailyOverridesSQL, placeholders(len(ratePlanIDs)), placeholders(len(dates)))
	args := append([]any{hotelID}, int64Args(ratePlanIDs)...)
	args = append(args, stringArgs(dates)...)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.RatePlanDailyOverride
	for rows.Next() {
		var o domain.RatePlanDailyOverride
		var codesJSON []byte
		if err := rows.Scan(&o.RatePlanID, &o.Date, &codesJSON); err != nil {
			return nil, err
		}
		if len(codesJSON) > 0 {
			_ = json.Unmarshal(codesJSON, &o.IncludedAmenityCodes)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *Repo) ListDerivedSettings(ctx context.Context, ratePlanIDs []int64) ([]domain.DerivedRatePlanSetting, error) {
	if len(ratePlanIDs) == 0 {
		return nil, nil
	}
	q := fmt.Sprintf(selectDerivedSettingsSQL, placeholders(len(ratePlanIDs)))
	rows, err := r.db.QueryContext(ctx, q, int64Args(ratePlanIDs)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.DerivedRatePlanSetting
	for rows.Next() {
		var s domain.DerivedRatePlanSetting
		if err := rows.Scan(&s.RatePlanID, &s.DerivedRatePlanID); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repo) ListRoomProductEntitlements(ctx context.Context, roomProductIDs []int64, hotelIDs []int64) ([]domain.RoomProductEntitlement, error) {
	if len(roomProductIDs) == 0 || len(hotelIDs) == 0 {
		return nil, nil
	}
	q := fmt.Sprintf(selectRoomProductEntitlementsSQL, placeholders(len(roomProductIDs)), placeholders(len(hotelIDs)))
	args := append(int64Args(roomProductIDs), int64Args(hotelIDs)...)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.RoomProductEntitlement
	for rows.Next() {
		var e domain.RoomProductEntitlement
		var class string
		if err := rows.Scan(&e.RoomProductID, &e.AmenityID, &class); err != nil {
			return nil, err
		}
		e.Class = domain.EntitlementClass(class)
		out = append(out, e)
	}
	return out, rows.Err()
}
