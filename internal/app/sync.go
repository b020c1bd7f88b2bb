package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"amenity_engine/internal/domain"
)

// SyncService mirrors one hotel's entitlement configuration (amenity
// catalog, rate-plan entitlements and overrides, derived-plan settings,
// room-product entitlements) from the platform configuration API into
// local storage.
type SyncService struct {
	client domain.ConfigClient
	repo   domain.ConfigRepository
	cache  domain.Cache
}

func NewSyncService(c domain.ConfigClient, r domain.ConfigRepository, cache domain.Cache) *SyncService {
	return &SyncService{client: c, repo: r, cache: cache}
}

func (s *SyncService) SyncHotel(ctx context.Context, hotelID int64) error {
	// 1) Amenity catalog first; entitlement rows reference it.
	amenities, err := s.client.GetAmenities(ctx, hotelID)
	if err != nil {
		if handled := s.handleMiss(ctx, hotelID, err, "amenities"); handled {
			return nil
		}
		return err
	}
	if err := s.repo.UpsertAmenities(ctx, mapAmenities(hotelID, amenities)); err != nil {
		return fmt.Errorf("upsert amenities failed for %d: %w", hotelID, err)
	}
	s.invalidateCatalog(ctx, hotelID)

	// 2) Rate-plan configuration: base entitlements, daily overrides,
	// derived-plan settings. Per-plan replace keeps removals in sync.
	rpPayload, err := s.client.GetRatePlanConfig(ctx, hotelID)
	if err != nil {
		if handled := s.handleMiss(ctx, hotelID, err, "rate_plans"); !handled {
			return err
		}
	} else {
		for _, cfg := range mapRatePlanConfigs(rpPayload) {
			if err := s.repo.ReplaceRatePlanEntitlements(ctx, cfg.ID, cfg.Entitlements); err != nil {
				return err
			}
			if cfg.DerivedID != nil {
				if err := s.repo.UpsertDerivedSetting(ctx, domain.DerivedRatePlanSetting{
					RatePlanID:        cfg.ID,
					DerivedRatePlanID: *cfg.DerivedID,
				}); err != nil {
					return err
				}
			}
			for _, o := range cfg.Overrides {
				if err := s.repo.ReplaceDailyOverride(ctx, hotelID, o); err != nil {
					return err
				}
			}
		}
	}

	// 3) Room-product entitlements.
	rpEnts, err := s.client.GetRoomProductEntitlements(ctx, hotelID)
	if err != nil {
		if handled := s.handleMiss(ctx, hotelID, err, "room_products"); !handled {
			return err
		}
		return nil
	}
	for _, cfg := range mapRoomProductConfigs(rpEnts) {
		if err := s.repo.ReplaceRoomProductEntitlements(ctx, hotelID, cfg.ID, cfg.Entitlements); err != nil {
			return err
		}
	}
	return nil
}

// handleMiss records known 404/401/403 responses as sync misses and
// reports whether the error was absorbed. Anything else bubbles up.
func (s *SyncService) handleMiss(ctx context.Context, hotelID int64, err error, section string) bool {
	low := strings.ToLower(err.Error())
	switch {
	case errors.Is(err, domain.ErrNotFound) || strings.Contains(low, "not found"):
		_ = s.repo.LogSyncMiss(ctx, hotelID, 404, section)
	case strings.Contains(low, "403") || strings.Contains(low, "forbidden") ||
		strings.Contains(low, "401") || strings.Contains(low, "unauthorized"):
		_ = s.repo.LogSyncMiss(ctx, hotelID, 403, section)
	default:
		return false
	}
	log.Warn().Int64("hotel_id", hotelID).Str("section", section).Msg("config fetch miss")
	s.invalidateCatalog(ctx, hotelID)
	return true
}

func (s *SyncService) invalidateCatalog(ctx context.Context, hotelID int64) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, fmt.Sprintf("amenities:%d", hotelID))
}
