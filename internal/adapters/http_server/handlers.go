package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"amenity_engine/internal/adapters/observability"
	"amenity_engine/internal/app"
	"amenity_engine/internal/domain"
)

type Handlers struct{ R *app.ResolutionService }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Post("/v1/hotels/{id}/entitlements/rate-plans", h.resolveRatePlans)
	s.mux.Post("/v1/hotels/{id}/entitlements/room-products", h.resolveRoomProducts)
	s.mux.Post("/v1/hotels/{id}/entitlements/resolve", h.resolveStays)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func hotelID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

// validSpan enforces the caller-side contract: parseable ISO days with
// from <= to. The engine itself does not re-validate.
func validSpan(from, to string) bool {
	f, err := time.Parse(domain.DateLayout, from)
	if err != nil {
		return false
	}
	t, err := time.Parse(domain.DateLayout, to)
	if err != nil {
		return false
	}
	return !f.After(t)
}

// ---- wire DTOs ----

type amenityDTO struct {
	ID            int64    `json:"id"`
	Code          string   `json:"code"`
	Name          *string  `json:"name,omitempty"`
	Description   *string  `json:"description,omitempty"`
	Icon          *string  `json:"icon,omitempty"`
	Class         string   `json:"class"`
	IncludedDates []string `json:"includedDates,omitempty"`
}

func toAmenityDTOs(in []domain.ClassifiedAmenity) []amenityDTO {
	out := make([]amenityDTO, 0, len(in))
	for _, a := range in {
		out = append(out, amenityDTO{
			ID:            a.ID,
			Code:          a.Code,
			Name:          a.Name,
			Description:   a.Description,
			Icon:          a.Icon,
			Class:         string(a.Class),
			IncludedDates: a.IncludedDates,
		})
	}
	return out
}

// ---- rate-plan batch ----

type ratePlanReservationDTO struct {
	Index      int    `json:"index"`
	RatePlanID int64  `json:"ratePlanId"`
	From       string `json:"from"`
	To         string `json:"to"`
}

func (h *Handlers) resolveRatePlans(w http.ResponseWriter, r *http.Request) {
	hid, ok := hotelID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "hotel id must be a positive number")
		return
	}
	var req struct {
		Reservations []ratePlanReservationDTO `json:"reservations"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Reservations) == 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "reservations must be a non-empty array")
		return
	}

	stays := make([]domain.RatePlanStay, 0, len(req.Reservations))
	for _, res := range req.Reservations {
		if !validSpan(res.From, res.To) {
			writeProblem(w, http.StatusBadRequest, "Invalid span", "from/to must be YYYY-MM-DD with from <= to")
			return
		}
		stays = append(stays, domain.RatePlanStay{
			Span:       domain.StaySpan{FromDate: res.From, ToDate: res.To},
			RatePlanID: res.RatePlanID,
			Index:      res.Index,
		})
	}

	results, err := h.R.ResolveRatePlanEntitlements(r.Context(), hid, stays)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Resolution failed", err.Error())
		return
	}
	observability.ObserveResolutions("rate_plan", len(results))

	type resultDTO struct {
		RatePlanID int64        `json:"ratePlanId"`
		Index      int          `json:"index"`
		Amenities  []amenityDTO `json:"amenities"`
	}
	out := struct {
		Results []resultDTO `json:"results"`
	}{Results: make([]resultDTO, 0, len(results))}
	for _, res := range results {
		out.Results = append(out.Results, resultDTO{
			RatePlanID: res.RatePlanID,
			Index:      res.Index,
			Amenities:  toAmenityDTOs(res.Amenities),
		})
	}
	writeJSON(w, out)
}

// ---- room-product batch ----

type roomProductReservationDTO struct {
	Index         int   `json:"index"`
	RoomProductID int64 `json:"roomProductId"`
}

func (h *Handlers) resolveRoomProducts(w http.ResponseWriter, r *http.Request) {
	hid, ok := hotelID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "hotel id must be a positive number")
		return
	}
	var req struct {
		Reservations []roomProductReservationDTO `json:"reservations"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Reservations) == 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "reservations must be a non-empty array")
		return
	}

	stays := make([]domain.RoomProductStay, 0, len(req.Reservations))
	for _, res := range req.Reservations {
		stays = append(stays, domain.RoomProductStay{RoomProductID: res.RoomProductID, Index: res.Index})
	}

	results, err := h.R.ResolveRoomProductEntitlements(r.Context(), hid, stays)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Resolution failed", err.Error())
		return
	}
	observability.ObserveResolutions("room_product", len(results))

	type resultDTO struct {
		RoomProductID int64        `json:"roomProductId"`
		Index         int          `json:"index"`
		Amenities     []amenityDTO `json:"amenities"`
	}
	out := struct {
		Results []resultDTO `json:"results"`
	}{Results: make([]resultDTO, 0, len(results))}
	for _, res := range results {
		out.Results = append(out.Results, resultDTO{
			RoomProductID: res.RoomProductID,
			Index:         res.Index,
			Amenities:     toAmenityDTOs(res.Amenities),
		})
	}
	writeJSON(w, out)
}

// ---- combined ----

type stayReservationDTO struct {
	Index         int    `json:"index"`
	RatePlanID    int64  `json:"ratePlanId"`
	RoomProductID int64  `json:"roomProductId"`
	From          string `json:"from"`
	To            string `json:"to"`
}

func (h *Handlers) resolveStays(w http.ResponseWriter, r *http.Request) {
	hid, ok := hotelID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "hotel id must be a positive number")
		return
	}
	var req struct {
		Reservations []stayReservationDTO `json:"reservations"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Reservations) == 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "reservations must be a non-empty array")
		return
	}

	stays := make([]domain.Stay, 0, len(req.Reservations))
	for _, res := range req.Reservations {
		if !validSpan(res.From, res.To) {
			writeProblem(w, http.StatusBadRequest, "Invalid span", "from/to must be YYYY-MM-DD with from <= to")
			return
		}
		stays = append(stays, domain.Stay{
			Span:          domain.StaySpan{FromDate: res.From, ToDate: res.To},
			RatePlanID:    res.RatePlanID,
			RoomProductID: res.RoomProductID,
			Index:         res.Index,
		})
	}

	results, err := h.R.ResolveStayEntitlements(r.Context(), hid, stays)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Resolution failed", err.Error())
		return
	}
	observability.ObserveResolutions("combined", len(results))

	type resultDTO struct {
		Index     int          `json:"index"`
		Included  []amenityDTO `json:"included"`
		Extra     []amenityDTO `json:"extra"`
		Mandatory []amenityDTO `json:"mandatory"`
	}
	out := struct {
		Results []resultDTO `json:"results"`
	}{Results: make([]resultDTO, 0, len(results))}
	for _, res := range results {
		out.Results = append(out.Results, resultDTO{
			Index:     res.Index,
			Included:  toAmenityDTOs(res.Result.Included),
			Extra:     toAmenityDTOs(res.Result.Extra),
			Mandatory: toAmenityDTOs(res.Result.Mandatory),
		})
	}
	writeJSON(w, out)
}
