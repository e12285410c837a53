package http

import (
	"fmt"
	"net/http"
	"strconv"

	"menu-booking-backend/internal/domain"
	"menu-booking-backend/internal/service"
)

type AvailabilityHandler struct {
	availability service.AvailabilityService
}

func NewAvailabilityHandler(availability service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availability: availability}
}

type createRuleRequest struct {
	ItemID    int32  `json:"itemId"`
	DayOfWeek string `json:"dayOfWeek"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

type updateRuleRequest struct {
	DayOfWeek *string `json:"dayOfWeek"`
	StartTime *string `json:"startTime"`
	EndTime   *string `json:"endTime"`
	IsActive  *bool   `json:"isActive"`
}

func (u updateRuleRequest) toDomain() (domain.RuleUpdate, error) {
	var upd domain.RuleUpdate
	if u.DayOfWeek != nil {
		day, err := domain.ParseDayOfWeek(*u.DayOfWeek)
		if err != nil {
			return upd, err
		}
		upd.DayOfWeek = &day
	}
	if u.StartTime != nil {
		t, err := domain.ParseTimeOfDay(*u.StartTime)
		if err != nil {
			return upd, err
		}
		upd.StartTime = &t
	}
	if u.EndTime != nil {
		t, err := domain.ParseTimeOfDay(*u.EndTime)
		if err != nil {
			return upd, err
		}
		upd.EndTime = &t
	}
	upd.IsActive = u.IsActive
	return upd, nil
}

func (h *AvailabilityHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRuleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.ItemID <= 0 {
		writeError(w, r, fmt.Errorf("%w: itemId is required", domain.ErrInvalidInput))
		return
	}
	rule, err := h.availability.CreateRule(r.Context(), req.ItemID, domain.DayOfWeek(req.DayOfWeek), req.StartTime, req.EndTime)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rule)
}

func (h *AvailabilityHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req updateRuleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	upd, err := req.toDomain()
	if err != nil {
		writeError(w, r, err)
		return
	}
	rule, err := h.availability.UpdateRule(r.Context(), id, upd)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rule)
}

func (h *AvailabilityHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	rule, err := h.availability.DeactivateRule(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rule)
}

func (h *AvailabilityHandler) List(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r, "itemId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	includeInactive, _ := strconv.ParseBool(r.URL.Query().Get("includeInactive"))
	rules, err := h.availability.ListRules(r.Context(), itemID, includeInactive)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if rules == nil {
		rules = []domain.AvailabilityRule{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"itemId": itemID, "rules": rules})
}
