package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/seoultrip/planner/internal/catalog"
	"github.com/seoultrip/planner/internal/metrics"
	"github.com/seoultrip/planner/internal/planner"
)

const maxTripDays = 30

type CreateRouteRequest struct {
	UserID        int64  `json:"userId" validate:"required,min=1"`
	StartDate     string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate       string `json:"endDate" validate:"required,datetime=2006-01-02"`
	ThemeID       int64  `json:"themeId" validate:"required,min=1"`
	Pace          string `json:"pace,omitempty" validate:"oneof=relaxed packed"`
	Travelers     int    `json:"travelers,omitempty" validate:"min=1,max=50"`
	Language      string `json:"language,omitempty" validate:"oneof=ko en ja zh"`
	TransportMode string `json:"transportMode,omitempty" validate:"oneof=walk public taxi car"`

	start, end time.Time
}

func (req *CreateRouteRequest) validate() string {
	if req.Pace == "" {
		req.Pace = string(planner.PaceRelaxed)
	}
	if req.Travelers == 0 {
		req.Travelers = 1
	}
	if req.Language == "" {
		req.Language = defaultLanguage
	}
	if req.TransportMode == "" {
		req.TransportMode = catalog.DefaultTransportMode
	}
	if msg := checkStruct(req); msg != "" {
		return msg
	}

	req.start, _ = time.Parse(dateLayout, req.StartDate)
	req.end, _ = time.Parse(dateLayout, req.EndDate)
	if req.end.Before(req.start) {
		return "endDate must not be before startDate"
	}
	if days := int(req.end.Sub(req.start).Hours()/24) + 1; days > maxTripDays {
		return "trip must not exceed 30 days"
	}
	return ""
}

func (req *CreateRouteRequest) tripPreference() planner.TripPreference {
	return planner.TripPreference{
		UserID:        req.UserID,
		StartDate:     req.start,
		EndDate:       req.end,
		ThemeID:       req.ThemeID,
		Pace:          planner.Pace(req.Pace),
		Travelers:     req.Travelers,
		Language:      req.Language,
		TransportMode: req.TransportMode,
	}
}

func (req *CreateRouteRequest) routePreference() RoutePreference {
	return RoutePreference{
		UserID:        req.UserID,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		ThemeID:       req.ThemeID,
		Pace:          req.Pace,
		Travelers:     req.Travelers,
		Language:      req.Language,
		TransportMode: req.TransportMode,
	}
}

type RouteListResponse struct {
	Routes []RouteSummary `json:"routes"`
}

// handleCreateRoute generates an itinerary from the catalog and stores it.
func handleCreateRoute(logger *slog.Logger, store RouteStore, source catalog.Source) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		var req CreateRouteRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if msg := req.validate(); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}

		ok, err := store.UserExists(r.Context(), req.UserID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if !ok {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}

		candidates, err := source.FetchActivities(r.Context(), req.ThemeID, req.TransportMode)
		if err != nil {
			logger.Error("fetching activities", "theme_id", req.ThemeID, "error", err)
			metrics.RecordGeneration("catalog_error", time.Since(start))
			writeError(w, http.StatusBadGateway, "activity catalog unavailable")
			return
		}

		it, err := planner.PlanTrip(req.tripPreference(), candidates)
		if errors.Is(err, planner.ErrNoCandidates) {
			metrics.RecordGeneration("no_candidates", time.Since(start))
			writeError(w, http.StatusUnprocessableEntity, "no activities match the requested theme")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		route, err := store.SaveRoute(r.Context(), req.routePreference(), it)
		if err != nil {
			logger.Error("saving route", "user_id", req.UserID, "error", err)
			metrics.RecordGeneration("store_error", time.Since(start))
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		metrics.RecordGeneration("ok", time.Since(start))
		logger.Info("route generated",
			"route_id", route.ID,
			"user_id", req.UserID,
			"days", len(route.Days),
			"candidates", len(candidates),
		)
		writeJSON(w, http.StatusCreated, route)
	}
}

func handleGetRoute(store RouteStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		route, err := store.GetRoute(r.Context(), chi.URLParam(r, "routeID"))
		if err != nil {
			writeStoreError(w, err, "route not found")
			return
		}
		writeJSON(w, http.StatusOK, route)
	}
}

func handleListUserRoutes(store RouteStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
		if err != nil || userID <= 0 {
			writeError(w, http.StatusBadRequest, "invalid user id")
			return
		}

		ok, err := store.UserExists(r.Context(), userID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if !ok {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}

		routes, err := store.ListUserRoutes(r.Context(), userID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, RouteListResponse{Routes: routes})
	}
}

func handleDeleteRoute(store RouteStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userIDParam(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "user_id query parameter is required")
			return
		}

		if err := store.DeactivateRoute(r.Context(), chi.URLParam(r, "routeID"), userID); err != nil {
			writeStoreError(w, err, "route not found")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
