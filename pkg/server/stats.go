package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Malindup2/WattWise-sub000/pkg/log"
	"github.com/Malindup2/WattWise-sub000/pkg/predict"
	"github.com/Malindup2/WattWise-sub000/pkg/types"
)

type statsResponse struct {
	types.UsageStats

	// PredictedTomorrow is filled best-effort from the prediction service and
	// omitted whenever it is disabled or failing.
	PredictedTomorrow *float64 `json:"predictedTomorrow,omitempty"`
}

func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := s.getUserID(r)

	resp := statsResponse{UsageStats: s.usage.GetUsageStats(ctx, userID)}

	if s.predict != nil {
		history := s.usage.GetWeeklyTrend(ctx, userID)
		predicted, err := s.predict.PredictNextDay(ctx, userID, history)
		if err != nil {
			if !errors.Is(err, predict.ErrDisabled) {
				log.Ctx(ctx).WarnContext(ctx, "prediction unavailable", slog.Any("error", err))
			}
		} else {
			resp.PredictedTomorrow = &predicted
		}
	}

	// stats always include today, never cacheable for long
	w.Header().Set("Cache-Control", "private, max-age=60")
	writeJSON(w, resp)
}

func (s *Server) handleWeeklyTrend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := s.getUserID(r)

	w.Header().Set("Cache-Control", "private, max-age=60")
	writeJSON(w, s.usage.GetWeeklyTrend(ctx, userID))
}

func (s *Server) handleMonthlyTrend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := s.getUserID(r)

	w.Header().Set("Cache-Control", "private, max-age=60")
	writeJSON(w, s.usage.GetMonthlyTrend(ctx, userID))
}

func (s *Server) handleCategoryBreakdown(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := s.getUserID(r)

	days := 7
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		parsed, err := strconv.Atoi(daysStr)
		if err != nil || parsed < 1 {
			writeJSONError(w, "invalid days parameter", http.StatusBadRequest)
			return
		}
		days = parsed
	}

	w.Header().Set("Cache-Control", "private, max-age=60")
	writeJSON(w, s.usage.GetCategoryBreakdown(ctx, userID, days))
}
