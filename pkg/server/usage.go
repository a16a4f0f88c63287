package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Malindup2/WattWise-sub000/pkg/aggregator"
	"github.com/Malindup2/WattWise-sub000/pkg/log"
	"github.com/Malindup2/WattWise-sub000/pkg/registry"
	"github.com/Malindup2/WattWise-sub000/pkg/types"
)

type addEntryRequest struct {
	RoomID     string  `json:"roomID"`
	RoomName   string  `json:"roomName"`
	DeviceID   string  `json:"deviceID"`
	DeviceName string  `json:"deviceName"`
	Wattage    float64 `json:"wattage"`
	StartTime  string  `json:"startTime"`
	EndTime    string  `json:"endTime"`
	Date       string  `json:"date"`
}

func (s *Server) handleAddEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := s.getUserID(r)

	var req addEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Ctx(ctx).WarnContext(ctx, "failed to decode add entry request", slog.Any("error", err))
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	// callers may send bare IDs and let the layout registry fill in the
	// snapshot fields
	if req.RoomName == "" && s.registry != nil {
		room, err := s.registry.GetRoom(ctx, userID, req.RoomID)
		if err != nil {
			if errors.Is(err, registry.ErrRoomNotFound) {
				writeJSONError(w, "unknown room", http.StatusBadRequest)
				return
			}
			log.Ctx(ctx).ErrorContext(ctx, "room lookup failed", slog.String("roomID", req.RoomID), slog.Any("error", err))
			writeJSONError(w, "failed to resolve room", http.StatusInternalServerError)
			return
		}
		req.RoomName = room.Name
	}
	if (req.DeviceName == "" || req.Wattage <= 0) && s.registry != nil {
		device, err := s.registry.GetDevice(ctx, userID, req.DeviceID)
		if err != nil {
			if errors.Is(err, registry.ErrDeviceNotFound) {
				writeJSONError(w, "unknown device", http.StatusBadRequest)
				return
			}
			log.Ctx(ctx).ErrorContext(ctx, "device lookup failed", slog.String("deviceID", req.DeviceID), slog.Any("error", err))
			writeJSONError(w, "failed to resolve device", http.StatusInternalServerError)
			return
		}
		if req.DeviceName == "" {
			req.DeviceName = device.Name
		}
		if req.Wattage <= 0 {
			req.Wattage = device.Wattage
		}
	}

	entry, err := s.usage.AddEntry(ctx, userID, aggregator.AddEntryParams{
		RoomID:   req.RoomID,
		RoomName: req.RoomName,
		Device: types.Device{
			ID:      req.DeviceID,
			Name:    req.DeviceName,
			Wattage: req.Wattage,
		},
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Date:      req.Date,
	})
	if err != nil {
		if errors.Is(err, aggregator.ErrValidation) {
			writeJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Ctx(ctx).ErrorContext(ctx, "failed to add entry", slog.Any("error", err))
		writeJSONError(w, "could not save entry", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(entry); err != nil {
		panic(http.ErrAbortHandler)
	}
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := s.getUserID(r)
	q := r.URL.Query()

	err := s.usage.DeleteEntry(ctx, userID, q.Get("date"), q.Get("roomID"), q.Get("entryID"))
	if err != nil {
		if errors.Is(err, aggregator.ErrValidation) {
			writeJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Ctx(ctx).ErrorContext(ctx, "failed to delete entry", slog.Any("error", err))
		writeJSONError(w, "could not delete entry", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetDaily(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := s.getUserID(r)

	date := r.URL.Query().Get("date")
	if date == "" {
		date = types.Today()
	}

	summary, err := s.usage.GetDailyUsage(ctx, userID, date)
	if err != nil {
		if errors.Is(err, aggregator.ErrValidation) {
			writeJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Ctx(ctx).ErrorContext(ctx, "failed to get daily usage", slog.String("date", date), slog.Any("error", err))
		writeJSONError(w, "failed to get daily usage", http.StatusInternalServerError)
		return
	}
	if summary == nil {
		// absence means no entry was ever logged that day
		writeJSONError(w, "no usage recorded", http.StatusNotFound)
		return
	}

	setCacheHeaders(w, date)
	writeJSON(w, summary)
}

func (s *Server) handleGetLatest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := s.getUserID(r)

	date, err := s.usage.GetLatestUsageDate(ctx, userID)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to get latest usage date", slog.Any("error", err))
		writeJSONError(w, "failed to get latest usage date", http.StatusInternalServerError)
		return
	}
	if date == "" {
		writeJSONError(w, "no usage recorded", http.StatusNotFound)
		return
	}
	writeJSON(w, struct {
		Date string `json:"date"`
	}{Date: date})
}
