// Package aggregator converts discrete per-device usage entries into
// consistent per-room and per-day totals and the derived dashboard series.
//
// The engine is stateless between calls: every operation reads the affected
// daily document, rewrites it, and writes it back whole. Two concurrent
// mutations for the same (userID, date) can interleave between that read and
// write, so the second writer wins and the first update is lost. The storage
// layer has no transactional read-modify-write primitive and this engine
// deliberately does not paper over that with in-process locking, since
// instances don't share a process.
package aggregator

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Malindup2/WattWise-sub000/pkg/energy"
	"github.com/Malindup2/WattWise-sub000/pkg/storage"
	"github.com/Malindup2/WattWise-sub000/pkg/types"
	"github.com/levenlabs/go-lflag"
)

// ErrValidation wraps every caller-input precondition failure. No state
// changes when it is returned.
var ErrValidation = errors.New("invalid input")

// drift below this is floating-point noise from repeated add/subtract, not
// real usage
const zeroEpsilon = 1e-9

// Service is the usage aggregation engine. It holds no per-request state;
// construct one per process and share it.
type Service struct {
	storage       storage.Database
	dollarsPerKWH float64
}

// New creates a Service. dollarsPerKWH of 0 disables cost derivation.
func New(db storage.Database, dollarsPerKWH float64) *Service {
	return &Service{storage: db, dollarsPerKWH: dollarsPerKWH}
}

// Configured creates a Service with its flat tariff taken from flags.
func Configured(db storage.Database) *Service {
	rate := lflag.String("rate-dollars-per-kwh", "", "Flat tariff for cost estimates (empty disables)")

	s := &Service{storage: db}

	lflag.Do(func() {
		if *rate == "" {
			return
		}
		v, err := strconv.ParseFloat(*rate, 64)
		if err != nil || v < 0 {
			panic(fmt.Sprintf("invalid rate-dollars-per-kwh %q", *rate))
		}
		s.dollarsPerKWH = v
	})

	return s
}

// AddEntryParams carries the caller-supplied fields for a new usage entry.
// Room and device tuples come from the layout registry upstream; the engine
// never looks them up itself. Date defaults to today when empty.
type AddEntryParams struct {
	RoomID    string
	RoomName  string
	Device    types.Device
	StartTime string
	EndTime   string
	Date      string
}

func (p *AddEntryParams) validate() error {
	if p.RoomID == "" {
		return fmt.Errorf("%w: roomID is required", ErrValidation)
	}
	if p.Device.ID == "" {
		return fmt.Errorf("%w: deviceID is required", ErrValidation)
	}
	if p.Device.Wattage <= 0 {
		return fmt.Errorf("%w: wattage must be positive, got %v", ErrValidation, p.Device.Wattage)
	}
	// equal times would be read as a full 24h day by the duration arithmetic,
	// so they are rejected here instead
	if p.StartTime == p.EndTime {
		return fmt.Errorf("%w: start and end time must differ", ErrValidation)
	}
	if p.Date != "" {
		if _, err := types.ParseDate(p.Date); err != nil {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}
	return nil
}

// AddEntry validates and logs one device usage window, merging it into the
// daily document for (userID, date) and updating the room and day totals.
// On success the created entry is returned. A storage failure means the entry
// was not added; there is at most one terminal write so there is nothing to
// roll back.
func (s *Service) AddEntry(ctx context.Context, userID string, p AddEntryParams) (types.UsageEntry, error) {
	if userID == "" {
		return types.UsageEntry{}, fmt.Errorf("%w: userID is required", ErrValidation)
	}
	if err := p.validate(); err != nil {
		return types.UsageEntry{}, err
	}

	hours, err := energy.Duration(p.StartTime, p.EndTime)
	if err != nil {
		return types.UsageEntry{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	powerUsed := energy.KWH(p.Device.Wattage, hours)

	date := p.Date
	if date == "" {
		date = types.Today()
	}
	now := time.Now().UTC()

	entry := types.UsageEntry{
		ID:         types.NewID(),
		DeviceID:   p.Device.ID,
		DeviceName: p.Device.Name,
		Wattage:    p.Device.Wattage,
		StartTime:  p.StartTime,
		EndTime:    p.EndTime,
		DurationH:  hours,
		PowerUsed:  powerUsed,
		Timestamp:  now,
	}

	summary, err := s.storage.GetDailySummary(ctx, userID, date)
	if errors.Is(err, storage.ErrSummaryNotFound) {
		summary = types.DailyUsageSummary{
			Date:      date,
			UserID:    userID,
			CreatedAt: now,
		}
	} else if err != nil {
		return types.UsageEntry{}, fmt.Errorf("failed to read daily summary: %w", err)
	}

	if room, _ := summary.Room(p.RoomID); room != nil {
		room.Entries = append(room.Entries, entry)
		room.TotalPowerUsed = energy.Round2(room.TotalPowerUsed + powerUsed)
	} else {
		summary.Rooms = append(summary.Rooms, types.RoomUsage{
			RoomID:         p.RoomID,
			RoomName:       p.RoomName,
			Entries:        []types.UsageEntry{entry},
			TotalPowerUsed: powerUsed,
		})
	}
	summary.TotalDailyUsage = energy.Round2(summary.TotalDailyUsage + powerUsed)
	summary.UpdatedAt = now

	if err := s.storage.PutDailySummary(ctx, userID, date, summary); err != nil {
		return types.UsageEntry{}, fmt.Errorf("failed to write daily summary: %w", err)
	}
	return entry, nil
}

// DeleteEntry removes one entry from a daily document, pruning the room bucket
// when it empties and deleting the whole document when the last room goes.
// Deleting something already gone is a no-op success so retries and double
// taps are safe.
func (s *Service) DeleteEntry(ctx context.Context, userID, date, roomID, entryID string) error {
	if userID == "" || date == "" || roomID == "" || entryID == "" {
		return fmt.Errorf("%w: userID, date, roomID and entryID are required", ErrValidation)
	}
	if _, err := types.ParseDate(date); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	summary, err := s.storage.GetDailySummary(ctx, userID, date)
	if errors.Is(err, storage.ErrSummaryNotFound) {
		return nil
	} else if err != nil {
		return fmt.Errorf("failed to read daily summary: %w", err)
	}

	room, roomIdx := summary.Room(roomID)
	if room == nil {
		return nil
	}
	entry, entryIdx := room.Entry(entryID)
	if entryIdx < 0 {
		return nil
	}

	room.Entries = append(room.Entries[:entryIdx], room.Entries[entryIdx+1:]...)
	room.TotalPowerUsed = energy.Round2(room.TotalPowerUsed - entry.PowerUsed)
	if room.TotalPowerUsed < zeroEpsilon {
		room.TotalPowerUsed = 0
	}

	if len(room.Entries) == 0 {
		summary.Rooms = append(summary.Rooms[:roomIdx], summary.Rooms[roomIdx+1:]...)
	}
	if len(summary.Rooms) == 0 {
		if err := s.storage.DeleteDailySummary(ctx, userID, date); err != nil {
			return fmt.Errorf("failed to delete emptied daily summary: %w", err)
		}
		return nil
	}

	// re-derive the day total from the room totals so the sum invariant holds
	// exactly after any amount of float churn
	var total float64
	for _, r := range summary.Rooms {
		total += r.TotalPowerUsed
	}
	summary.TotalDailyUsage = energy.Round2(total)
	if summary.TotalDailyUsage < zeroEpsilon {
		summary.TotalDailyUsage = 0
	}
	summary.UpdatedAt = time.Now().UTC()

	if err := s.storage.PutDailySummary(ctx, userID, date, summary); err != nil {
		return fmt.Errorf("failed to write daily summary: %w", err)
	}
	return nil
}

// GetLatestUsageDate returns the most recent date the user logged any entry,
// or empty when they never have. Clients use it to jump the dashboard to the
// last active day instead of an empty today.
func (s *Service) GetLatestUsageDate(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("%w: userID is required", ErrValidation)
	}
	date, err := s.storage.GetLatestUsageDate(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to read latest usage date: %w", err)
	}
	return date, nil
}

// GetDailyUsage returns the daily document for one date, or nil when no entry
// was ever logged that day.
func (s *Service) GetDailyUsage(ctx context.Context, userID, date string) (*types.DailyUsageSummary, error) {
	if _, err := types.ParseDate(date); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	summary, err := s.storage.GetDailySummary(ctx, userID, date)
	if errors.Is(err, storage.ErrSummaryNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to read daily summary: %w", err)
	}
	return &summary, nil
}
