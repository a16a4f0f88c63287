package types

import (
	"fmt"
	"time"
)

const (
	// CurrentDailySummaryVersion is stored alongside each persisted daily
	// document so future migrations can detect old shapes.
	CurrentDailySummaryVersion = 1

	// DateLayout is the calendar-day key format used everywhere a date is a
	// document key ("YYYY-MM-DD", user-local frame).
	DateLayout = "2006-01-02"
)

// UsageEntry is one logged interval of one device being on, in one room, on
// one calendar day. Device name and wattage are snapshotted at creation time;
// renaming a device later does not change historical entries. Entries are
// immutable once created: edits are modeled as delete+recreate upstream.
type UsageEntry struct {
	ID         string    `json:"id"`
	DeviceID   string    `json:"deviceID"`
	DeviceName string    `json:"deviceName"`
	Wattage    float64   `json:"wattage"`
	StartTime  string    `json:"startTime"`
	EndTime    string    `json:"endTime"`
	DurationH  float64   `json:"duration"`
	PowerUsed  float64   `json:"powerUsed"`
	Timestamp  time.Time `json:"timestamp"`
}

// RoomUsage aggregates the entries for one room on one day.
// TotalPowerUsed always equals the sum of the entries' PowerUsed; a room with
// zero entries is removed from its summary rather than kept empty.
type RoomUsage struct {
	RoomID         string       `json:"roomID"`
	RoomName       string       `json:"roomName"`
	Entries        []UsageEntry `json:"entries"`
	TotalPowerUsed float64      `json:"totalPowerUsed"`
}

// Entry returns the entry with the given ID and its index, or -1.
func (r *RoomUsage) Entry(entryID string) (UsageEntry, int) {
	for i, e := range r.Entries {
		if e.ID == entryID {
			return e, i
		}
	}
	return UsageEntry{}, -1
}

// DailyUsageSummary is the unit of persistence, keyed by (userID, date).
// TotalDailyUsage always equals the sum of the rooms' TotalPowerUsed. A
// summary with no rooms is deleted, never persisted, so downstream readers can
// tell "no data" from "zero data".
type DailyUsageSummary struct {
	Date            string      `json:"date"`
	UserID          string      `json:"userID"`
	Rooms           []RoomUsage `json:"rooms"`
	TotalDailyUsage float64     `json:"totalDailyUsage"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// Room returns the room bucket with the given ID and its index, or -1.
func (s *DailyUsageSummary) Room(roomID string) (*RoomUsage, int) {
	for i := range s.Rooms {
		if s.Rooms[i].RoomID == roomID {
			return &s.Rooms[i], i
		}
	}
	return nil, -1
}

// ParseDate validates a YYYY-MM-DD date key.
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", date, err)
	}
	return t, nil
}

// Today returns today's date key in the local frame.
func Today() string {
	return time.Now().Format(DateLayout)
}

// DaysAgo returns the date key n days before today in the local frame.
func DaysAgo(n int) string {
	return time.Now().AddDate(0, 0, -n).Format(DateLayout)
}
