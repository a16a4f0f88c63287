package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-08-31")
	require.NoError(t, err)
	assert.Equal(t, 2026, d.Year())
	assert.Equal(t, time.August, d.Month())
	assert.Equal(t, 31, d.Day())

	_, err = ParseDate("08/31/2026")
	assert.Error(t, err)

	_, err = ParseDate("")
	assert.Error(t, err)
}

func TestDaysAgo(t *testing.T) {
	assert.Equal(t, Today(), DaysAgo(0))

	yesterday, err := ParseDate(DaysAgo(1))
	require.NoError(t, err)
	today, err := ParseDate(Today())
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, today.Sub(yesterday))
}

func TestSummaryLookups(t *testing.T) {
	s := DailyUsageSummary{
		Rooms: []RoomUsage{
			{RoomID: "r1", RoomName: "Kitchen", Entries: []UsageEntry{{ID: "e1"}, {ID: "e2"}}},
			{RoomID: "r2", RoomName: "Bedroom"},
		},
	}

	room, idx := s.Room("r2")
	require.NotNil(t, room)
	assert.Equal(t, 1, idx)
	assert.Equal(t, "Bedroom", room.RoomName)

	room, idx = s.Room("missing")
	assert.Nil(t, room)
	assert.Equal(t, -1, idx)

	kitchen, _ := s.Room("r1")
	entry, idx := kitchen.Entry("e2")
	assert.Equal(t, 1, idx)
	assert.Equal(t, "e2", entry.ID)

	_, idx = kitchen.Entry("missing")
	assert.Equal(t, -1, idx)
}

func TestNewID(t *testing.T) {
	seen := make(map[string]struct{})
	for range 1000 {
		id := NewID()
		require.NotEmpty(t, id)
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}
