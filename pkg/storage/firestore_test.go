package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/Malindup2/WattWise-sub000/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatesBetween(t *testing.T) {
	dates, err := datesBetween("2026-08-29", "2026-09-01")
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-08-29", "2026-08-30", "2026-08-31", "2026-09-01"}, dates)

	// single day
	dates, err = datesBetween("2026-08-29", "2026-08-29")
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-08-29"}, dates)

	// inverted
	_, err = datesBetween("2026-09-01", "2026-08-29")
	assert.Error(t, err)

	// over the cap
	_, err = datesBetween("2026-01-01", "2026-12-31")
	assert.ErrorContains(t, err, "exceeds maximum")

	// malformed
	_, err = datesBetween("not-a-date", "2026-08-29")
	assert.Error(t, err)
}

func TestFirestoreProvider(t *testing.T) {
	// Check if emulator is running or configured
	// We assume it is running on localhost:8087 as per task
	os.Setenv("FIRESTORE_EMULATOR_HOST", "127.0.0.1:8087")

	// Use a test project ID
	projectID := "test-project-id"

	// Use a random database for isolation
	randDB := fmt.Sprintf("test-db-%d", time.Now().UnixNano())
	f := &FirestoreProvider{
		projectID: projectID,
		database:  randDB,
	}

	ctx := context.Background()
	require.NoError(t, f.Init(ctx))
	defer f.Close()

	t.Run("Validate", func(t *testing.T) {
		require.NoError(t, f.Validate())
	})

	summary := types.DailyUsageSummary{
		Date:   "2026-08-30",
		UserID: "test-user",
		Rooms: []types.RoomUsage{
			{
				RoomID:   "room-1",
				RoomName: "Living Room",
				Entries: []types.UsageEntry{
					{ID: "entry-1", DeviceID: "dev-1", DeviceName: "Lamp", Wattage: 60, StartTime: "19:00", EndTime: "23:00", DurationH: 4, PowerUsed: 0.24},
				},
				TotalPowerUsed: 0.24,
			},
		},
		TotalDailyUsage: 0.24,
	}

	t.Run("PutGet", func(t *testing.T) {
		require.NoError(t, f.PutDailySummary(ctx, "test-user", "2026-08-30", summary))

		got, err := f.GetDailySummary(ctx, "test-user", "2026-08-30")
		require.NoError(t, err)
		assert.Equal(t, summary.TotalDailyUsage, got.TotalDailyUsage)
		require.Len(t, got.Rooms, 1)
		assert.Equal(t, "Living Room", got.Rooms[0].RoomName)
		require.Len(t, got.Rooms[0].Entries, 1)
		assert.Equal(t, 0.24, got.Rooms[0].Entries[0].PowerUsed)
	})

	t.Run("GetAbsent", func(t *testing.T) {
		_, err := f.GetDailySummary(ctx, "test-user", "2020-01-01")
		assert.True(t, errors.Is(err, ErrSummaryNotFound))
	})

	t.Run("EmptyUserID", func(t *testing.T) {
		_, err := f.GetDailySummary(ctx, "", "2026-08-30")
		assert.ErrorContains(t, err, "userID cannot be empty")
	})

	t.Run("Range", func(t *testing.T) {
		second := summary
		second.Date = "2026-08-28"
		require.NoError(t, f.PutDailySummary(ctx, "test-user", "2026-08-28", second))

		got, err := f.GetDailySummaryRange(ctx, "test-user", "2026-08-27", "2026-08-31")
		require.NoError(t, err)
		// absent days dropped, ascending order preserved
		require.Len(t, got, 2)
		assert.Equal(t, "2026-08-28", got[0].Date)
		assert.Equal(t, "2026-08-30", got[1].Date)
	})

	t.Run("LatestDate", func(t *testing.T) {
		latest, err := f.GetLatestUsageDate(ctx, "test-user")
		require.NoError(t, err)
		assert.Equal(t, "2026-08-30", latest)

		latest, err = f.GetLatestUsageDate(ctx, "user-with-no-data")
		require.NoError(t, err)
		assert.Empty(t, latest)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, f.DeleteDailySummary(ctx, "test-user", "2026-08-30"))
		_, err := f.GetDailySummary(ctx, "test-user", "2026-08-30")
		assert.True(t, errors.Is(err, ErrSummaryNotFound))

		// deleting an already-absent document is not an error
		require.NoError(t, f.DeleteDailySummary(ctx, "test-user", "2026-08-30"))
	})
}
