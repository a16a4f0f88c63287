// Command seed populates the Firestore emulator with two weeks of plausible
// usage entries for a demo user, so the dashboard endpoints have something to
// show during development.
package main

import (
	"context"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/Malindup2/WattWise-sub000/pkg/aggregator"
	"github.com/Malindup2/WattWise-sub000/pkg/log"
	"github.com/Malindup2/WattWise-sub000/pkg/storage"
	"github.com/Malindup2/WattWise-sub000/pkg/types"
	"github.com/levenlabs/go-lflag"
)

const seedUserID = "demo-user"

type seedDevice struct {
	roomID   string
	roomName string
	device   types.Device
	start    string
	end      string
	// chance is the probability the device ran on a given day
	chance float64
}

var seedDevices = []seedDevice{
	{"room-living", "Living Room", types.Device{ID: "dev-tv", Name: "Living Room TV", Wattage: 120}, "18:00", "22:30", 0.9},
	{"room-living", "Living Room", types.Device{ID: "dev-lamp", Name: "Floor Lamp", Wattage: 60}, "19:00", "23:00", 0.8},
	{"room-living", "Living Room", types.Device{ID: "dev-ac", Name: "Living Room AC", Wattage: 1400}, "13:00", "16:00", 0.5},
	{"room-kitchen", "Kitchen", types.Device{ID: "dev-fridge", Name: "Refrigerator", Wattage: 150}, "00:00", "23:59", 1.0},
	{"room-kitchen", "Kitchen", types.Device{ID: "dev-microwave", Name: "Microwave", Wattage: 1100}, "07:30", "07:45", 0.7},
	{"room-kitchen", "Kitchen", types.Device{ID: "dev-oven", Name: "Electric Oven", Wattage: 2200}, "18:30", "19:15", 0.4},
	{"room-bedroom", "Bedroom", types.Device{ID: "dev-laptop", Name: "Work Laptop", Wattage: 65}, "09:00", "17:00", 0.6},
	{"room-bedroom", "Bedroom", types.Device{ID: "dev-fan", Name: "Ceiling Fan", Wattage: 75}, "22:00", "06:00", 0.7},
	{"room-bedroom", "Bedroom", types.Device{ID: "dev-bulb", Name: "Bedside Bulb", Wattage: 9}, "21:30", "23:30", 0.9},
}

func main() {
	os.Setenv("FIRESTORE_EMULATOR_HOST", "127.0.0.1:8087")
	s := storage.Configured()
	lflag.Configure()

	ctx := context.Background()
	usage := aggregator.New(s, 0)

	log.Ctx(ctx).InfoContext(ctx, "seeding mock usage data", slog.String("userID", seedUserID))

	// Use a new random source
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	var added int
	for daysAgo := 13; daysAgo >= 0; daysAgo-- {
		date := types.DaysAgo(daysAgo)
		for _, sd := range seedDevices {
			if rng.Float64() > sd.chance {
				continue
			}
			_, err := usage.AddEntry(ctx, seedUserID, aggregator.AddEntryParams{
				RoomID:    sd.roomID,
				RoomName:  sd.roomName,
				Device:    sd.device,
				StartTime: sd.start,
				EndTime:   sd.end,
				Date:      date,
			})
			if err != nil {
				log.Ctx(ctx).ErrorContext(ctx, "failed to seed entry",
					slog.String("date", date), slog.String("device", sd.device.Name), slog.Any("error", err))
				os.Exit(1)
			}
			added++
		}
	}

	log.Ctx(ctx).InfoContext(ctx, "seeding complete", slog.Int("entries", added))

	if err := s.Close(); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to close storage", slog.Any("error", err))
	}
}
