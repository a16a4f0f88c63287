// Package energy holds the pure time and energy arithmetic the aggregation
// engine is built on. Nothing here touches storage or holds state.
package energy

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const minutesPerDay = 24 * 60

// Round2 rounds to 2 decimal places. Two decimals of a kWh is 10 Wh, well
// under anything a household meter resolves.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// parseClock parses an "HH:MM" wall-clock time into minutes since midnight.
func parseClock(s string) (int, error) {
	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("invalid time %q (want HH:MM)", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return h*60 + m, nil
}

// Duration returns the hours between two wall-clock times, rounded to 2
// decimals. An end time numerically at or before the start is always read as
// next-day (overnight wrap), never as a zero or negative span; equal times
// therefore come out as 24.0 here and must be rejected by the entry-creation
// layer instead.
func Duration(start, end string) (float64, error) {
	startMin, err := parseClock(start)
	if err != nil {
		return 0, fmt.Errorf("start: %w", err)
	}
	endMin, err := parseClock(end)
	if err != nil {
		return 0, fmt.Errorf("end: %w", err)
	}
	if endMin <= startMin {
		endMin += minutesPerDay
	}
	return Round2(float64(endMin-startMin) / 60), nil
}

// KWH converts wattage and hours into kilowatt-hours, rounded to 2 decimals.
func KWH(wattage, hours float64) float64 {
	return Round2(wattage * hours / 1000)
}

// DeviceWindows is the per-device input to RoomKWH: a wattage and the hours of
// each usage window logged for that device.
type DeviceWindows struct {
	Wattage float64
	Hours   []float64
}

// RoomKWH sums the energy of every usage window of every device.
func RoomKWH(devices []DeviceWindows) float64 {
	var total float64
	for _, d := range devices {
		for _, h := range d.Hours {
			total += KWH(d.Wattage, h)
		}
	}
	return Round2(total)
}
