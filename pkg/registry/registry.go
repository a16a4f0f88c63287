// Package registry fronts the room/device layout collaborator. The
// aggregation engine never resolves layout itself; the HTTP layer uses a
// Provider to turn bare IDs into the name/wattage tuples it snapshots onto
// new entries.
package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/Malindup2/WattWise-sub000/pkg/types"
	"github.com/levenlabs/go-lflag"
)

var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrDeviceNotFound = errors.New("device not found")
)

// Provider supplies room and device identity/metadata for a user's layout.
type Provider interface {
	GetRoom(ctx context.Context, userID, roomID string) (types.Room, error)
	GetDevice(ctx context.Context, userID, deviceID string) (types.Device, error)
}

// Layout is the static per-user layout shape accepted by the layout flag:
// userID -> rooms/devices.
type Layout struct {
	Rooms   []types.Room   `json:"rooms"`
	Devices []types.Device `json:"devices"`
}

// StaticProvider serves layouts from a fixed in-memory map. It stands in for
// the hosted layout service in single-tenant and dev deployments.
type StaticProvider struct {
	layouts map[string]Layout
}

var _ Provider = (*StaticProvider)(nil)

// NewStatic creates a StaticProvider from a userID -> layout map.
func NewStatic(layouts map[string]Layout) *StaticProvider {
	return &StaticProvider{layouts: layouts}
}

// Configured sets up the registry provider from the layout flag.
func Configured() Provider {
	layouts := map[string]Layout{}
	lflag.JSON(&layouts, "layouts", layouts, "JSON map of userID to {rooms, devices} layout")

	p := &StaticProvider{}

	lflag.Do(func() {
		p.layouts = layouts
	})

	return p
}

// GetRoom returns the room tuple for a user's layout.
func (p *StaticProvider) GetRoom(ctx context.Context, userID, roomID string) (types.Room, error) {
	layout, ok := p.layouts[userID]
	if !ok {
		return types.Room{}, fmt.Errorf("%w: no layout for user %s", ErrRoomNotFound, userID)
	}
	for _, r := range layout.Rooms {
		if r.ID == roomID {
			return r, nil
		}
	}
	return types.Room{}, fmt.Errorf("%w: %s", ErrRoomNotFound, roomID)
}

// GetDevice returns the device tuple for a user's layout.
func (p *StaticProvider) GetDevice(ctx context.Context, userID, deviceID string) (types.Device, error) {
	layout, ok := p.layouts[userID]
	if !ok {
		return types.Device{}, fmt.Errorf("%w: no layout for user %s", ErrDeviceNotFound, userID)
	}
	for _, d := range layout.Devices {
		if d.ID == deviceID {
			return d, nil
		}
	}
	return types.Device{}, fmt.Errorf("%w: %s", ErrDeviceNotFound, deviceID)
}
