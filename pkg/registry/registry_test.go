package registry

import (
	"context"
	"testing"

	"github.com/Malindup2/WattWise-sub000/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticProvider(t *testing.T) {
	p := NewStatic(map[string]Layout{
		"user-1": {
			Rooms: []types.Room{
				{ID: "room-living", Name: "Living Room"},
				{ID: "room-kitchen", Name: "Kitchen"},
			},
			Devices: []types.Device{
				{ID: "dev-lamp", Name: "Floor Lamp", Wattage: 60},
			},
		},
	})
	ctx := context.Background()

	room, err := p.GetRoom(ctx, "user-1", "room-kitchen")
	require.NoError(t, err)
	assert.Equal(t, "Kitchen", room.Name)

	device, err := p.GetDevice(ctx, "user-1", "dev-lamp")
	require.NoError(t, err)
	assert.Equal(t, 60.0, device.Wattage)

	_, err = p.GetRoom(ctx, "user-1", "room-ghost")
	assert.ErrorIs(t, err, ErrRoomNotFound)

	_, err = p.GetDevice(ctx, "user-1", "dev-ghost")
	assert.ErrorIs(t, err, ErrDeviceNotFound)

	_, err = p.GetRoom(ctx, "user-ghost", "room-living")
	assert.ErrorIs(t, err, ErrRoomNotFound)

	_, err = p.GetDevice(ctx, "user-ghost", "dev-lamp")
	assert.ErrorIs(t, err, ErrDeviceNotFound)
}
