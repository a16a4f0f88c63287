package types

// Room identifies a room in a user's layout. Supplied by the layout registry;
// the aggregation engine only snapshots the name onto new entries.
type Room struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Device identifies a device and its rated wattage. Supplied by the layout
// registry; name and wattage are snapshotted onto entries at creation time.
type Device struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Wattage float64 `json:"wattage"`
}
