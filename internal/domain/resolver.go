package domain

import "context"

// DXCCEntity is the country-level location returned for a callsign.
type DXCCEntity struct {
	Callsign  string
	Name      string
	Continent string
	Geo       Geo
}

// CallsignResolver places a callsign at its DXCC entity.
type CallsignResolver interface {
	Resolve(ctx context.Context, call string) (DXCCEntity, error)
}

// GeoCache is a durable callsign-keyed store of raw lookup payloads. Keys are
// exact, case-sensitive callsigns. Entries never expire; the first write for
// a callsign wins.
type GeoCache interface {
	// Get returns the stored payload and true, or false on a miss.
	Get(ctx context.Context, call string) ([]byte, bool, error)

	// Put stores the payload unless the callsign already has one.
	Put(ctx context.Context, call string, payload []byte) error
}
