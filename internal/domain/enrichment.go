package domain

import "time"

// HomeSiteCall is the callsign given to the synthetic home-site marker.
const HomeSiteCall = "MY_PARK"

// HomeSite is the operator's own activation site for a run.
type HomeSite struct {
	Reference string
	Name      string
	Location  string
	Geo       *Geo // nil when the reference has no table entry
}

// HomeSiteRef accumulates the run's home-site reference. Only the first
// non-empty reference observed is kept.
type HomeSiteRef struct {
	ref string
	set bool
}

// Observe records reference if none has been captured yet.
func (h *HomeSiteRef) Observe(reference string) {
	if h.set || reference == "" {
		return
	}
	h.ref = reference
	h.set = true
}

// Get returns the captured reference and whether one was seen.
func (h HomeSiteRef) Get() (string, bool) {
	return h.ref, h.set
}

// Enrichment is the outcome of one enrichment run. Records holds the contacts
// placed before the run ended; when Err is set it is a partial result.
type Enrichment struct {
	RunID      string
	Records    []QSO
	HomeSite   *HomeSite
	StartedAt  time.Time
	FinishedAt time.Time

	// Err is the resolution failure that stopped the run, if any.
	Err error
	// HomeSiteErr wraps ErrHomeSiteNotFound when the marker could not be placed.
	HomeSiteErr error
}

// Processed returns the number of contacts placed.
func (e Enrichment) Processed() int {
	return len(e.Records)
}

// PointKind distinguishes contacts from the home-site marker.
type PointKind string

const (
	PointContact  PointKind = "contact"
	PointHomeSite PointKind = "home_site"
)

// MapPoint is one entry of the render-ready record set.
type MapPoint struct {
	Kind         PointKind `json:"kind"`
	Call         string    `json:"call"`
	Band         string    `json:"band,omitempty"`
	Mode         string    `json:"mode,omitempty"`
	Date         string    `json:"qso_date,omitempty"`
	Time         string    `json:"time_on,omitempty"`
	SigInfo      string    `json:"sig_info,omitempty"`
	Country      string    `json:"country,omitempty"`
	ParkName     string    `json:"park_name,omitempty"`
	ParkLocation string    `json:"park_location,omitempty"`
	Geo          *Geo      `json:"geo,omitempty"`
	GeoSource    GeoSource `json:"geo_source,omitempty"`
}

// Points returns the contacts in input order followed by the home-site
// marker, if one was captured.
func (e Enrichment) Points() []MapPoint {
	points := make([]MapPoint, 0, len(e.Records)+1)
	for _, q := range e.Records {
		p := MapPoint{
			Kind:      PointContact,
			Call:      q.Call,
			Band:      q.Band,
			Mode:      q.Mode,
			Date:      q.Date,
			Time:      q.Time,
			SigInfo:   q.SigInfo,
			Country:   q.Country,
			Geo:       q.Geo,
			GeoSource: q.GeoSource,
		}
		if q.Park != nil {
			p.ParkName, p.ParkLocation = q.Park.Name, q.Park.LocationDesc
		}
		points = append(points, p)
	}
	if e.HomeSite != nil {
		p := MapPoint{
			Kind:         PointHomeSite,
			Call:         HomeSiteCall,
			SigInfo:      e.HomeSite.Reference,
			ParkName:     e.HomeSite.Name,
			ParkLocation: e.HomeSite.Location,
			Geo:          e.HomeSite.Geo,
		}
		if p.Geo != nil {
			p.GeoSource = GeoSourcePark
		}
		points = append(points, p)
	}
	return points
}
