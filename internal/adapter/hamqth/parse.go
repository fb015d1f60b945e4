package hamqth

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/couchcryptid/qso-mapper/internal/domain"
)

// HamQTH DXCC response types.
//
//	<HamQTH version="2.8" xmlns="https://www.hamqth.com">
//	  <dxcc>
//	    <callsign>W1ABC</callsign>
//	    <name>United States</name>
//	    <details>United States</details>
//	    <continent>NA</continent>
//	    <lat>39.0</lat>
//	    <lng>-77.0</lng>
//	    <adif>291</adif>
//	  </dxcc>
//	</HamQTH>
//
// Lookup failures come back as <session><error>...</error></session>.

type response struct {
	XMLName xml.Name `xml:"HamQTH"`
	DXCC    *dxcc    `xml:"dxcc"`
	Session *session `xml:"session"`
}

type dxcc struct {
	Callsign  string `xml:"callsign"`
	Name      string `xml:"name"`
	Continent string `xml:"continent"`
	Lat       string `xml:"lat"`
	Lng       string `xml:"lng"`
}

type session struct {
	Error string `xml:"error"`
}

// ParseDXCC extracts the DXCC entity from a raw payload. Any payload without
// numeric dxcc/lat and dxcc/lng yields an error wrapping
// domain.ErrMalformedResponse.
func ParseDXCC(payload []byte) (domain.DXCCEntity, error) {
	var r response
	if err := xml.Unmarshal(payload, &r); err != nil {
		return domain.DXCCEntity{}, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	if r.Session != nil && r.Session.Error != "" {
		return domain.DXCCEntity{}, fmt.Errorf("%w: hamqth: %s", domain.ErrMalformedResponse, r.Session.Error)
	}
	if r.DXCC == nil {
		return domain.DXCCEntity{}, fmt.Errorf("%w: missing dxcc element", domain.ErrMalformedResponse)
	}

	lat, err := parseCoord("lat", r.DXCC.Lat)
	if err != nil {
		return domain.DXCCEntity{}, err
	}
	lon, err := parseCoord("lng", r.DXCC.Lng)
	if err != nil {
		return domain.DXCCEntity{}, err
	}

	return domain.DXCCEntity{
		Callsign:  r.DXCC.Callsign,
		Name:      r.DXCC.Name,
		Continent: r.DXCC.Continent,
		Geo:       domain.Geo{Lat: lat, Lon: lon},
	}, nil
}

func parseCoord(field, s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: missing %s", domain.ErrMalformedResponse, field)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not numeric", domain.ErrMalformedResponse, field, s)
	}
	return v, nil
}
