// Package render turns enriched map points into the documents the operator
// looks at: a self-contained OpenLayers page and a GeoJSON FeatureCollection.
package render

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/couchcryptid/qso-mapper/internal/domain"
)

//go:embed templates/map.html.tmpl
var templateFS embed.FS

var mapTemplate = template.Must(template.ParseFS(templateFS, "templates/map.html.tmpl"))

// jsPoint is the record shape the map script reads. Points without
// coordinates are placed at 0,0.
type jsPoint struct {
	Call         string  `json:"CALL"`
	Lat          float64 `json:"lat"`
	Lon          float64 `json:"lon"`
	Band         string  `json:"BAND"`
	Mode         string  `json:"MODE"`
	SigInfo      string  `json:"SIG_INFO"`
	Date         string  `json:"QSO_DATE"`
	Time         string  `json:"TIME_ON"`
	ParkName     string  `json:"PARK_NAME,omitempty"`
	ParkLocation string  `json:"PARK_LOCATION,omitempty"`
}

type mapPage struct {
	Points       []jsPoint
	HomeSiteCall string
	GeneratedAt  string
}

// HTML writes the map document for points.
func HTML(w io.Writer, points []domain.MapPoint, generatedAt time.Time) error {
	page := mapPage{
		Points:       make([]jsPoint, 0, len(points)),
		HomeSiteCall: domain.HomeSiteCall,
		GeneratedAt:  generatedAt.UTC().Format(time.RFC3339),
	}
	for _, p := range points {
		jp := jsPoint{
			Call:         p.Call,
			Band:         p.Band,
			Mode:         p.Mode,
			SigInfo:      p.SigInfo,
			Date:         p.Date,
			Time:         p.Time,
			ParkName:     p.ParkName,
			ParkLocation: p.ParkLocation,
		}
		if p.Geo != nil {
			jp.Lat, jp.Lon = p.Geo.Lat, p.Geo.Lon
		}
		page.Points = append(page.Points, jp)
	}

	if err := mapTemplate.Execute(w, page); err != nil {
		return fmt.Errorf("render map: %w", err)
	}
	return nil
}

// GeoJSON writes points as a FeatureCollection of Point features. Points
// without coordinates are left out.
func GeoJSON(w io.Writer, points []domain.MapPoint) error {
	fc := geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(points))}
	for _, p := range points {
		if p.Geo == nil {
			continue
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry:   geom.NewPointFlat(geom.XY, []float64{p.Geo.Lon, p.Geo.Lat}),
			Properties: properties(p),
		})
	}

	if err := json.NewEncoder(w).Encode(&fc); err != nil {
		return fmt.Errorf("encode geojson: %w", err)
	}
	return nil
}

func properties(p domain.MapPoint) map[string]any {
	props := map[string]any{
		"kind": string(p.Kind),
		"CALL": p.Call,
	}
	set := func(key, value string) {
		if value != "" {
			props[key] = value
		}
	}
	set("BAND", p.Band)
	set("MODE", p.Mode)
	set("SIG_INFO", p.SigInfo)
	set("QSO_DATE", p.Date)
	set("TIME_ON", p.Time)
	set("country", p.Country)
	set("park_name", p.ParkName)
	set("park_location", p.ParkLocation)
	set("geo_source", string(p.GeoSource))
	return props
}
