package render

import (
	"bytes"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/qso-mapper/internal/domain"
)

// Documents is one rendering of a run.
type Documents struct {
	HTML        []byte
	GeoJSON     []byte
	GeneratedAt time.Time
}

// Build renders both documents for points.
func Build(points []domain.MapPoint, generatedAt time.Time) (*Documents, error) {
	var html, gj bytes.Buffer
	if err := HTML(&html, points, generatedAt); err != nil {
		return nil, err
	}
	if err := GeoJSON(&gj, points); err != nil {
		return nil, err
	}
	return &Documents{HTML: html.Bytes(), GeoJSON: gj.Bytes(), GeneratedAt: generatedAt}, nil
}

// Bundle holds the latest Documents for the HTTP server. The zero value is
// empty and safe for concurrent use.
type Bundle struct {
	docs atomic.Pointer[Documents]
}

// Store replaces the current documents.
func (b *Bundle) Store(d *Documents) {
	b.docs.Store(d)
}

// Load returns the current documents, or nil before the first Store.
func (b *Bundle) Load() *Documents {
	return b.docs.Load()
}
