// Package parks loads the POTA park reference table (all_parks_ext.csv).
package parks

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/jszwec/csvutil"

	"github.com/couchcryptid/qso-mapper/internal/domain"
)

// row mirrors the columns of all_parks_ext.csv that the map uses. Coordinates
// are decoded as text so rows with blank or bad values can be skipped instead
// of failing the whole table.
type row struct {
	Reference    string `csv:"reference"`
	Name         string `csv:"name"`
	LocationDesc string `csv:"locationDesc"`
	Latitude     string `csv:"latitude"`
	Longitude    string `csv:"longitude"`
}

var requiredColumns = []string{"reference", "latitude", "longitude"}

// Load reads the reference table from a CSV file.
func Load(path string, logger *slog.Logger) (*domain.ParkTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open park table: %w", err)
	}
	defer f.Close()
	return Parse(f, logger)
}

// Parse decodes the reference table. The header must name the reference,
// latitude and longitude columns; other columns are ignored.
func Parse(r io.Reader, logger *slog.Logger) (*domain.ParkTable, error) {
	dec, err := csvutil.NewDecoder(csv.NewReader(r))
	if errors.Is(err, io.EOF) {
		return nil, errors.New("park table is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("create csv decoder: %w", err)
	}

	header := dec.Header()
	for _, col := range requiredColumns {
		if !slices.Contains(header, col) {
			return nil, fmt.Errorf("park table missing %q column", col)
		}
	}

	var rows []row
	if err := dec.Decode(&rows); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode park table: %w", err)
	}

	parks := make([]domain.Park, 0, len(rows))
	skipped := 0
	for _, r := range rows {
		p, ok := toPark(r)
		if !ok {
			skipped++
			continue
		}
		parks = append(parks, p)
	}

	table := domain.NewParkTable(parks)
	logger.Debug("park table loaded", "rows", len(rows), "parks", table.Len(), "skipped", skipped)
	return table, nil
}

func toPark(r row) (domain.Park, bool) {
	ref := strings.TrimSpace(r.Reference)
	if ref == "" {
		return domain.Park{}, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(r.Latitude), 64)
	if err != nil {
		return domain.Park{}, false
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(r.Longitude), 64)
	if err != nil {
		return domain.Park{}, false
	}
	return domain.Park{
		Reference:    ref,
		Name:         r.Name,
		LocationDesc: r.LocationDesc,
		Geo:          domain.Geo{Lat: lat, Lon: lon},
	}, true
}
