package domain

import "strings"

// ADIF field names read by the enrichment pipeline.
const (
	FieldCall      = "CALL"
	FieldBand      = "BAND"
	FieldMode      = "MODE"
	FieldDate      = "QSO_DATE"
	FieldTime      = "TIME_ON"
	FieldSigInfo   = "SIG_INFO"
	FieldMySigInfo = "MY_SIG_INFO"
)

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// GeoSource records which tier placed a record.
type GeoSource string

const (
	GeoSourceDXCC GeoSource = "dxcc" // country-level coordinates from the callsign lookup
	GeoSourcePark GeoSource = "park" // reference-table override
)

// QSO is one logged contact.
type QSO struct {
	Call      string
	Band      string
	Mode      string
	Date      string
	Time      string
	SigInfo   string
	MySigInfo string

	// Fields holds every field of the source record, keyed by upper-case name.
	Fields map[string]string

	// Set by the enrichment pipeline.
	Geo       *Geo
	GeoSource GeoSource
	Country   string
	Park      *Park // set when SigInfo matched the reference table
}

// NewQSO builds a QSO from a record's named fields. Field names are matched
// case-insensitively; values are taken as-is.
func NewQSO(fields map[string]string) QSO {
	norm := make(map[string]string, len(fields))
	for k, v := range fields {
		norm[strings.ToUpper(k)] = v
	}
	return QSO{
		Call:      norm[FieldCall],
		Band:      norm[FieldBand],
		Mode:      norm[FieldMode],
		Date:      norm[FieldDate],
		Time:      norm[FieldTime],
		SigInfo:   norm[FieldSigInfo],
		MySigInfo: norm[FieldMySigInfo],
		Fields:    norm,
	}
}

// HasCall reports whether the record carries a usable callsign.
func (q QSO) HasCall() bool {
	return q.Call != ""
}
