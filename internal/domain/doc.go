// Package domain models amateur-radio contact records (QSOs) and the
// geolocation data used to place them on a map.
//
// # Data Sources
//
// QSOs come from an ADIF log exported by the operator's logging program. Each
// record is a set of named string fields; the ones this package cares about:
//
//	CALL         callsign of the station worked (required)
//	BAND, MODE   passthrough display fields, e.g. "20m", "SSB"
//	QSO_DATE     YYYYMMDD, passthrough
//	TIME_ON      HHMM[SS] UTC, passthrough
//	SIG_INFO     reference of the site the other station was at, e.g. "K-1234"
//	MY_SIG_INFO  reference of the operator's own site
//
// Site references follow the Parks on the Air (POTA) scheme: a program prefix,
// a dash, and a number ("K-0817", "VE-0001"). The reference table is the POTA
// park export (all_parks_ext.csv) with reference, latitude and longitude
// columns. References match exactly; no case folding is applied.
//
// # Coordinate Resolution
//
// A QSO is placed in three tiers:
//
//	1. Geolocation cache: the raw DXCC lookup payload for the callsign, kept
//	   across runs. A hit never touches the network.
//	2. Remote lookup: HamQTH's DXCC endpoint returns country-level
//	   coordinates for the callsign prefix. The raw payload is cached before
//	   it is parsed.
//	3. Park override: when SIG_INFO names a park in the reference table, the
//	   park's coordinates replace the country-level ones.
//
// The first QSO carrying a non-empty MY_SIG_INFO fixes the operator's home
// site for the run. It is emitted as a synthetic marker after all contacts,
// placed only from the reference table.
//
// # Failure Policy
//
// Records without a callsign are dropped. A failed remote lookup stops the
// run: contacts already placed are kept and emitted, later ones are not. A
// home-site reference missing from the table is reported as
// [ErrHomeSiteNotFound] and the marker is emitted without coordinates.
package domain
