// Package pipeline runs the enrichment pass over a QSO log: each record is
// resolved to its DXCC entity, overridden by the park table when it worked a
// known park, and the operator's home site is appended as a final marker.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/couchcryptid/qso-mapper/internal/domain"
	"github.com/couchcryptid/qso-mapper/internal/observability"
)

// Enricher orchestrates a single sequential enrichment run.
type Enricher struct {
	resolver domain.CallsignResolver
	parks    *domain.ParkTable
	logger   *slog.Logger
	metrics  *observability.Metrics
	ready    atomic.Bool
}

// NewEnricher creates an Enricher. parks may be empty but not nil.
func NewEnricher(resolver domain.CallsignResolver, parks *domain.ParkTable, logger *slog.Logger, metrics *observability.Metrics) *Enricher {
	return &Enricher{
		resolver: resolver,
		parks:    parks,
		logger:   logger,
		metrics:  metrics,
	}
}

// CheckReadiness returns nil once a run has finished, with or without errors.
func (e *Enricher) CheckReadiness(_ context.Context) error {
	if !e.ready.Load() {
		return errors.New("enrichment has not finished yet")
	}
	return nil
}

// outcome is the result of enriching one record: either a placed QSO or the
// error that stops the run.
type outcome struct {
	qso domain.QSO
	err error
}

func (o outcome) failed() bool { return o.err != nil }

// Enrich processes qsos in order. Records without a callsign are dropped. The
// first resolution failure stops the run; records placed before it are kept
// and the failure is returned in Enrichment.Err. The home-site marker is
// appended whether or not the run failed.
func (e *Enricher) Enrich(ctx context.Context, qsos []domain.QSO) domain.Enrichment {
	result := domain.Enrichment{
		RunID:     uuid.NewString(),
		Records:   make([]domain.QSO, 0, len(qsos)),
		StartedAt: domain.Now(),
	}
	logger := e.logger.With("run_id", result.RunID)
	logger.Info("enrichment started", "records", len(qsos), "parks", e.parks.Len())

	var home domain.HomeSiteRef
	for _, q := range qsos {
		if !q.HasCall() {
			e.metrics.RecordsSkipped.Inc()
			continue
		}

		o := e.enrichOne(ctx, q)
		if o.failed() {
			e.metrics.ResolutionFailures.Inc()
			result.Err = o.err
			logger.Error("resolution failed, stopping run",
				"call", q.Call,
				"error", o.err,
				"processed", len(result.Records),
			)
			break
		}

		home.Observe(o.qso.MySigInfo)
		result.Records = append(result.Records, o.qso)
		e.metrics.RecordsProcessed.Inc()
		logger.Debug("processed qso", "call", o.qso.Call, "total", len(result.Records))
	}

	if ref, ok := home.Get(); ok {
		result.HomeSite, result.HomeSiteErr = e.homeSite(ref)
		if result.HomeSiteErr != nil {
			logger.Error("home site not placed", "my_sig_info", ref, "error", result.HomeSiteErr)
		} else {
			e.metrics.HomeSiteResolved.Set(1)
		}
	}

	result.FinishedAt = domain.Now()
	e.metrics.EnrichmentComplete.Set(1)
	e.ready.Store(true)

	logger.Info("enrichment finished",
		"processed", result.Processed(),
		"failed", result.Err != nil,
		"duration", result.FinishedAt.Sub(result.StartedAt),
	)
	return result
}

func (e *Enricher) enrichOne(ctx context.Context, q domain.QSO) outcome {
	entity, err := e.resolver.Resolve(ctx, q.Call)
	if err != nil {
		return outcome{err: err}
	}

	geo := entity.Geo
	q.Geo = &geo
	q.GeoSource = domain.GeoSourceDXCC
	q.Country = entity.Name

	if park, ok := e.parks.Park(q.SigInfo); ok {
		q.Geo = &park.Geo
		q.GeoSource = domain.GeoSourcePark
		q.Park = &park
		e.metrics.ParkOverrides.Inc()
	}
	return outcome{qso: q}
}

// homeSite builds the marker for ref. A reference missing from the table
// still yields a marker, without coordinates, alongside ErrHomeSiteNotFound.
func (e *Enricher) homeSite(ref string) (*domain.HomeSite, error) {
	site := &domain.HomeSite{Reference: ref}
	park, ok := e.parks.Park(ref)
	if !ok {
		return site, fmt.Errorf("%w: %s", domain.ErrHomeSiteNotFound, ref)
	}
	geo := park.Geo
	site.Name = park.Name
	site.Location = park.LocationDesc
	site.Geo = &geo
	return site, nil
}
