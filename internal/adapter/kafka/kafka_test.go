package kafka

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/qso-mapper/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	finished := time.Date(2024, 4, 26, 15, 10, 0, 0, time.UTC)
	point := domain.MapPoint{
		Kind:      domain.PointContact,
		Call:      "W1ABC",
		Band:      "20m",
		SigInfo:   "K-1234",
		Geo:       &domain.Geo{Lat: 40.0, Lon: -75.0},
		GeoSource: domain.GeoSourcePark,
	}

	msg, err := serializeToMessage("run-1", finished, point)
	require.NoError(t, err)

	assert.Equal(t, []byte("W1ABC"), msg.Key)
	assert.JSONEq(t, `{
		"run_id": "run-1",
		"kind": "contact",
		"call": "W1ABC",
		"band": "20m",
		"sig_info": "K-1234",
		"geo": {"lat": 40, "lon": -75},
		"geo_source": "park"
	}`, string(msg.Value))
	require.Len(t, msg.Headers, 3)
	assert.Equal(t, "point_kind", msg.Headers[0].Key)
	assert.Equal(t, []byte("contact"), msg.Headers[0].Value)
	assert.Equal(t, "run_id", msg.Headers[1].Key)
	assert.Equal(t, []byte("run-1"), msg.Headers[1].Value)
	assert.Equal(t, "processed_at", msg.Headers[2].Key)
	assert.Equal(t, []byte(finished.Format(time.RFC3339)), msg.Headers[2].Value)
}

func TestSerializeToMessage_HomeSiteWithoutCoordinates(t *testing.T) {
	msg, err := serializeToMessage("run-1", time.Time{}, domain.MapPoint{
		Kind:    domain.PointHomeSite,
		Call:    domain.HomeSiteCall,
		SigInfo: "K-0000",
	})
	require.NoError(t, err)

	assert.Equal(t, []byte("MY_PARK"), msg.Key)
	assert.NotContains(t, string(msg.Value), `"geo"`)
	assert.Equal(t, []byte("home_site"), msg.Headers[0].Value)
}

func TestPublish_NothingToSend(t *testing.T) {
	w := NewWriter([]string{"127.0.0.1:1"}, "enriched-qsos", slog.New(slog.NewTextHandler(io.Discard, nil)))
	defer w.Close()

	assert.NoError(t, w.Publish(context.Background(), domain.Enrichment{RunID: "run-1"}))
}
