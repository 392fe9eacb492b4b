package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordHTTPRequest(t *testing.T) {
	HTTPRequestsTotal.Reset()
	HTTPRequestDuration.Reset()

	RecordHTTPRequest("GET", "/api/v1/tracks", "200", 0.123)

	counter := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/tracks", "200"))
	if counter != 1.0 {
		t.Errorf("Expected counter to be 1.0, got %f", counter)
	}
}

func TestRecordTrackLookup(t *testing.T) {
	TrackLookupsTotal.Reset()

	RecordTrackLookup("html", OutcomeFound)
	RecordTrackLookup("html", OutcomeFound)
	RecordTrackLookup("json", OutcomeNotFound)

	found := testutil.ToFloat64(TrackLookupsTotal.WithLabelValues("html", OutcomeFound))
	if found != 2.0 {
		t.Errorf("Expected found counter to be 2.0, got %f", found)
	}

	notFound := testutil.ToFloat64(TrackLookupsTotal.WithLabelValues("json", OutcomeNotFound))
	if notFound != 1.0 {
		t.Errorf("Expected not_found counter to be 1.0, got %f", notFound)
	}
}

func TestRecordTrackEmittedAndSkipped(t *testing.T) {
	TracksEmittedTotal.Reset()
	TracksSkippedTotal.Reset()

	RecordTrackEmitted("captions")
	RecordTrackEmitted("subtitles")
	RecordTrackSkipped("no_url")

	if v := testutil.ToFloat64(TracksEmittedTotal.WithLabelValues("captions")); v != 1.0 {
		t.Errorf("Expected captions counter to be 1.0, got %f", v)
	}
	if v := testutil.ToFloat64(TracksSkippedTotal.WithLabelValues("no_url")); v != 1.0 {
		t.Errorf("Expected no_url counter to be 1.0, got %f", v)
	}
}

func TestRecordStoreQuery(t *testing.T) {
	StoreQueryDuration.Reset()
	StoreErrorsTotal.Reset()

	RecordStoreQuery("sqlite", "query", 0.002, nil)
	RecordStoreQuery("sqlite", "query", 0.004, errors.New("database is locked"))

	if v := testutil.ToFloat64(StoreErrorsTotal.WithLabelValues("sqlite", "query")); v != 1.0 {
		t.Errorf("Expected error counter to be 1.0, got %f", v)
	}

	if n := testutil.CollectAndCount(StoreQueryDuration); n != 1 {
		t.Errorf("Expected 1 duration series, got %d", n)
	}
}

func TestRecordRateLimited(t *testing.T) {
	before := testutil.ToFloat64(RateLimitedTotal)
	RecordRateLimited()
	if after := testutil.ToFloat64(RateLimitedTotal); after != before+1 {
		t.Errorf("Expected rate limited counter to increase by 1, got %f -> %f", before, after)
	}
}
