package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sweeney/water-sampler/internal/sequence"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Result().Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(body)
}

func TestRecordEvent(t *testing.T) {
	m := New()
	now := time.Now()

	m.RecordEvent(sequence.Event{Timestamp: now, Type: sequence.EventPumpStart, Pump: 2})
	m.RecordEvent(sequence.Event{Timestamp: now, Type: sequence.EventPumpStop, Pump: 2})
	m.RecordEvent(sequence.Event{Timestamp: now, Type: sequence.EventWaterPresent, Pump: -1})
	m.RecordEvent(sequence.Event{Timestamp: now, Type: sequence.EventSequenceDone, Pump: -1})

	body := scrape(t, m)
	for _, want := range []string{
		`sampler_pump_starts_total{pump="3"} 1`,
		`sampler_pump_stops_total{pump="3"} 1`,
		`sampler_water_events_total{state="present"} 1`,
		`sampler_sequences_completed_total 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("missing %q in scrape:\n%s", want, body)
		}
	}
}

func TestUpdateEngineGaugesAndStaleDelta(t *testing.T) {
	m := New()

	m.UpdateEngine(4, true, sequence.Counts{StaleDropped: 2})
	m.UpdateEngine(4, true, sequence.Counts{StaleDropped: 5})

	body := scrape(t, m)
	if !strings.Contains(body, "sampler_active_pump 5") {
		t.Errorf("active pump gauge missing:\n%s", body)
	}
	if !strings.Contains(body, "sampler_armed 1") {
		t.Errorf("armed gauge missing:\n%s", body)
	}
	// Absolute count 5, not 2+5.
	if !strings.Contains(body, "sampler_stale_events_dropped_total 5") {
		t.Errorf("stale counter wrong:\n%s", body)
	}

	m.UpdateEngine(-1, false, sequence.Counts{StaleDropped: 5})
	body = scrape(t, m)
	if !strings.Contains(body, "sampler_active_pump 0") {
		t.Errorf("idle gauge wrong:\n%s", body)
	}
}

func TestRecordCommit(t *testing.T) {
	m := New()
	m.RecordCommit()
	m.RecordCommit()
	if !strings.Contains(scrape(t, m), "sampler_config_commits_total 2") {
		t.Error("commit counter wrong")
	}
}
