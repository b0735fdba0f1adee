package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"schedcal/internal/config"
)

const page = `Winter 2026 | Undergraduate | University of Waterloo
CS 484 - Computational Vision
Status Units Grading
Enrolled
0.50
Numeric Grading Basis
Class Nbr Section Component
5123
001
LEC
TTh 1:00PM - 2:20PM
MC 4020
Jane Doe
05/01/2026 - 06/04/2026
5124
101
TUT
TBA
TBA
Staff
05/01/2026 - 06/04/2026
`

func newTestServer(t *testing.T, mutate func(*config.Config)) *Server {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Timezone = "America/Toronto"
	if mutate != nil {
		mutate(cfg)
	}
	s := NewServer(cfg)
	s.now = func() time.Time { return time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC) }
	return s
}

func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func parsePage(t *testing.T, h http.Handler) json.RawMessage {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/parse", map[string]string{"text": page})
	if rec.Code != http.StatusOK {
		t.Fatalf("parse status = %d: %s", rec.Code, rec.Body)
	}
	var resp struct {
		Schedule json.RawMessage `json:"schedule"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	return resp.Schedule
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(t, nil).Handler(), http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Errorf("health = %d %q", rec.Code, rec.Body)
	}
}

func TestParseEndpoint(t *testing.T) {
	h := newTestServer(t, nil).Handler()
	rec := do(t, h, http.MethodPost, "/api/parse", map[string]string{"text": page})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}

	var resp parseResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Filename != "schedule_winter_2026.ics" {
		t.Errorf("Filename = %q", resp.Filename)
	}
	if len(resp.Schedule.Courses) != 1 || len(resp.Schedule.Courses[0].Sessions) != 2 {
		t.Errorf("schedule = %+v", resp.Schedule)
	}
	if !strings.Contains(rec.Body.String(), `"courseCode":"CS 484"`) {
		t.Errorf("JSON field names not camelCase: %s", rec.Body)
	}
}

func TestParseEndpointMissingTerm(t *testing.T) {
	h := newTestServer(t, nil).Handler()
	rec := do(t, h, http.MethodPost, "/api/parse", map[string]string{"text": "nothing here"})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestParseEndpointRejectsGetAndBadJSON(t *testing.T) {
	h := newTestServer(t, nil).Handler()
	if rec := do(t, h, http.MethodGet, "/api/parse", nil); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET status = %d", rec.Code)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/parse", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad JSON status = %d", rec.Code)
	}
}

func TestCalendarEndpoint(t *testing.T) {
	h := newTestServer(t, nil).Handler()
	sched := parsePage(t, h)

	body := map[string]any{"schedule": sched, "summaryTemplate": "@code @type in @location"}
	rec := do(t, h, http.MethodPost, "/api/calendar", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "schedule_winter_2026.ics") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if rec.Header().Get("X-Schedcal-Warnings") != "1" {
		t.Errorf("X-Schedcal-Warnings = %q", rec.Header().Get("X-Schedcal-Warnings"))
	}
	doc := rec.Body.String()
	if !strings.Contains(doc, "SUMMARY:CS 484 LEC in MC 4020") || strings.Count(doc, "BEGIN:VEVENT") != 1 {
		t.Errorf("unexpected calendar:\n%s", doc)
	}
}

func TestCalendarEndpointJSON(t *testing.T) {
	h := newTestServer(t, nil).Handler()
	sched := parsePage(t, h)

	rec := do(t, h, http.MethodPost, "/api/calendar?format=json", map[string]any{"schedule": sched})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	var resp calendarResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Events != 1 || len(resp.Warnings) != 1 || resp.Warnings[0] != "Skipped CS 484 (TUT): Time is TBA" {
		t.Errorf("resp = %+v", resp)
	}
	// Configured default summary template applies when none is sent.
	if !strings.Contains(resp.Calendar, "SUMMARY:CS 484 LEC") {
		t.Errorf("default template not used:\n%s", resp.Calendar)
	}
}

func TestPreviewEndpoint(t *testing.T) {
	h := newTestServer(t, nil).Handler()
	sched := parsePage(t, h)

	rec := do(t, h, http.MethodPost, "/api/preview?days=7", map[string]any{"schedule": sched})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	var resp struct {
		Occurrences []struct {
			Start time.Time `json:"start"`
		} `json:"occurrences"`
		Warnings []string `json:"warnings"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	// Week of Mon Jan 5: Tue 6 and Thu 8.
	if len(resp.Occurrences) != 2 {
		t.Fatalf("got %d occurrences", len(resp.Occurrences))
	}
	// Floating 1:00PM reads as 1:00PM in the configured zone.
	first := resp.Occurrences[0].Start
	if first.Day() != 6 || first.Hour() != 13 {
		t.Errorf("first occurrence = %v, want Jan 6 13:00", first)
	}
	if _, off := first.Zone(); off != -5*60*60 {
		t.Errorf("first occurrence offset = %ds, want Toronto standard time", off)
	}

	if rec := do(t, h, http.MethodPost, "/api/preview?from=bad", map[string]any{"schedule": sched}); rec.Code != http.StatusBadRequest {
		t.Errorf("bad from status = %d", rec.Code)
	}
}

func TestBasicAuth(t *testing.T) {
	h := newTestServer(t, func(c *config.Config) {
		c.BasicAuth = &config.BasicAuthConfig{Username: "admin", Password: "secret"}
	}).Handler()

	if rec := do(t, h, http.MethodGet, "/health", nil); rec.Code != http.StatusOK {
		t.Errorf("/health behind auth: %d", rec.Code)
	}
	if rec := do(t, h, http.MethodPost, "/api/parse", map[string]string{"text": page}); rec.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated status = %d", rec.Code)
	}

	body, _ := json.Marshal(map[string]string{"text": page})
	req := httptest.NewRequest(http.MethodPost, "/api/parse", bytes.NewReader(body))
	req.SetBasicAuth("admin", "secret")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("authenticated status = %d", rec.Code)
	}
}
