package web

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"schedcal/internal/calendar"
	"schedcal/internal/config"
	"schedcal/internal/ics"
	appLog "schedcal/internal/log"
	"schedcal/internal/model"
	"schedcal/internal/parser"
)

// maxBodyBytes bounds request bodies; a schedule page is well under this.
const maxBodyBytes = 4 << 20

// Server exposes the parser and calendar compiler over HTTP for a UI.
type Server struct {
	cfg *config.Config
	loc *time.Location
	now func() time.Time
	mux *http.ServeMux
}

// NewServer constructs a new Server.
func NewServer(cfg *config.Config) *Server {
	loc, err := cfg.Location()
	if err != nil {
		appLog.Error("failed to load timezone; falling back to local", err, "name", cfg.Timezone)
	}
	s := &Server{
		cfg: cfg,
		loc: loc,
		now: time.Now,
		mux: http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

// basicAuthEnabled reports whether HTTP Basic Auth is configured.
func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	// Empty username or password disables auth.
	return s.cfg.BasicAuth.Username != "" && s.cfg.BasicAuth.Password != ""
}

// basicAuthMiddleware wraps all handlers except /health with HTTP Basic Auth.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="schedcal", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// StartServer serves the API on cfg.Listen until ctx is cancelled.
func StartServer(ctx context.Context, cfg *config.Config) error {
	s := NewServer(cfg)
	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	appLog.Info("starting HTTP server", "listen", "http://"+cfg.Listen)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/parse", s.handleParse)
	s.mux.HandleFunc("/api/calendar", s.handleCalendar)
	s.mux.HandleFunc("/api/preview", s.handlePreview)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// parseRequest is the JSON body of POST /api/parse.
type parseRequest struct {
	Text string `json:"text"`
}

// parseResponse is the JSON response of POST /api/parse.
type parseResponse struct {
	Schedule    model.ParsedSchedule `json:"schedule"`
	Diagnostics []string             `json:"diagnostics"`
	Filename    string               `json:"filename"`
}

// handleParse turns pasted text into a schedule.
//
// POST /api/parse  {"text": "..."}
//   - 200 with the schedule and any skipped-session diagnostics
//   - 422 when the term line is missing
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if !decodePOST(w, r, &req) {
		return
	}

	res, err := parser.Parse(req.Text)
	if err != nil {
		if errors.Is(err, parser.ErrMissingTermInfo) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		appLog.Error("api parse failed", err)
		writeError(w, http.StatusInternalServerError, "failed to parse schedule")
		return
	}

	diags := res.Diagnostics
	if diags == nil {
		diags = []string{}
	}
	writeJSON(w, http.StatusOK, parseResponse{
		Schedule:    res.Schedule,
		Diagnostics: diags,
		Filename:    res.Schedule.Filename(),
	})
}

// calendarRequest is the JSON body of POST /api/calendar and /api/preview.
// Nil templates fall back to the configured ones; an explicit "" is kept.
type calendarRequest struct {
	Schedule            model.ParsedSchedule `json:"schedule"`
	SummaryTemplate     *string              `json:"summaryTemplate"`
	DescriptionTemplate *string              `json:"descriptionTemplate"`
}

func (s *Server) templates(req calendarRequest) (string, string) {
	summary, description := s.cfg.SummaryTemplate, s.cfg.DescriptionTemplate
	if req.SummaryTemplate != nil {
		summary = *req.SummaryTemplate
	}
	if req.DescriptionTemplate != nil {
		description = *req.DescriptionTemplate
	}
	return summary, description
}

func (s *Server) compile(req calendarRequest) calendar.Result {
	summary, description := s.templates(req)
	c := calendar.Compiler{Now: s.now}
	return c.Compile(req.Schedule, summary, description)
}

// calendarResponse is returned by /api/calendar?format=json.
type calendarResponse struct {
	Filename string   `json:"filename"`
	Calendar string   `json:"calendar"`
	Warnings []string `json:"warnings"`
	Events   int      `json:"events"`
}

// handleCalendar compiles a (possibly edited) schedule into an ICS file.
//
// POST /api/calendar[?format=json]
//   - default: text/calendar attachment; warning count in X-Schedcal-Warnings
//   - format=json: filename, calendar text and warnings as JSON
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	var req calendarRequest
	if !decodePOST(w, r, &req) {
		return
	}

	res := s.compile(req)
	warnings := res.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	filename := req.Schedule.Filename()

	if r.URL.Query().Get("format") == "json" {
		writeJSON(w, http.StatusOK, calendarResponse{
			Filename: filename,
			Calendar: string(res.Document),
			Warnings: warnings,
			Events:   res.Events,
		})
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("X-Schedcal-Warnings", strconv.Itoa(len(warnings)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Document)
}

// previewResponse is the JSON response of POST /api/preview.
type previewResponse struct {
	Occurrences []model.Occurrence `json:"occurrences"`
	Warnings    []string           `json:"warnings"`
	RangeStart  time.Time          `json:"rangeStart"`
	RangeEnd    time.Time          `json:"rangeEnd"`
	TimeZone    string             `json:"timezone"`
}

// handlePreview compiles the schedule and lists the meetings in a window.
//
// POST /api/preview?days=7&from=2026-01-05
//   - days: window length (default 7)
//   - from: first day, YYYY-MM-DD (default: today)
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	var req calendarRequest
	if !decodePOST(w, r, &req) {
		return
	}

	q := r.URL.Query()
	days := parseIntDefault(q.Get("days"), 7)
	if days <= 0 {
		days = 7
	}
	now := s.now().In(s.loc)
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	if v := q.Get("from"); v != "" {
		d, err := time.ParseInLocation("2006-01-02", v, s.loc)
		if err != nil {
			writeError(w, http.StatusBadRequest, "from must be YYYY-MM-DD")
			return
		}
		from = d
	}

	res := s.compile(req)
	exp, err := ics.Preview(res.Document, from, days, s.loc)
	if err != nil {
		appLog.Error("api preview: expand failed", err)
		writeError(w, http.StatusInternalServerError, "failed to expand calendar")
		return
	}

	warnings := res.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	writeJSON(w, http.StatusOK, previewResponse{
		Occurrences: exp.Occurrences,
		Warnings:    warnings,
		RangeStart:  from,
		RangeEnd:    from.AddDate(0, 0, days),
		TimeZone:    s.loc.String(),
	})
}

// decodePOST enforces POST and decodes a bounded JSON body into v. It writes
// the error response itself and reports whether the handler should go on.
func decodePOST(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return false
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
