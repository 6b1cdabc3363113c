// Copyright 2025 Ian Lewis
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package server implements the HTTP query interface for documentation set
// search indexes.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ianlewis/go-docsearch"
	"github.com/ianlewis/go-docsearch/internal/logger"
	"github.com/ianlewis/go-docsearch/searchdata"
)

// Options configures a Server.
type Options struct {
	// DefaultSection is searched when a request names no section.
	DefaultSection string

	// DefaultLimit is the number of results returned when a request sets
	// no limit.
	DefaultLimit int

	// MaxResults caps the limit a request may ask for.
	MaxResults int

	// Registry receives the server's metrics. If nil, metrics are disabled.
	Registry *prometheus.Registry

	// MetricsPath is the path metrics are served at.
	MetricsPath string
}

// DefaultOptions is the default server options.
var DefaultOptions = &Options{
	DefaultSection: searchdata.AllSection,
	DefaultLimit:   20,
	MaxResults:     200,
	MetricsPath:    "/metrics",
}

// Server serves search queries over a fixed list of documentation sets.
type Server struct {
	sets    []*docsearch.DocSet
	opts    Options
	metrics *Metrics
	checker *Checker
	logger  *slog.Logger
}

// New returns a new Server for the given documentation sets.
func New(sets []*docsearch.DocSet, options *Options) *Server {
	if options == nil {
		options = DefaultOptions
	}
	s := &Server{
		sets:    sets,
		opts:    *options,
		checker: NewChecker(),
		logger:  logger.WithComponent("server"),
	}
	if s.opts.DefaultSection == "" {
		s.opts.DefaultSection = DefaultOptions.DefaultSection
	}
	if s.opts.DefaultLimit < 1 {
		s.opts.DefaultLimit = DefaultOptions.DefaultLimit
	}
	if s.opts.MaxResults < s.opts.DefaultLimit {
		s.opts.MaxResults = s.opts.DefaultLimit
	}
	if s.opts.MetricsPath == "" {
		s.opts.MetricsPath = DefaultOptions.MetricsPath
	}

	if s.opts.Registry != nil {
		s.metrics = NewMetrics(s.opts.Registry)
		for _, d := range sets {
			for _, sec := range d.Sections() {
				s.metrics.IndexEntries.WithLabelValues(d.Name(), sec.Name).Set(float64(d.Index(sec.Name).Len()))
			}
		}
	}

	s.checker.Register("docsets", func(context.Context) ComponentHealth {
		if len(s.sets) == 0 {
			return ComponentHealth{Status: StatusDown, Message: "no documentation sets loaded"}
		}
		return ComponentHealth{Status: StatusUp, Message: fmt.Sprintf("%d documentation sets loaded", len(s.sets))}
	})

	return s
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/search", s.Search)
	mux.HandleFunc("GET /api/v1/sets", s.Sets)
	mux.HandleFunc("GET /health/live", s.checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", s.checker.ReadyHandler())

	var chain http.Handler = mux
	if s.metrics != nil {
		mux.Handle("GET "+s.opts.MetricsPath, s.metrics.Handler())
		// The mux sets the route pattern on the request it is given so
		// Instrument wraps it directly.
		chain = Instrument(s.metrics)(chain)
	}
	chain = Logging(chain)
	chain = RequestID(chain)
	return chain
}

// Serve serves HTTP on l until ctx is done and then shuts down gracefully,
// waiting up to shutdownTimeout for in-flight requests.
func (s *Server) Serve(ctx context.Context, l net.Listener, srv *http.Server, shutdownTimeout time.Duration) error {
	if srv == nil {
		srv = &http.Server{}
	}
	srv.Handler = s.Handler()

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", l.Addr().String(), "sets", len(s.sets))
		errc <- srv.Serve(l)
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving: %w", err)
	}
	return nil
}

// TargetResult is a navigation target in a search response.
type TargetResult struct {
	Label    string `json:"label"`
	URL      string `json:"url"`
	Href     string `json:"href"`
	Scope    string `json:"scope,omitempty"`
	External bool   `json:"external,omitempty"`

	// Breadcrumb is the navigation path to the target's page.
	Breadcrumb []string `json:"breadcrumb,omitempty"`
}

// Result is a matching entry in a search response.
type Result struct {
	Set     string          `json:"set"`
	Key     string          `json:"key"`
	Label   string          `json:"label"`
	Targets []*TargetResult `json:"targets"`
}

// SearchResponse is the search endpoint's response body.
type SearchResponse struct {
	Query    string    `json:"query"`
	Section  string    `json:"section"`
	Total    int       `json:"total"`
	Returned int       `json:"returned"`
	Results  []*Result `json:"results"`
}

// SectionInfo describes a loaded section.
type SectionInfo struct {
	Name    string `json:"name"`
	Label   string `json:"label"`
	Entries int    `json:"entries"`
}

// SetInfo describes a loaded documentation set.
type SetInfo struct {
	Name     string         `json:"name"`
	Path     string         `json:"path"`
	Sections []*SectionInfo `json:"sections"`
}

// Search handles GET /api/v1/search?q=&set=&section=&limit=.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	log := logger.FromContext(r.Context())
	params := r.URL.Query()

	query := params.Get("q")
	section := params.Get("section")
	if section == "" {
		section = s.opts.DefaultSection
	}

	limit := s.opts.DefaultLimit
	if v := params.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.countQuery("error")
			s.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, s.opts.MaxResults)
	}

	sets := s.sets
	if name := params.Get("set"); name != "" {
		d := s.set(name)
		if d == nil {
			s.countQuery("error")
			s.writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown set %q", name))
			return
		}
		sets = []*docsearch.DocSet{d}
	}

	resp := &SearchResponse{
		Query:   query,
		Section: section,
		Results: []*Result{},
	}

	found := false
	for _, d := range sets {
		entries, err := d.SearchSection(section, query)
		if errors.Is(err, docsearch.ErrUnknownSection) {
			continue
		}
		found = true
		resp.Total += len(entries)
		for _, e := range entries {
			if len(resp.Results) >= limit {
				break
			}
			resp.Results = append(resp.Results, newResult(e))
		}
	}
	if !found && len(sets) > 0 {
		s.countQuery("error")
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown section %q", section))
		return
	}
	resp.Returned = len(resp.Results)

	switch {
	case strings.TrimSpace(query) == "":
		s.countQuery("empty")
	case resp.Total == 0:
		s.countQuery("zero_result")
	default:
		s.countQuery("hit")
	}
	if s.metrics != nil {
		s.metrics.SearchResultsCount.Observe(float64(resp.Total))
	}

	log.Info("search completed",
		"query", query,
		"section", section,
		"total_hits", resp.Total,
		"returned", resp.Returned,
		"latency", time.Since(start),
	)
	s.writeJSON(w, http.StatusOK, resp)
}

// Sets handles GET /api/v1/sets.
func (s *Server) Sets(w http.ResponseWriter, _ *http.Request) {
	infos := []*SetInfo{}
	for _, d := range s.sets {
		info := &SetInfo{
			Name:     d.Name(),
			Path:     d.Path(),
			Sections: []*SectionInfo{},
		}
		for _, sec := range d.Sections() {
			info.Sections = append(info.Sections, &SectionInfo{
				Name:    sec.Name,
				Label:   sec.Label,
				Entries: d.Index(sec.Name).Len(),
			})
		}
		infos = append(infos, info)
	}
	s.writeJSON(w, http.StatusOK, infos)
}

func (s *Server) set(name string) *docsearch.DocSet {
	for _, d := range s.sets {
		if d.Name() == name {
			return d
		}
	}
	return nil
}

func (s *Server) countQuery(resultType string) {
	if s.metrics != nil {
		s.metrics.SearchQueriesTotal.WithLabelValues(resultType).Inc()
	}
}

func newResult(e *docsearch.Entry) *Result {
	res := &Result{
		Set:   e.Set().Name(),
		Key:   e.Key(),
		Label: e.Title(),
	}
	for _, t := range e.Targets() {
		res.Targets = append(res.Targets, &TargetResult{
			Label:      t.Label,
			URL:        t.URL,
			Href:       e.Href(t),
			Scope:      t.Scope,
			External:   t.External,
			Breadcrumb: e.Breadcrumb(t),
		})
	}
	return res
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to write response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
