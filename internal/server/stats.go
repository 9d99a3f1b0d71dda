package server

import (
	"net/http"
	"sync/atomic"
	"time"
)

// Stats counts API outcomes for the public /api/stats summary.
type Stats struct {
	startTime time.Time
	requests  atomic.Int64
	failures  atomic.Int64
	commands  atomic.Int64
}

// StatsResponse is the JSON body of /api/stats
type StatsResponse struct {
	UptimeSeconds int64   `json:"uptimeSeconds"`
	Requests      int64   `json:"requests"`
	Commands      int64   `json:"commands"`
	SuccessRate   float64 `json:"successRate"`
}

func newStats() *Stats {
	return &Stats{startTime: time.Now()}
}

// Record counts one finished request. Server errors count as failures;
// successful POSTs count as palette commands.
func (s *Stats) Record(method string, status int) {
	s.requests.Add(1)
	switch {
	case status >= 500:
		s.failures.Add(1)
	case method == http.MethodPost && status < 300:
		s.commands.Add(1)
	}
}

// SuccessRate is the percentage of requests that did not fail
func (s *Stats) SuccessRate() float64 {
	total := s.requests.Load()
	if total == 0 {
		return 100.0
	}
	return float64(total-s.failures.Load()) / float64(total) * 100.0
}

// Snapshot returns the current counters
func (s *Stats) Snapshot() StatsResponse {
	return StatsResponse{
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		Requests:      s.requests.Load(),
		Commands:      s.commands.Load(),
		SuccessRate:   s.SuccessRate(),
	}
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeData(w, s.stats.Snapshot())
}
