package server

import (
	"net/http"
)

// handleHealth handles health check requests. Every database is pinged and
// integrity-checked; any failure turns the response into a 503.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	databases := make(map[string]string)
	for _, db := range s.container.Databases() {
		if err := db.HealthCheck(r.Context()); err != nil {
			s.log.Warn().Err(err).Str("database", db.Name()).Msg("Database health check failed")
			databases[db.Name()] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		databases[db.Name()] = "ok"
	}

	response := map[string]interface{}{
		"status":    "healthy",
		"version":   "1.0.0",
		"service":   "folioview",
		"databases": databases,
	}
	if status != http.StatusOK {
		response["status"] = "degraded"
	}

	writeJSON(w, s.log, status, response)
}
