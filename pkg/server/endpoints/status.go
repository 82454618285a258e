package endpoints

import (
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"os"
	"strings"

	"github.com/saltstack/porch/pkg/server"
	"github.com/saltstack/porch/pkg/server/store"
)

// StatusResponse represents the response from the status endpoint
type StatusResponse struct {
	Version  string `json:"version"`
	Database string `json:"database"`
}

// RegisterStatusEndpoints registers the status page
func RegisterStatusEndpoints(s *server.Server) {
	// GET / - Status page (no auth required)
	s.Router.HandleFunc("/", handleStatus(s.HealthStore)).Methods("GET")
}

func handleStatus(health store.HealthStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		version := os.Getenv("PORCH_VERSION_DISPLAY")
		if version == "" {
			version = "0.1.0"
		}

		status := http.StatusOK
		response := StatusResponse{Version: version, Database: "ok"}
		if err := health.CheckConnectivity(r.Context()); err != nil {
			status = http.StatusServiceUnavailable
			response.Database = err.Error()
		}

		accept := r.Header.Get("Accept")
		format := r.URL.Query().Get("format")
		if format == "json" || strings.Contains(accept, "application/json") {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(response)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		_, _ = fmt.Fprintf(w, `<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <title>Porch Status</title>
  </head>
  <body>
    <h1>Your Porch server is running!</h1>
    <dl>
      <dt>Version</dt><dd>%s</dd>
      <dt>Database</dt><dd>%s</dd>
    </dl>
  </body>
</html>
`, html.EscapeString(response.Version), html.EscapeString(response.Database))
	}
}
