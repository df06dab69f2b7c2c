// internal/handlers/http/metrics_handler.go
// Prometheus text-format counters

package http

import (
	"fmt"
	"net/http"
	"sync/atomic"
)

var (
	reportsTotal      atomic.Int64
	linesSkippedTotal atomic.Int64
	runsArchivedTotal atomic.Int64
)

func MetricsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	fmt.Fprintf(w, "# HELP app_up 1 if the app is up\n# TYPE app_up gauge\napp_up 1\n")
	fmt.Fprintf(w, "# HELP benchreport_reports_total Reports rendered.\n# TYPE benchreport_reports_total counter\nbenchreport_reports_total %d\n", reportsTotal.Load())
	fmt.Fprintf(w, "# HELP benchreport_lines_skipped_total Malformed lines skipped.\n# TYPE benchreport_lines_skipped_total counter\nbenchreport_lines_skipped_total %d\n", linesSkippedTotal.Load())
	fmt.Fprintf(w, "# HELP benchreport_runs_archived_total Runs stored in the archive.\n# TYPE benchreport_runs_archived_total counter\nbenchreport_runs_archived_total %d\n", runsArchivedTotal.Load())
}
