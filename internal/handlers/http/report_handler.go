// internal/handlers/http/report_handler.go
// Renders posted "name,duration" lines as a text report

package http

import (
	"errors"
	"net/http"
	"strconv"

	"benchreport/internal/bench"
	"benchreport/internal/util"
)

const noTotalWarning = `no "total" record; percentages reported as 0`

var maxBodyBytes int64 = 8 << 20

// SetMaxBodyBytes bounds request bodies read by the report endpoints.
func SetMaxBodyBytes(n int64) {
	if n > 0 {
		maxBodyBytes = n
	}
}

func ReportHandler(w http.ResponseWriter, r *http.Request) {
	c, err := collectBody(w, r)
	if err != nil {
		util.WriteError(w, err)
		return
	}
	writeReport(w, bench.NewReport(c.Aggregate()), len(c.Skipped()))
}

// collectBody aggregates the request body. ?skip_malformed=1 selects the
// skip-and-warn policy; otherwise the first bad line is a bad_input error.
func collectBody(w http.ResponseWriter, r *http.Request) (*bench.Collector, error) {
	skip, _ := strconv.ParseBool(r.URL.Query().Get("skip_malformed"))
	c := bench.NewCollector(skip)
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := c.Collect("body", body); err != nil {
		var perr *bench.ParseError
		var tooBig *http.MaxBytesError
		switch {
		case errors.As(err, &perr):
			return nil, util.BadInput(perr.Error())
		case errors.As(err, &tooBig):
			return nil, util.BadInput("request body too large")
		default:
			return nil, util.BadInput(err.Error())
		}
	}
	linesSkippedTotal.Add(int64(len(c.Skipped())))
	return c, nil
}

func writeReport(w http.ResponseWriter, rep *bench.Report, skipped int) {
	reportsTotal.Add(1)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Skipped-Lines", strconv.Itoa(skipped))
	if !rep.HasTotal && len(rep.Rows) > 0 {
		w.Header().Set("X-Report-Warning", noTotalWarning)
	}
	_, _ = rep.WriteTo(w)
}
