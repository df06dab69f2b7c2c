// internal/handlers/http/runs_handler.go
// Archive endpoints: list, show and store runs

package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	log "k8s.io/klog/v2"

	"benchreport/internal/bench"
	mysqlrepo "benchreport/internal/repositories/mysql"
	"benchreport/internal/util"
)

// RunStore is the archive the run endpoints read and write.
type RunStore interface {
	Save(ctx context.Context, run mysqlrepo.Run) error
	List(ctx context.Context, limit int) ([]mysqlrepo.Run, error)
	Get(ctx context.Context, id string) (mysqlrepo.Run, error)
}

var (
	runStore RunStore
	clock    util.Clock = util.RealClock{}
)

// SetRunStore wires the archive; nil disables the run endpoints.
func SetRunStore(s RunStore) { runStore = s }

// SetClock replaces the time source used to stamp new runs.
func SetClock(c util.Clock) { clock = c }

type runSummary struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"created_at"`
	Total     float64   `json:"total"`
	HasTotal  bool      `json:"has_total"`
}

func ListRunsHandler(w http.ResponseWriter, r *http.Request) {
	if runStore == nil {
		util.WriteError(w, util.Unavailable("run archive not configured"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	runs, err := runStore.List(r.Context(), limit)
	if err != nil {
		log.Errorf("list runs: %v", err)
		util.WriteError(w, util.Internal("list runs failed"))
		return
	}
	out := make([]runSummary, 0, len(runs))
	for _, run := range runs {
		out = append(out, runSummary{ID: run.ID, Label: run.Label, CreatedAt: run.CreatedAt, Total: run.Total, HasTotal: run.HasTotal})
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"runs": out})
}

// GetRunHandler re-renders an archived run as the text report.
func GetRunHandler(w http.ResponseWriter, r *http.Request) {
	if runStore == nil {
		util.WriteError(w, util.Unavailable("run archive not configured"))
		return
	}
	id := chi.URLParam(r, "id")
	if !util.ValidID(id) {
		util.WriteError(w, util.NotFound("run "+id+" not found"))
		return
	}
	run, err := runStore.Get(r.Context(), id)
	if errors.Is(err, mysqlrepo.ErrRunNotFound) {
		util.WriteError(w, util.NotFound("run "+id+" not found"))
		return
	}
	if err != nil {
		log.Errorf("get run %s: %v", id, err)
		util.WriteError(w, util.Internal("get run failed"))
		return
	}
	writeReport(w, bench.NewReport(run.Aggregate()), 0)
}

// CreateRunHandler aggregates the body like ReportHandler and archives it.
func CreateRunHandler(w http.ResponseWriter, r *http.Request) {
	if runStore == nil {
		util.WriteError(w, util.Unavailable("run archive not configured"))
		return
	}
	c, err := collectBody(w, r)
	if err != nil {
		util.WriteError(w, err)
		return
	}
	run := mysqlrepo.NewRun(util.NewID(), r.URL.Query().Get("label"), clock.Now(), c.Aggregate())
	if err := runStore.Save(r.Context(), run); err != nil {
		log.Errorf("save run: %v", err)
		util.WriteError(w, util.Internal("save run failed"))
		return
	}
	runsArchivedTotal.Add(1)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{"id": run.ID, "skipped": len(c.Skipped())})
}
