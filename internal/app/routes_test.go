// internal/app/routes_test.go

package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	apppkg "benchreport/internal/app"
	hh "benchreport/internal/handlers/http"
	mysqlrepo "benchreport/internal/repositories/mysql"
	"benchreport/internal/util"
)

const exampleInput = "total,10.0\nparse,4.0\nrender,6.0\n"

const exampleReport = "" +
	"total      10.0000s   100.000%\n" +
	"parse       4.0000s    40.000%\n" +
	"render      6.0000s    60.000%\n"

type memStore struct {
	mu   sync.Mutex
	runs map[string]mysqlrepo.Run
}

func (m *memStore) Save(_ context.Context, run mysqlrepo.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[run.ID] = run
	return nil
}

func (m *memStore) List(_ context.Context, limit int) ([]mysqlrepo.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []mysqlrepo.Run
	for _, r := range m.runs {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) Get(_ context.Context, id string) (mysqlrepo.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.runs[id]
	if !ok {
		return mysqlrepo.Run{}, mysqlrepo.ErrRunNotFound
	}
	return r, nil
}

func newRouter(t *testing.T, store hh.RunStore) (*mux.Router, hh.AdminCreds) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	creds := hh.AdminCreds{User: "admin", PassHash: string(hash), JWTSecret: "test-secret"}
	hh.SetRunStore(store)
	t.Cleanup(func() { hh.SetRunStore(nil) })

	r := mux.NewRouter()
	apppkg.RegisterRoutesWithDeps(r, apppkg.RegisterDeps{Admin: creds})
	return r, creds
}

func do(r http.Handler, method, target, body string, hdr map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestPublicRoutesHealthy(t *testing.T) {
	r := mux.NewRouter()
	apppkg.RegisterRoutes(r)

	for _, path := range []string{"/healthz", "/readyz", "/metrics", "/api/healthz"} {
		if rec := do(r, http.MethodGet, path, "", nil); rec.Code != http.StatusOK {
			t.Fatalf("expected 200 on %s, got %d", path, rec.Code)
		}
	}
}

func TestReportEndpoint(t *testing.T) {
	r, _ := newRouter(t, nil)
	rec := do(r, http.MethodPost, "/api/report", exampleInput, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, body=%s", rec.Code, rec.Body.String())
	}
	if rec.Body.String() != exampleReport {
		t.Fatalf("report mismatch\n got: %q\nwant: %q", rec.Body.String(), exampleReport)
	}
	if rec.Header().Get("X-Skipped-Lines") != "0" {
		t.Fatalf("X-Skipped-Lines = %q", rec.Header().Get("X-Skipped-Lines"))
	}
}

func TestReportEndpointMalformed(t *testing.T) {
	r, _ := newRouter(t, nil)

	rec := do(r, http.MethodPost, "/api/report", "total,1\nbadline\nx,2\n", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("fail-fast: status %d", rec.Code)
	}
	var body struct{ Code, Message string }
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Code != "bad_input" || !strings.Contains(body.Message, "body:2") {
		t.Fatalf("error body = %+v", body)
	}

	rec = do(r, http.MethodPost, "/api/report?skip_malformed=1", "total,1\nbadline\nx,2\n", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("skip: status %d", rec.Code)
	}
	if rec.Header().Get("X-Skipped-Lines") != "1" {
		t.Fatalf("X-Skipped-Lines = %q", rec.Header().Get("X-Skipped-Lines"))
	}
	if !strings.Contains(rec.Body.String(), "x          2.0000s   200.000%") {
		t.Fatalf("unexpected body:\n%s", rec.Body.String())
	}
}

func TestReportEndpointMissingTotal(t *testing.T) {
	r, _ := newRouter(t, nil)
	rec := do(r, http.MethodPost, "/api/report", "parse,4\n", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if rec.Header().Get("X-Report-Warning") == "" {
		t.Fatalf("missing X-Report-Warning")
	}
	if rec.Body.String() != "parse      4.0000s     0.000%\n" {
		t.Fatalf("body = %q", rec.Body.String())
	}
}

func TestRunsDisabledWithoutStore(t *testing.T) {
	r, _ := newRouter(t, nil)
	if rec := do(r, http.MethodGet, "/api/runs", "", nil); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestCreateRunRequiresToken(t *testing.T) {
	r, _ := newRouter(t, &memStore{runs: map[string]mysqlrepo.Run{}})
	rec := do(r, http.MethodPost, "/api/runs", exampleInput, nil)
	if rec.Code == http.StatusCreated || rec.Code == http.StatusOK {
		t.Fatalf("expected archive write to be protected, got %d", rec.Code)
	}
}

func TestLoginArchiveAndFetchRun(t *testing.T) {
	store := &memStore{runs: map[string]mysqlrepo.Run{}}
	r, _ := newRouter(t, store)

	bad := do(r, http.MethodPost, "/login", `{"username":"admin","password":"nope"}`, nil)
	if bad.Code != http.StatusUnauthorized {
		t.Fatalf("bad login: status %d", bad.Code)
	}

	login := do(r, http.MethodPost, "/login", `{"username":"admin","password":"pw"}`, nil)
	if login.Code != http.StatusOK {
		t.Fatalf("login: status %d, body=%s", login.Code, login.Body.String())
	}
	var tok struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(login.Body.Bytes(), &tok); err != nil || tok.Token == "" {
		t.Fatalf("login body %s: %v", login.Body.String(), err)
	}

	pinned := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	hh.SetClock(util.FixedClock{T: pinned})
	t.Cleanup(func() { hh.SetClock(util.RealClock{}) })

	auth := map[string]string{"Authorization": "Bearer " + tok.Token}
	created := do(r, http.MethodPost, "/api/runs?label=nightly", exampleInput, auth)
	if created.Code != http.StatusCreated {
		t.Fatalf("create: status %d, body=%s", created.Code, created.Body.String())
	}
	var out struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(bytes.NewReader(created.Body.Bytes())).Decode(&out); err != nil {
		t.Fatal(err)
	}
	stored := store.runs[out.ID]
	if stored.Label != "nightly" || !stored.CreatedAt.Equal(pinned) {
		t.Fatalf("stored run = %+v", stored)
	}

	got := do(r, http.MethodGet, "/api/runs/"+out.ID, "", nil)
	if got.Code != http.StatusOK || got.Body.String() != exampleReport {
		t.Fatalf("get run: status %d body=%q", got.Code, got.Body.String())
	}

	list := do(r, http.MethodGet, "/api/runs", "", nil)
	if list.Code != http.StatusOK || !strings.Contains(list.Body.String(), out.ID) {
		t.Fatalf("list runs: status %d body=%s", list.Code, list.Body.String())
	}

	missing := do(r, http.MethodGet, "/api/runs/00000000-0000-0000-0000-000000000000", "", nil)
	if missing.Code != http.StatusNotFound {
		t.Fatalf("missing run: status %d", missing.Code)
	}
}

func TestRunsPreflightAndPrefix(t *testing.T) {
	r, _ := newRouter(t, &memStore{runs: map[string]mysqlrepo.Run{}})

	for _, path := range []string{"/api/runs", "/api/runs/", "/api/runs/" + util.NewID(), "/api/report"} {
		if rec := do(r, http.MethodOptions, path, "", nil); rec.Code != http.StatusNoContent {
			t.Fatalf("OPTIONS %s: status %d", path, rec.Code)
		}
	}

	if rec := do(r, http.MethodGet, "/api/runs", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("GET /api/runs: status %d", rec.Code)
	}
	if rec := do(r, http.MethodGet, "/api/runsXYZ", "", nil); rec.Code == http.StatusOK {
		t.Fatalf("GET /api/runsXYZ served by the runs router")
	}
}
