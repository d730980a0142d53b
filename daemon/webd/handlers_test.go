package webd

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/rotblauer/stopd/testing/testdata"
)

func TestWebDaemon_ping(t *testing.T) {
	d := newTestWebDaemon(t)
	router := d.NewRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	if body := w.Body.String(); body != "pong" {
		t.Errorf("body: got %q", body)
	}
}

func TestWebDaemon_statusReport(t *testing.T) {
	d := newTestWebDaemon(t)
	router := d.NewRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type: got %q", ct)
	}

	body := gjson.ParseBytes(w.Body.Bytes())
	if !body.Get("started_at").Exists() {
		t.Errorf("missing started_at: %s", w.Body.String())
	}
	if got := body.Get("ws_conns").Int(); got != 0 {
		t.Errorf("ws_conns: got %d", got)
	}
	if !body.Get("config.Detection").Exists() {
		t.Errorf("missing config: %s", w.Body.String())
	}
}

func TestWebDaemon_params(t *testing.T) {
	d := newTestWebDaemon(t)
	router := d.NewRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/params", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	body := gjson.ParseBytes(w.Body.Bytes())
	if got := body.Get("Workers").Int(); got != 8 {
		t.Errorf("workers: got %d, body %s", got, w.Body.String())
	}
}

func sampleFleetBody(t *testing.T) io.Reader {
	t.Helper()
	data, err := os.ReadFile(testdata.Path(testdata.Source_SampleFleetCSV))
	if err != nil {
		t.Fatal(err)
	}
	return strings.NewReader(string(data))
}

func TestWebDaemon_detect(t *testing.T) {
	d := newTestWebDaemon(t)
	router := d.NewRouter()

	req := httptest.NewRequest(http.MethodPost, "/detect", sampleFleetBody(t))
	req.Header.Set("Content-Type", "text/csv")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", w.Code, w.Body.String())
	}

	body := gjson.ParseBytes(w.Body.Bytes())
	if n := body.Get("trips.#").Int(); n != 3 {
		t.Errorf("trips: got %d", n)
	}
	if n := body.Get("stoppages.#").Int(); n == 0 {
		t.Errorf("no stoppages in response: %s", w.Body.String())
	}
	if n := body.Get("summary.totalStoppages").Int(); n != body.Get("stoppages.#").Int() {
		t.Errorf("summary disagrees with stoppages: %s", body.Get("summary").String())
	}
	if n := body.Get("quality.totalFixes").Int(); n != 14 {
		t.Errorf("quality fixes: got %d", n)
	}

	// The run record is now served by /last.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/last", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("last status: got %d", w.Code)
	}
	last := gjson.ParseBytes(w.Body.Bytes())
	if got := last.Get("fixes").Int(); got != 14 {
		t.Errorf("last run fixes: got %d", got)
	}
}

func TestWebDaemon_detectStrategyFilter(t *testing.T) {
	d := newTestWebDaemon(t)
	router := d.NewRouter()

	req := httptest.NewRequest(http.MethodPost, "/detect?strategies=timegap", sampleFleetBody(t))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", w.Code, w.Body.String())
	}
	body := gjson.ParseBytes(w.Body.Bytes())
	for _, s := range body.Get("stoppages").Array() {
		if got := s.Get("algorithm").String(); got != "Time-Gap" {
			t.Errorf("algorithm: got %q with only timegap enabled", got)
		}
	}

	req = httptest.NewRequest(http.MethodPost, "/detect?strategies=nope", sampleFleetBody(t))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad strategy status: got %d", w.Code)
	}
}

func TestWebDaemon_detectEmptyBody(t *testing.T) {
	d := newTestWebDaemon(t)
	router := d.NewRouter()

	req := httptest.NewRequest(http.MethodPost, "/detect", strings.NewReader(""))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code == http.StatusOK {
		t.Errorf("empty feed should not succeed: got %d", w.Code)
	}
}

func TestWebDaemon_compare(t *testing.T) {
	d := newTestWebDaemon(t)
	router := d.NewRouter()

	req := httptest.NewRequest(http.MethodPost, "/compare", sampleFleetBody(t))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", w.Code, w.Body.String())
	}
	body := gjson.ParseBytes(w.Body.Bytes())
	if n := body.Get("algorithms.#").Int(); n != 4 {
		t.Errorf("algorithms: got %d, want 4", n)
	}
	if got := body.Get("trips").Int(); got != 3 {
		t.Errorf("trips: got %d", got)
	}
}

func TestWebDaemon_tokenAuthentication(t *testing.T) {
	t.Setenv("STOPD_TOKEN", "sesame")

	d := newTestWebDaemon(t)
	router := d.NewRouter()

	req := httptest.NewRequest(http.MethodPost, "/detect", sampleFleetBody(t))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("missing token: got %d, want 403", w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/detect", sampleFleetBody(t))
	req.Header.Set("Authorization", "sesame")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("valid header token: got %d, body %s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/detect?api_token=sesame", sampleFleetBody(t))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("valid query token: got %d, body %s", w.Code, w.Body.String())
	}

	// Reads stay open.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status", nil))
	if w.Code != http.StatusOK {
		t.Errorf("status with token set: got %d", w.Code)
	}
}
