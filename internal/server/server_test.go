package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/revenue-forecast/internal/config"
	"github.com/iwvelando/revenue-forecast/internal/store"
	"github.com/iwvelando/revenue-forecast/pkg/model"
	"github.com/iwvelando/revenue-forecast/pkg/projection"
	"github.com/iwvelando/revenue-forecast/pkg/testutil"
	"go.uber.org/zap"
)

func fixedNow() time.Time {
	return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
}

func newTestHandler(t *testing.T, sims ...model.Simulation) (http.Handler, store.Store) {
	t.Helper()

	s, err := store.NewFileStore(nil, t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	for _, sim := range sims {
		if err := s.Save(context.Background(), sim); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	handler := NewHandler(zap.NewNop(), Options{
		Store:    s,
		Defaults: *config.Default(),
		Version:  "1.2.3",
		Now:      fixedNow,
	})
	return handler, s
}

func sampleSims() []model.Simulation {
	return []model.Simulation{
		testutil.Simulation("1", false, testutil.MonthlyService("a", 1000, "2026-01-01")),
		testutil.Simulation("2", true, testutil.MonthlyService("b", 9999, "2026-01-01")),
	}
}

func perform(t *testing.T, handler http.Handler, method, target string, body []byte) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestHandleVersion(t *testing.T) {
	handler, _ := newTestHandler(t)

	rr := perform(t, handler, http.MethodGet, "/api/version", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["version"] != "1.2.3" {
		t.Fatalf("expected version 1.2.3, got %q", resp["version"])
	}
}

func TestHandleVersionDefaultsToDev(t *testing.T) {
	handler := NewHandler(nil, Options{})

	rr := perform(t, handler, http.MethodGet, "/api/version", nil)
	if !strings.Contains(rr.Body.String(), `"dev"`) {
		t.Fatalf("expected dev version, got %s", rr.Body.String())
	}
}

func TestHandleReport(t *testing.T) {
	handler, _ := newTestHandler(t)

	payload := []byte(`{
		"simulations": [
			{"id": 1, "name": "Agency", "isTest": false, "services": [
				{"id": 10, "name": "Retainer", "price": "1000", "quantity": 2, "frequency": "mois", "startDate": "2026-01-01",
				 "params": {"socialChargesRate": 20, "hostingCost": 15}}
			]}
		],
		"options": {"granularity": "quarter", "year": 2026}
	}`)

	rr := perform(t, handler, http.MethodPost, "/api/report", payload)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp reportResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Granularity != "quarter" || resp.ReferenceDate != "2026-10-19" {
		t.Fatalf("unexpected report header: %+v", resp.Report)
	}
	if len(resp.Rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(resp.Rows))
	}
	testutil.AssertAmount(t, "T1 revenue", resp.Rows[0].Revenue, 6000)
	testutil.AssertAmount(t, "T1 charges", resp.Rows[0].Charges, 1200)
	testutil.AssertAmount(t, "T1 fixed", resp.Rows[0].Fixed, 45)
	if resp.CSV == "" || resp.Duration == "" {
		t.Fatal("expected CSV and duration in response")
	}
	if len(resp.NetBySimulation) != 1 || len(resp.NetBySimulation[0].Net) != 4 {
		t.Fatalf("unexpected net breakdown: %+v", resp.NetBySimulation)
	}
}

func TestHandleReportErrors(t *testing.T) {
	handler, _ := newTestHandler(t)

	tests := []struct {
		name     string
		body     string
		expected int
	}{
		{name: "Malformed JSON", body: `{"simulations": [`, expected: http.StatusBadRequest},
		{name: "Bad simulations", body: `{"simulations": "nope"}`, expected: http.StatusBadRequest},
		{name: "Bad mode", body: `{"options": {"mode": "cash"}}`, expected: http.StatusBadRequest},
		{name: "Bad reference date", body: `{"options": {"referenceDate": "yesterday"}}`, expected: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := perform(t, handler, http.MethodPost, "/api/report", []byte(tt.body))
			if rr.Code != tt.expected {
				t.Fatalf("expected status %d, got %d: %s", tt.expected, rr.Code, rr.Body.String())
			}
			if !strings.Contains(rr.Body.String(), `"error"`) {
				t.Fatalf("expected error body, got %s", rr.Body.String())
			}
		})
	}
}

func TestHandleReportTooLarge(t *testing.T) {
	handler := NewHandler(zap.NewNop(), Options{MaxUploadSize: 16, Now: fixedNow})

	rr := perform(t, handler, http.MethodPost, "/api/report", []byte(`{"simulations": [], "options": {"mode": "distributed"}}`))
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected status 413, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestHandleReportMethodNotAllowed(t *testing.T) {
	handler, _ := newTestHandler(t)

	rr := perform(t, handler, http.MethodGet, "/api/report", nil)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rr.Code)
	}
}

func TestHandleListSimulations(t *testing.T) {
	handler, _ := newTestHandler(t, sampleSims()...)

	rr := perform(t, handler, http.MethodGet, "/api/simulations", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp []simulationSummary
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("expected 2 simulations, got %d", len(resp))
	}
	if resp[0].Services != 1 {
		t.Errorf("expected 1 service, got %d", resp[0].Services)
	}
}

func TestHandleGetSimulation(t *testing.T) {
	sims := sampleSims()
	sims[0].Services[0].Payments = []model.Payment{
		{ID: "p1", Percentage: model.NumberPtr(40), DueDate: "2026-02-01", Status: model.StatusReceived},
	}
	handler, _ := newTestHandler(t, sims...)

	rr := perform(t, handler, http.MethodGet, "/api/simulations/1", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp simulationDetail
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	plan, ok := resp.PaymentPlans["a"]
	if !ok {
		t.Fatalf("expected a payment plan for service a, got %+v", resp.PaymentPlans)
	}
	testutil.AssertAmount(t, "Received", plan.Received, 400)

	rr = perform(t, handler, http.MethodGet, "/api/simulations/missing", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}
}

func TestHandleSaveAndDeleteSimulation(t *testing.T) {
	handler, s := newTestHandler(t)

	body := []byte(`{"name": "Side project", "services": [{"id": "x", "name": "Audit", "price": 500, "quantity": 1, "frequency": "oneshot"}]}`)
	rr := perform(t, handler, http.MethodPut, "/api/simulations/42", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "without both a start and an end date") {
		t.Errorf("expected a data warning, got %s", rr.Body.String())
	}

	saved, err := s.Get(context.Background(), "42")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if saved.Name != "Side project" {
		t.Errorf("unexpected saved simulation: %+v", saved)
	}

	rr = perform(t, handler, http.MethodPut, "/api/simulations/42", []byte(`{"id": "7", "name": "Mismatch"}`))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for mismatched id, got %d", rr.Code)
	}

	rr = perform(t, handler, http.MethodDelete, "/api/simulations/42", nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d: %s", rr.Code, rr.Body.String())
	}
	rr = perform(t, handler, http.MethodDelete, "/api/simulations/42", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}
}

func TestHandleOverview(t *testing.T) {
	handler, _ := newTestHandler(t, sampleSims()...)

	rr := perform(t, handler, http.MethodGet, "/api/simulations/1/overview?year=2026", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Year           int                  `json:"year"`
		Months         []projection.Summary `json:"months"`
		Annual         projection.Summary   `json:"annual"`
		MonthlyAverage projection.Summary   `json:"monthlyAverage"`
		Projection     []projection.Summary `json:"projection"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Year != 2026 || len(resp.Months) != 12 {
		t.Fatalf("unexpected overview: year %d, %d months", resp.Year, len(resp.Months))
	}
	testutil.AssertAmount(t, "Annual revenue", resp.Annual.Revenue, 12000)
	testutil.AssertAmount(t, "Average revenue", resp.MonthlyAverage.Revenue, 1000)
	if len(resp.Projection) != 6 {
		t.Errorf("expected 6 projection years, got %d", len(resp.Projection))
	}

	rr = perform(t, handler, http.MethodGet, "/api/simulations/1/overview?year=abc", nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
}

func TestHandleDashboard(t *testing.T) {
	handler, _ := newTestHandler(t, sampleSims()...)

	tests := []struct {
		name         string
		query        string
		expectedRows int
		revenue      float64
	}{
		{name: "Default month view", query: "", expectedRows: 12, revenue: 12000},
		{name: "Year view", query: "?granularity=year&year=2026", expectedRows: 1, revenue: 12000},
		{name: "Including tests", query: "?granularity=year&includeTest=true", expectedRows: 1, revenue: 12000 + 9999*12},
		{name: "Projection", query: "?granularity=projection&mode=actual", expectedRows: 6, revenue: 12000 * 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := perform(t, handler, http.MethodGet, "/api/dashboard"+tt.query, nil)
			if rr.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
			}

			var resp reportResponse
			if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if len(resp.Rows) != tt.expectedRows {
				t.Fatalf("expected %d rows, got %d", tt.expectedRows, len(resp.Rows))
			}
			testutil.AssertAmount(t, "Total revenue", resp.Total.Revenue, tt.revenue)
		})
	}

	rr := perform(t, handler, http.MethodGet, "/api/dashboard?granularity=week", nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
}

func TestRoutesWithoutStore(t *testing.T) {
	handler := NewHandler(zap.NewNop(), Options{Now: fixedNow})

	rr := perform(t, handler, http.MethodGet, "/api/simulations", nil)
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rr.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	handler, _ := newTestHandler(t, sampleSims()...)

	perform(t, handler, http.MethodGet, "/api/dashboard?granularity=year", nil)

	rr := perform(t, handler, http.MethodGet, "/metrics", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	for _, metric := range []string{
		`revenue_forecast_http_requests_total{method="GET",route="/api/dashboard",status="200"} 1`,
		`revenue_forecast_reports_total{granularity="year",mode="distributed"} 1`,
	} {
		if !strings.Contains(body, metric) {
			t.Errorf("metrics output missing %q", metric)
		}
	}
}

func TestCORSPreflight(t *testing.T) {
	handler := NewHandler(zap.NewNop(), Options{AllowedOrigins: []string{"https://app.example.com"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/report", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Fatalf("expected allowed origin header, got %q", got)
	}
}
