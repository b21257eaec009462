package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/iwvelando/revenue-forecast/internal/config"
	"github.com/iwvelando/revenue-forecast/internal/forecast"
	"github.com/iwvelando/revenue-forecast/internal/store"
	"github.com/iwvelando/revenue-forecast/pkg/constants"
	"github.com/iwvelando/revenue-forecast/pkg/datetime"
	"github.com/iwvelando/revenue-forecast/pkg/model"
	"github.com/iwvelando/revenue-forecast/pkg/output"
	"github.com/iwvelando/revenue-forecast/pkg/projection"
	"github.com/iwvelando/revenue-forecast/pkg/validation"
	"go.uber.org/zap"
)

// Options wire the handler to its collaborators.
type Options struct {
	// Store holds saved simulations. It is required by every route under
	// /api/simulations and /api/dashboard.
	Store store.Store

	// Defaults provides the projection settings used when a request does not
	// override them.
	Defaults config.Configuration

	MaxUploadSize  int64
	Version        string
	AllowedOrigins []string

	// Now supplies the reference date when a request has none.
	Now func() time.Time
}

type handler struct {
	logger        *zap.Logger
	store         store.Store
	defaults      config.Configuration
	maxUploadSize int64
	version       string
	now           func() time.Time
	metrics       *metrics
}

// NewHandler constructs the HTTP handler that serves the revenue API.
func NewHandler(logger *zap.Logger, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if opts.MaxUploadSize <= 0 {
		opts.MaxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(opts.Version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	if opts.Now == nil {
		opts.Now = time.Now
	}

	h := &handler{
		logger:        logger,
		store:         opts.Store,
		defaults:      opts.Defaults,
		maxUploadSize: opts.MaxUploadSize,
		version:       trimmedVersion,
		now:           opts.Now,
		metrics:       newMetrics(),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.metrics.instrument)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins(opts.AllowedOrigins),
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Handle("/metrics", h.metrics.handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/version", h.handleVersion)
		r.Post("/report", h.handleReport)
		r.Get("/dashboard", h.handleDashboard)

		r.Route("/simulations", func(r chi.Router) {
			r.Get("/", h.handleListSimulations)
			r.Get("/{id}", h.handleGetSimulation)
			r.Put("/{id}", h.handleSaveSimulation)
			r.Delete("/{id}", h.handleDeleteSimulation)
			r.Get("/{id}/overview", h.handleOverview)
		})
	})

	return r
}

func allowedOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"http://localhost:*", "http://127.0.0.1:*"}
	}
	return origins
}

type reportOptions struct {
	Mode           string `json:"mode"`
	Granularity    string `json:"granularity"`
	Year           int    `json:"year"`
	ReferenceDate  string `json:"referenceDate"`
	StartYear      int    `json:"startYear"`
	YearsToProject int    `json:"yearsToProject"`
	IncludeTest    *bool  `json:"includeTest"`
}

type reportRequest struct {
	Simulations json.RawMessage `json:"simulations"`
	Options     reportOptions   `json:"options"`
}

type reportResponse struct {
	forecast.Report
	NetBySimulation []projection.NetSeries `json:"netBySimulation,omitempty"`
	CSV             string                 `json:"csv"`
	Duration        string                 `json:"duration"`
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleReport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleReport"

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return
	}

	var sims []model.Simulation
	if len(req.Simulations) > 0 {
		decoded, err := model.DecodeSimulations(bytes.NewReader(req.Simulations))
		if err != nil {
			h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode simulations: %v", err), op)
			return
		}
		sims = decoded
	}

	h.runReport(w, sims, req.Options, op)
}

func (h *handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleDashboard"

	opts, err := queryOptions(r)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	sims, ok := h.listSimulations(w, r, op)
	if !ok {
		return
	}

	h.runReport(w, sims, opts, op)
}

func (h *handler) runReport(w http.ResponseWriter, sims []model.Simulation, opts reportOptions, op string) {
	start := time.Now()

	conf, reference, err := h.resolve(opts)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	report, err := forecast.BuildReport(h.logger, conf, sims, reference)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	var breakdown []projection.NetSeries
	if report.Granularity != constants.GranularityProjection {
		engine := projection.NewEngine(h.logger, conf.EngineOptions(reference))
		breakdownSims := sims
		if conf.Projection.IncludeTest {
			breakdownSims = forecast.IncludeTestSimulations(sims)
		}
		breakdown, err = engine.NetBySimulation(breakdownSims, report.Year, report.Granularity, report.Mode)
		if err != nil {
			h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
			return
		}
	}

	elapsed := time.Since(start)
	h.metrics.observeReport(report.Granularity, string(report.Mode), elapsed)

	h.logger.Info("report computed",
		zap.String("op", op),
		zap.String("granularity", report.Granularity),
		zap.String("mode", string(report.Mode)),
		zap.Int("simulations", len(report.Simulations)),
		zap.Int("rows", len(report.Rows)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, reportResponse{
		Report:          report,
		NetBySimulation: breakdown,
		CSV:             output.CsvString(report),
		Duration:        elapsed.String(),
	})
}

// resolve merges request options over the server defaults.
func (h *handler) resolve(opts reportOptions) (config.Configuration, time.Time, error) {
	conf := h.defaults
	if opts.Mode != "" {
		conf.Projection.Mode = opts.Mode
	}
	if opts.Granularity != "" {
		conf.Projection.Granularity = opts.Granularity
	}
	if opts.Year > 0 {
		conf.Projection.Year = opts.Year
	}
	if opts.ReferenceDate != "" {
		conf.Projection.ReferenceDate = opts.ReferenceDate
	}
	if opts.StartYear > 0 {
		conf.Projection.StartYear = opts.StartYear
	}
	if opts.YearsToProject > 0 {
		conf.Projection.YearsToProject = opts.YearsToProject
	}
	if opts.IncludeTest != nil {
		conf.Projection.IncludeTest = *opts.IncludeTest
	}
	if conf.Projection.Mode == "" {
		conf.Projection.Mode = constants.ModeDistributed
	}
	if conf.Projection.Granularity == "" {
		conf.Projection.Granularity = constants.GranularityMonth
	}

	if err := validation.ValidateMode(conf.Projection.Mode); err != nil {
		return conf, time.Time{}, err
	}
	if err := validation.ValidateGranularity(conf.Projection.Granularity); err != nil {
		return conf, time.Time{}, err
	}

	reference, err := conf.ReferenceDate(h.now())
	if err != nil {
		return conf, time.Time{}, err
	}
	return conf, reference, nil
}

func queryOptions(r *http.Request) (reportOptions, error) {
	q := r.URL.Query()
	opts := reportOptions{
		Mode:          q.Get("mode"),
		Granularity:   q.Get("granularity"),
		ReferenceDate: q.Get("referenceDate"),
	}

	if raw := q.Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil || year <= 0 {
			return opts, fmt.Errorf("invalid year %q", raw)
		}
		opts.Year = year
	}
	if raw := q.Get("includeTest"); raw != "" {
		include, err := strconv.ParseBool(raw)
		if err != nil {
			return opts, fmt.Errorf("invalid includeTest %q", raw)
		}
		opts.IncludeTest = &include
	}
	return opts, nil
}

type simulationSummary struct {
	ID       model.ID `json:"id"`
	Name     string   `json:"name"`
	IsTest   bool     `json:"isTest"`
	Services int      `json:"services"`
}

type simulationDetail struct {
	model.Simulation
	PaymentPlans map[model.ID]projection.PaymentPlan `json:"paymentPlans"`
	Warnings     []string                            `json:"warnings,omitempty"`
}

func (h *handler) handleListSimulations(w http.ResponseWriter, r *http.Request) {
	sims, ok := h.listSimulations(w, r, "server.handleListSimulations")
	if !ok {
		return
	}

	summaries := make([]simulationSummary, 0, len(sims))
	for _, sim := range sims {
		summaries = append(summaries, simulationSummary{
			ID:       sim.ID,
			Name:     sim.Name,
			IsTest:   bool(sim.IsTest),
			Services: len(sim.Services),
		})
	}
	h.writeJSON(w, http.StatusOK, summaries)
}

func (h *handler) handleGetSimulation(w http.ResponseWriter, r *http.Request) {
	sim, ok := h.getSimulation(w, r, "server.handleGetSimulation")
	if !ok {
		return
	}

	detail := simulationDetail{
		Simulation:   sim,
		PaymentPlans: make(map[model.ID]projection.PaymentPlan, len(sim.Services)),
		Warnings:     validation.ValidateSimulations([]model.Simulation{sim}),
	}
	for _, service := range sim.Services {
		if service.HasPayments() {
			detail.PaymentPlans[service.ID] = projection.SummarizePayments(service)
		}
	}
	h.writeJSON(w, http.StatusOK, detail)
}

func (h *handler) handleSaveSimulation(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSaveSimulation"
	if !h.requireStore(w, op) {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to read simulation: %v", err), op)
		return
	}

	sim, err := model.DecodeSimulationJSON(body)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode simulation: %v", err), op)
		return
	}

	id := model.ID(chi.URLParam(r, "id"))
	if sim.ID == "" {
		sim.ID = id
	}
	if sim.ID != id {
		h.respondErrorWithOp(w, http.StatusBadRequest,
			fmt.Sprintf("simulation id %q does not match path id %q", sim.ID, id), op)
		return
	}

	if err := h.store.Save(r.Context(), sim); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, store.ErrInvalidID) {
			status = http.StatusBadRequest
		}
		h.respondErrorWithOp(w, status, err.Error(), op)
		return
	}

	h.writeJSON(w, http.StatusOK, simulationDetail{
		Simulation: sim,
		Warnings:   validation.ValidateSimulations([]model.Simulation{sim}),
	})
}

func (h *handler) handleDeleteSimulation(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleDeleteSimulation"
	if !h.requireStore(w, op) {
		return
	}

	if err := h.store.Delete(r.Context(), model.ID(chi.URLParam(r, "id"))); err != nil {
		h.respondStoreError(w, err, op)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) handleOverview(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleOverview"

	opts, err := queryOptions(r)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	sim, ok := h.getSimulation(w, r, op)
	if !ok {
		return
	}

	conf, reference, err := h.resolve(opts)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	engine := projection.NewEngine(h.logger, conf.EngineOptions(reference))
	h.writeJSON(w, http.StatusOK, struct {
		SimulationID  model.ID `json:"simulationId"`
		Name          string   `json:"name"`
		Year          int      `json:"year"`
		ReferenceDate string   `json:"referenceDate"`
		projection.Overview
		Projection []projection.Summary `json:"projection"`
	}{
		SimulationID:  sim.ID,
		Name:          sim.Name,
		Year:          conf.ReportYear(reference),
		ReferenceDate: datetime.FormatDate(reference),
		Overview:      engine.SimulationOverview(sim, conf.ReportYear(reference)),
		Projection:    engine.SimulationProjection(sim, projection.ModeDistributed),
	})
}

func (h *handler) listSimulations(w http.ResponseWriter, r *http.Request, op string) ([]model.Simulation, bool) {
	if !h.requireStore(w, op) {
		return nil, false
	}
	sims, err := h.store.List(r.Context())
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to list simulations: %v", err), op)
		return nil, false
	}
	return sims, true
}

func (h *handler) getSimulation(w http.ResponseWriter, r *http.Request, op string) (model.Simulation, bool) {
	if !h.requireStore(w, op) {
		return model.Simulation{}, false
	}
	sim, err := h.store.Get(r.Context(), model.ID(chi.URLParam(r, "id")))
	if err != nil {
		h.respondStoreError(w, err, op)
		return model.Simulation{}, false
	}
	return sim, true
}

func (h *handler) requireStore(w http.ResponseWriter, op string) bool {
	if h.store == nil {
		h.respondErrorWithOp(w, http.StatusServiceUnavailable, "no simulation store configured", op)
		return false
	}
	return true
}

func (h *handler) respondStoreError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		h.respondErrorWithOp(w, http.StatusNotFound, err.Error(), op)
	case errors.Is(err, store.ErrInvalidID):
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
	default:
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
	}
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
