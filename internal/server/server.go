// Package server exposes one mission over HTTP and drives it from a
// wall-clock ticker.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/tufankoc/acik-kaynak-roket/internal/control"
	"github.com/tufankoc/acik-kaynak-roket/internal/export"
	"github.com/tufankoc/acik-kaynak-roket/internal/mission"
	"github.com/tufankoc/acik-kaynak-roket/internal/telemetry"
)

const DefaultFPS = 60

// MaxBodyBytes caps request bodies on the command routes.
const MaxBodyBytes = 4 << 10

type Server struct {
	mu       sync.Mutex
	ctrl     *mission.Controller
	inputs   mission.Inputs
	sources  *control.Registry
	source   string
	gatherer prometheus.Gatherer
	logger   zerolog.Logger
	fps      int
	router   *mux.Router
}

type Option func(*Server)

func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) { s.logger = l.With().Str("subsys", "http").Logger() }
}

// WithFPS sets the driver tick rate.
func WithFPS(fps int) Option {
	return func(s *Server) {
		if fps > 0 {
			s.fps = fps
		}
	}
}

// WithGatherer serves gatherer on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// WithController names the throttle source ctrl was built with.
func WithController(name string) Option {
	return func(s *Server) {
		if name != "" {
			s.source = name
		}
	}
}

func New(ctrl *mission.Controller, opts ...Option) *Server {
	s := &Server{
		ctrl:    ctrl,
		inputs:  mission.Inputs{Fuel: "10", Payload: "1", Throttle: "100"},
		sources: control.NewRegistry(),
		source:  "manual",
		logger:  zerolog.Nop(),
		fps:     DefaultFPS,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := mux.NewRouter()
	r.Use(cors)

	m := r.PathPrefix("/mission").Subrouter()
	m.HandleFunc("/launch", s.handleLaunch).Methods(http.MethodPost, http.MethodOptions)
	m.HandleFunc("/abort", s.handleAbort).Methods(http.MethodPost, http.MethodOptions)
	m.HandleFunc("/reset", s.handleReset).Methods(http.MethodPost, http.MethodOptions)
	m.HandleFunc("/press", s.handlePress).Methods(http.MethodPost, http.MethodOptions)
	m.HandleFunc("/throttle", s.handleThrottle).Methods(http.MethodPut, http.MethodOptions)
	m.HandleFunc("/controller", s.handleController).Methods(http.MethodGet)
	m.HandleFunc("/controller", s.handleSetController).Methods(http.MethodPut, http.MethodOptions)
	m.HandleFunc("/controller/params", s.handleTune).Methods(http.MethodPatch, http.MethodOptions)
	m.HandleFunc("/snapshot", s.handleSnapshot).Methods(http.MethodGet)
	m.HandleFunc("/chart.svg", s.handleChart).Methods(http.MethodGet)

	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	s.router = r
}

func (s *Server) Handler() http.Handler { return s.router }

// Tick advances the mission by rawDt seconds under the server lock.
func (s *Server) Tick(rawDt float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.Step(rawDt)
}

// Drive steps the mission at the configured rate until ctx is done. The step
// size is the wall-clock time between ticks.
func (s *Server) Drive(ctx context.Context) {
	ticker := time.NewTicker(time.Second / time.Duration(s.fps))
	defer ticker.Stop()

	s.logger.Info().Int("fps", s.fps).Msg("Frame driver started")
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Frame driver stopped")
			return
		case now := <-ticker.C:
			s.Tick(now.Sub(last).Seconds())
			last = now
		}
	}
}

// ListenAndServe runs the driver and the HTTP server until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go s.Drive(ctx)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info().Str("addr", addr).Msg("REST API server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type pressResponse struct {
	Action   string             `json:"action"`
	Label    string             `json:"label"`
	Snapshot telemetry.Snapshot `json:"snapshot"`
}

type throttleRequest struct {
	Percent string `json:"percent"`
}

type throttleResponse struct {
	Percent int `json:"percent"`
}

type controllerRequest struct {
	Name   string             `json:"name"`
	Params map[string]float64 `json:"params"`
}

type controllerResponse struct {
	Name   string             `json:"name"`
	Params map[string]float64 `json:"params"`
}

func (s *Server) handleLaunch(w http.ResponseWriter, r *http.Request) {
	in, err := s.decodeInputs(w, r)
	if err != nil {
		writeDecodeError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ctrl.Launch(in) {
		writeError(w, http.StatusConflict, "mission already running")
		return
	}
	s.inputs = in
	s.logger.Info().Str("fuel", in.Fuel).Str("payload", in.Payload).Str("throttle", in.Throttle).Msg("Launch command accepted")
	writeJSON(w, http.StatusAccepted, s.ctrl.Snapshot())
}

func (s *Server) handleAbort(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ctrl.Abort() {
		writeError(w, http.StatusConflict, "no active mission")
		return
	}
	writeJSON(w, http.StatusOK, s.ctrl.Snapshot())
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ctrl.Reset()
	writeJSON(w, http.StatusOK, s.ctrl.Snapshot())
}

func (s *Server) handlePress(w http.ResponseWriter, r *http.Request) {
	in, err := s.decodeInputs(w, r)
	if err != nil {
		writeDecodeError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	action := s.ctrl.Press(in)
	if action == mission.ActionLaunch {
		s.inputs = in
	}
	writeJSON(w, http.StatusOK, pressResponse{
		Action:   action.String(),
		Label:    s.ctrl.ActionLabel(),
		Snapshot: s.ctrl.Snapshot(),
	})
}

func (s *Server) handleThrottle(w http.ResponseWriter, r *http.Request) {
	var req throttleRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes)).Decode(&req); err != nil {
		writeDecodeError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.ctrl.Lever().Set(mission.ParseThrottlePercent(req.Percent))
	s.inputs.Throttle = req.Percent
	writeJSON(w, http.StatusOK, throttleResponse{Percent: s.ctrl.Lever().Percent()})
}

func (s *Server) handleController(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	writeJSON(w, http.StatusOK, s.controllerState())
}

// handleSetController swaps the throttle source. "manual" hands control back
// to the lever.
func (s *Server) handleSetController(w http.ResponseWriter, r *http.Request) {
	var req controllerRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes)).Decode(&req); err != nil {
		writeDecodeError(w, err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "controller name is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if req.Name == "manual" {
		s.ctrl.SetThrottleSource(nil)
	} else {
		src, err := s.sources.Get(req.Name, req.Params)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.ctrl.SetThrottleSource(src)
	}
	s.source = req.Name
	s.logger.Info().Str("controller", req.Name).Msg("Throttle source changed")
	writeJSON(w, http.StatusOK, s.controllerState())
}

// handleTune updates parameters of the active source. Unknown names reject
// the whole request.
func (s *Server) handleTune(w http.ResponseWriter, r *http.Request) {
	var params map[string]float64
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes)).Decode(&params); err != nil {
		writeDecodeError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.ctrl.ThrottleSource().(control.Tunable)
	if !ok {
		writeError(w, http.StatusConflict, "active controller is not tunable")
		return
	}
	current := t.GetParams()
	for name := range params {
		if _, ok := current[name]; !ok {
			writeError(w, http.StatusBadRequest, "unknown parameter: "+name)
			return
		}
	}
	for name, v := range params {
		t.SetParam(name, v)
		s.logger.Info().Str("controller", s.source).Str("param", name).Float64("value", v).Msg("Controller tuned")
	}
	writeJSON(w, http.StatusOK, s.controllerState())
}

func (s *Server) controllerState() controllerResponse {
	if t, ok := s.ctrl.ThrottleSource().(control.Tunable); ok {
		return controllerResponse{Name: s.source, Params: t.GetParams()}
	}
	if s.ctrl.ThrottleSource() == nil {
		return controllerResponse{
			Name:   s.source,
			Params: map[string]float64{"percent": float64(s.ctrl.Lever().Percent())},
		}
	}
	return controllerResponse{Name: s.source}
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	snap := s.ctrl.Snapshot()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	snap := s.ctrl.Snapshot()
	s.mu.Unlock()

	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, export.ChartSVG(snap.AltitudeHistory, snap.VelocityHistory))
}

// decodeInputs reads launch inputs from the body. An empty body reuses the
// last accepted inputs.
func (s *Server) decodeInputs(w http.ResponseWriter, r *http.Request) (mission.Inputs, error) {
	s.mu.Lock()
	in := s.inputs
	s.mu.Unlock()

	body := http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(&in); err != nil && !errors.Is(err, io.EOF) {
		return mission.Inputs{}, err
	}
	return in, nil
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDecodeError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}
	writeError(w, http.StatusBadRequest, "invalid JSON payload")
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
