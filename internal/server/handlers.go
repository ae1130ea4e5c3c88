package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cwbudde/algo-chemometrics/calib"
	"github.com/cwbudde/algo-chemometrics/internal/runlog"
	"github.com/cwbudde/algo-chemometrics/preprocess"
	"github.com/cwbudde/algo-chemometrics/spectra"
)

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %w", errBadRequest, err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type spectrumView struct {
	Name       string             `json:"name"`
	Points     int                `json:"points"`
	First      float64            `json:"first_wavenumber"`
	Last       float64            `json:"last_wavenumber"`
	References map[string]float64 `json:"references"`
}

func (s *Server) handleListSpectra(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pool := s.session.Pool()
	views := make([]spectrumView, 0, pool.Len())
	for _, name := range pool.SortedNames() {
		sp, _ := pool.Get(name)
		x := sp.Wavenumbers()
		refs := pool.References(name)
		if refs == nil {
			refs = map[string]float64{}
		}
		views = append(views, spectrumView{
			Name:       name,
			Points:     sp.Len(),
			First:      x[0],
			Last:       x[len(x)-1],
			References: refs,
		})
	}
	writeJSON(w, http.StatusOK, views)
}

type loadRequest struct {
	Dir string `json:"dir"`
}

type loadResponse struct {
	Loaded  int               `json:"loaded"`
	Skipped []spectra.Skipped `json:"skipped"`
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	var req loadRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Dir == "" {
		req.Dir = "."
	}
	if !filepath.IsLocal(req.Dir) && req.Dir != "." {
		writeError(w, fmt.Errorf("%w: directory %q must stay below the spectra root", calib.ErrInvalidParameter, req.Dir))
		return
	}

	res, err := s.loader.Load(r.Context(), filepath.Join(s.root, req.Dir))
	if err != nil {
		writeError(w, err)
		return
	}
	pool, err := res.Pool()
	if err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	s.session.LoadPool(pool)
	s.mu.Unlock()

	s.metrics.Spectra.Set(float64(pool.Len()))
	s.logger.Info("spectra loaded", "dir", req.Dir, "loaded", pool.Len(), "skipped", len(res.Skipped))

	skipped := res.Skipped
	if skipped == nil {
		skipped = []spectra.Skipped{}
	}
	writeJSON(w, http.StatusOK, loadResponse{Loaded: pool.Len(), Skipped: skipped})
}

type referenceRequest struct {
	Value *float64 `json:"value"`
}

func (s *Server) handleSetReference(w http.ResponseWriter, r *http.Request) {
	var req referenceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	s.setReference(w, r, req.Value)
}

func (s *Server) handleClearReference(w http.ResponseWriter, r *http.Request) {
	s.setReference(w, r, nil)
}

func (s *Server) setReference(w http.ResponseWriter, r *http.Request, value *float64) {
	name := chi.URLParam(r, "name")
	component := chi.URLParam(r, "component")

	s.mu.Lock()
	err := s.session.SetReference(name, component, value)
	s.mu.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type componentView struct {
	spectra.Component
	Label   string `json:"label"`
	Labeled int    `json:"labeled"`
	Trained bool   `json:"trained"`
}

func (s *Server) componentView(c spectra.Component) componentView {
	return componentView{
		Component: c,
		Label:     c.Label(),
		Labeled:   s.session.Pool().Labeled(c.Name),
		Trained:   s.session.Models().Has(c.Name),
	}
}

func (s *Server) handleListComponents(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	comps := s.session.Components()
	views := make([]componentView, 0, len(comps))
	for _, c := range comps {
		views = append(views, s.componentView(c))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleAddComponent(w http.ResponseWriter, r *http.Request) {
	var req spectra.Component
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.session.AddComponent(req.Name, req.Abbrev, req.Unit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.componentView(c))
}

type updateRequest struct {
	Name   *string `json:"name"`
	Abbrev *string `json:"abbrev"`
	Unit   *string `json:"unit"`
}

func (s *Server) handleUpdateComponent(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	name := chi.URLParam(r, "name")

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.session.Component(name)
	if err != nil {
		writeError(w, err)
		return
	}
	if req.Name != nil && *req.Name != name {
		if err := s.session.RenameComponent(name, *req.Name); err != nil {
			writeError(w, err)
			return
		}
		s.logger.Info("component renamed", "from", name, "to", *req.Name)
		name = *req.Name
	}
	if req.Abbrev != nil {
		c.Abbrev = *req.Abbrev
	}
	if req.Unit != nil {
		c.Unit = *req.Unit
	}
	if err := s.session.UpdateComponent(name, c.Abbrev, c.Unit); err != nil {
		writeError(w, err)
		return
	}

	c, _ = s.session.Component(name)
	writeJSON(w, http.StatusOK, s.componentView(c))
}

func (s *Server) handleRemoveComponent(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.session.RemoveComponent(chi.URLParam(r, "name")); err != nil {
		writeError(w, err)
		return
	}
	s.metrics.Models.Set(float64(s.session.Models().Len()))
	w.WriteHeader(http.StatusNoContent)
}

type trainRequest struct {
	Latent       int                    `json:"latent"`
	Derivative   *preprocess.Derivative `json:"derivative"`
	Seed         *uint64                `json:"seed"`
	TestFraction *float64               `json:"test_fraction"`
}

type trainResponse struct {
	Component  string                `json:"component"`
	Derivative preprocess.Derivative `json:"derivative"`
	Latent     int                   `json:"latent"`
	Effective  int                   `json:"effective_components"`
	Samples    int                   `json:"samples"`
	Excluded   []calib.Exclusion     `json:"excluded"`
	Metrics    calib.Metrics         `json:"metrics"`
	RunID      string                `json:"run_id,omitempty"`
}

func (s *Server) handleTrain(w http.ResponseWriter, r *http.Request) {
	if s.trainLimit != nil && !s.trainLimit.Allow() {
		w.Header().Set("Retry-After", "1")
		writeError(w, errRateLimited)
		return
	}

	var req trainRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	latent := req.Latent
	if latent == 0 {
		latent = s.latent
	}
	order := s.derivative
	if req.Derivative != nil {
		order = *req.Derivative
	}
	opts := append([]calib.TrainOption(nil), s.trainOpts...)
	if req.Seed != nil {
		opts = append(opts, calib.WithSeed(*req.Seed))
	}
	if req.TestFraction != nil {
		opts = append(opts, calib.WithTestFraction(*req.TestFraction))
	}
	component := chi.URLParam(r, "name")

	s.mu.Lock()
	start := time.Now()
	res, err := s.session.Train(component, latent, order, opts...)
	s.metrics.ObserveTrain(err, start)
	models := s.session.Models().Len()
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("training failed", "component", component, "latent", latent, "derivative", order, "error", err)
		writeError(w, err)
		return
	}
	s.metrics.Models.Set(float64(models))

	resp := trainResponse{
		Component:  res.Component,
		Derivative: res.Model.Derivative(),
		Latent:     res.Model.Latent(),
		Effective:  res.Model.Components(),
		Samples:    res.Samples,
		Excluded:   res.Excluded,
		Metrics:    res.Metrics,
	}
	if resp.Excluded == nil {
		resp.Excluded = []calib.Exclusion{}
	}

	if s.history != nil {
		run, err := s.history.Record(r.Context(), runlog.FromResult(res))
		if err != nil {
			s.logger.Error("recording run failed", "component", component, "error", err)
		} else {
			resp.RunID = run.ID
		}
	}

	s.logger.Info("model trained",
		"component", res.Component,
		"r2", res.Metrics.R2,
		"rmse", res.Metrics.RMSE,
		"samples", res.Samples,
	)
	writeJSON(w, http.StatusOK, resp)
}

type modelView struct {
	Component  string                `json:"component"`
	TrainedAs  string                `json:"trained_as"`
	Derivative preprocess.Derivative `json:"derivative"`
	Latent     int                   `json:"latent"`
	Effective  int                   `json:"effective_components"`
	Features   int                   `json:"features"`
	Seed       uint64                `json:"seed"`
	Metrics    calib.Metrics         `json:"metrics"`
}

func (s *Server) handleModel(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	s.mu.Lock()
	m, err := s.session.Model(name)
	s.mu.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, modelView{
		Component:  name,
		TrainedAs:  m.Component(),
		Derivative: m.Derivative(),
		Latent:     m.Latent(),
		Effective:  m.Components(),
		Features:   m.NFeatures(),
		Seed:       m.Seed(),
		Metrics:    m.Metrics(),
	})
}
