package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.opentelemetry.io/otel/trace"

	"github.com/uneda-cda/UNEDA-sub000/belief"
	"github.com/uneda-cda/UNEDA-sub000/core"
	"github.com/uneda-cda/UNEDA-sub000/kernel/memory"
	"github.com/uneda-cda/UNEDA-sub000/pkg/logging"
	"github.com/uneda-cda/UNEDA-sub000/pkg/tracing"
	"github.com/uneda-cda/UNEDA-sub000/rank"
)

// Server exposes the engine's operation families over HTTP.
type Server struct {
	kernel *memory.Kernel
	engine *belief.Engine
	ranker *rank.Ranker
	log    *logging.Logger
	tracer *tracing.Tracer // nil disables spans
}

// NewServer wires the HTTP layer over the kernel, its engine and ranker.
func NewServer(kernel *memory.Kernel, engine *belief.Engine, ranker *rank.Ranker, log *logging.Logger, tracer *tracing.Tracer) *Server {
	return &Server{kernel: kernel, engine: engine, ranker: ranker, log: log, tracer: tracer}
}

// finishSpan closes a span with the call outcome; a nil span is a no-op.
func finishSpan(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		tracing.RecordSpanError(span, err)
	} else {
		tracing.RecordSpanSuccess(span)
	}
	span.End()
}

type evaluateRequest struct {
	Slot int    `json:"slot"`
	Rule string `json:"rule"`
	AltA int    `json:"alt_a"`
	AltB int    `json:"alt_b"`
}

type evaluateResponse struct {
	Min   float64  `json:"min"`
	Mid   float64  `json:"mid"`
	Max   float64  `json:"max"`
	Notes []string `json:"notes,omitempty"`
}

// HandleEvaluate handles POST /evaluate.
func (s *Server) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if !decode(w, r, &req) {
		return
	}
	rule, ok := parseRule(req.Rule)
	if !ok {
		http.Error(w, "unknown rule", http.StatusBadRequest)
		return
	}
	ctx := r.Context()
	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.StartEvaluationSpan(ctx, req.Slot, req.Rule, req.AltA, req.AltB)
	}
	hull, notes, err := s.engine.Evaluate(ctx, req.Slot, rule, req.AltA, req.AltB)
	finishSpan(span, err)
	if err != nil {
		writeError(w, err)
		return
	}
	s.log.LogEvaluation(ctx, req.Slot, rule.String(), req.AltA, req.AltB, "ok")
	writeJSON(w, evaluateResponse{
		Min: hull.Min, Mid: hull.Mid, Max: hull.Max, Notes: noteStrings(notes),
	})
}

type massRequest struct {
	Slot  int     `json:"slot"`
	Kind  string  `json:"kind"` // above | below | range | density
	Level float64 `json:"level"`
	Hi    float64 `json:"hi,omitempty"`
}

type massResponse struct {
	Value float64  `json:"value"`
	Notes []string `json:"notes,omitempty"`
}

// HandleMass handles POST /mass.
func (s *Server) HandleMass(w http.ResponseWriter, r *http.Request) {
	var req massRequest
	if !decode(w, r, &req) {
		return
	}
	var span trace.Span
	if s.tracer != nil {
		_, span = s.tracer.StartQuerySpan(r.Context(), req.Kind, req.Slot)
	}
	var (
		v     float64
		notes []core.Note
		err   error
	)
	switch req.Kind {
	case "above":
		v, notes, err = s.engine.MassAbove(req.Slot, req.Level)
	case "below":
		v, notes, err = s.engine.MassBelow(req.Slot, req.Level)
	case "range":
		v, notes, err = s.engine.MassRange(req.Slot, req.Level, req.Hi)
	case "density":
		v, notes, err = s.engine.Density(req.Slot, req.Level)
	default:
		finishSpan(span, nil)
		http.Error(w, "unknown mass query kind", http.StatusBadRequest)
		return
	}
	finishSpan(span, err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, massResponse{Value: v, Notes: noteStrings(notes)})
}

type supportRequest struct {
	Slot     int     `json:"slot"`
	Level    float64 `json:"level"`
	Anchor   string  `json:"anchor"` // centered | lower | upper | aversion
	Aversion float64 `json:"aversion,omitempty"`
}

type supportResponse struct {
	Lo    float64  `json:"lo"`
	Hi    float64  `json:"hi"`
	Notes []string `json:"notes,omitempty"`
}

// HandleSupport handles POST /support.
func (s *Server) HandleSupport(w http.ResponseWriter, r *http.Request) {
	var req supportRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Anchor == "aversion" {
		v, notes, err := s.engine.AversionValue(req.Slot, req.Aversion)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, supportResponse{Lo: v, Hi: v, Notes: noteStrings(notes)})
		return
	}
	anchor := belief.AnchorCentered
	switch req.Anchor {
	case "", "centered":
	case "lower":
		anchor = belief.AnchorLower
	case "upper":
		anchor = belief.AnchorUpper
	default:
		http.Error(w, "unknown anchor", http.StatusBadRequest)
		return
	}
	lo, hi, notes, err := s.engine.SupportInterval(req.Slot, req.Level, anchor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, supportResponse{Lo: lo, Hi: hi, Notes: noteStrings(notes)})
}

type rankRequest struct {
	Slot int    `json:"slot"`
	Mode string `json:"mode"` // olympic | strict | grouped
}

type rankResponse struct {
	Omega     []float64 `json:"omega"`
	Gamma     []float64 `json:"gamma"`
	OmegaRank []int     `json:"omega_rank"`
	GammaRank []int     `json:"gamma_rank"`
	Notes     []string  `json:"notes,omitempty"`
}

// HandleRank handles POST /rank.
func (s *Server) HandleRank(w http.ResponseWriter, r *http.Request) {
	var req rankRequest
	if !decode(w, r, &req) {
		return
	}
	mode, ok := parseMode(req.Mode)
	if !ok {
		http.Error(w, "unknown ranking mode", http.StatusBadRequest)
		return
	}
	ctx := r.Context()
	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.StartRankingSpan(ctx, "rank", req.Slot, mode.String())
	}
	res, err := s.ranker.Rank(ctx, req.Slot, mode)
	finishSpan(span, err)
	if err != nil {
		writeError(w, err)
		return
	}
	s.log.LogRanking(ctx, req.Slot, mode.String(), len(res.Omega),
		core.HasNote(res.Notes, core.NoteDifferingRanks))
	writeJSON(w, rankResponse{
		Omega: res.Omega, Gamma: res.Gamma,
		OmegaRank: res.OmegaRank, GammaRank: res.GammaRank,
		Notes: noteStrings(res.Notes),
	})
}

type dominanceRequest struct {
	Slot int `json:"slot"`
	AltA int `json:"alt_a"`
	AltB int `json:"alt_b"`
}

type dominanceResponse struct {
	Order     int     `json:"order"`
	Magnitude float64 `json:"magnitude"`
}

// HandleDominance handles POST /dominance.
func (s *Server) HandleDominance(w http.ResponseWriter, r *http.Request) {
	var req dominanceRequest
	if !decode(w, r, &req) {
		return
	}
	ctx := r.Context()
	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.StartRankingSpan(ctx, "dominance", req.Slot, "")
	}
	v, err := s.ranker.Dominance(ctx, req.Slot, req.AltA, req.AltB)
	finishSpan(span, err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, dominanceResponse{Order: int(v.Order), Magnitude: v.Magnitude})
}

type mutateRequest struct {
	Kind      string  `json:"kind"` // sample | weight
	Criterion int     `json:"criterion"`
	Alt       int     `json:"alt,omitempty"`
	Scenario  int     `json:"scenario,omitempty"`
	Value     float64 `json:"value"`
}

// HandleMutate handles POST /mutate. Any accepted mutation invalidates
// every cached evaluation through the kernel's mutation hooks.
func (s *Server) HandleMutate(w http.ResponseWriter, r *http.Request) {
	var req mutateRequest
	if !decode(w, r, &req) {
		return
	}
	var err error
	switch req.Kind {
	case "sample":
		err = s.kernel.SetSample(req.Criterion, req.Alt, req.Scenario, req.Value)
	case "weight":
		err = s.kernel.SetWeight(req.Criterion, req.Value)
	default:
		http.Error(w, "unknown mutation kind", http.StatusBadRequest)
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	s.log.LogCacheInvalidation(r.Context(), req.Kind+" mutation")
	writeJSON(w, map[string]string{"status": "ok"})
}

// HandleHealth handles GET /health.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok","service":"beliefd"}`))
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the error taxonomy onto HTTP statuses: precondition
// failures are client errors, the busy guard maps to 409, everything
// else is internal.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrBusy):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, core.ErrNotReady),
		errors.Is(err, core.ErrStaleSlot),
		errors.Is(err, core.ErrUnknownAlternative),
		errors.Is(err, core.ErrUnknownCriterion),
		errors.Is(err, core.ErrWrongRule):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func parseRule(s string) (core.Rule, bool) {
	switch s {
	case "", "psi":
		return core.RulePsi, true
	case "delta":
		return core.RuleDelta, true
	case "gamma":
		return core.RuleGamma, true
	case "digamma":
		return core.RuleDigamma, true
	}
	return 0, false
}

func parseMode(s string) (rank.Mode, bool) {
	switch s {
	case "", "olympic":
		return rank.ModeOlympic, true
	case "strict":
		return rank.ModeStrict, true
	case "grouped":
		return rank.ModeGrouped, true
	}
	return 0, false
}

func noteStrings(notes []core.Note) []string {
	if len(notes) == 0 {
		return nil
	}
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = n.String()
	}
	return out
}
