package hsb21030

import (
	"encoding/json"
	"errors"
	"net/http"

	"Strut/internal/calc/fastener"
	"Strut/internal/calc/loads"
	"Strut/internal/logger"

	"github.com/google/uuid"
)

type Input struct {
	Name          string              `json:"name" yaml:"name"`
	Group         string              `json:"group" yaml:"group"`
	Fasteners     []fastener.Fastener `json:"fasteners" yaml:"fasteners"`
	Forces        loads.Forces        `json:"forces" yaml:"forces"`
	Moments       loads.Moments       `json:"moments" yaml:"moments"`
	Application   loads.Point         `json:"application_point" yaml:"application_point"`
	Reference     loads.Point         `json:"reference_point" yaml:"reference_point"`
	Case          loads.Case          `json:"case" yaml:"case"`
	Iterate       bool                `json:"iterate" yaml:"iterate"`
	MaxIterations int                 `json:"max_iterations" yaml:"max_iterations"`
}

// Calculate builds the group from in, applies the load case factor, runs the
// distribution and, when requested, the compression iteration.
func Calculate(in Input) (Response, *Result, error) {
	g, err := fastener.NewGroup(in.Group, in.Fasteners)
	if err != nil {
		return Response{}, nil, err
	}
	if in.Case == "" {
		in.Case = loads.CaseLimit
	}
	if in.Name == "" {
		in.Name = "hsb21030"
	}
	f, m := loads.Apply(in.Case, in.Forces, in.Moments)

	res, err := New(in.Name, g, f, m, in.Application, in.Reference)
	if err != nil {
		return Response{}, nil, err
	}
	if err := res.Err(); err != nil {
		return Response{}, nil, err
	}
	n := 0
	if in.Iterate && res.HasCompression() {
		res, n, err = Converge(res, in.MaxIterations)
		if err != nil && !errors.Is(err, ErrNotConverged) {
			return Response{}, nil, err
		}
	}
	if err := res.Err(); err != nil {
		return Response{}, nil, err
	}
	return NewResponse(res, in.Case, n), res, nil
}

type Handler struct {
	MaxIterations int
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if r.URL.Query().Get("iterate") == "true" {
		input.Iterate = true
	}
	if input.MaxIterations <= 0 {
		input.MaxIterations = h.MaxIterations
	}
	res, _, err := Calculate(input)
	if err != nil {
		WriteError(w, err)
		return
	}
	res.RunID = uuid.NewString()
	logger.L().Info("calc.done", "run_id", res.RunID, "calc", res.Name, "fasteners", len(res.Fasteners), "iterations", res.Iterations)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

// WriteError maps calculation errors to HTTP status codes.
func WriteError(w http.ResponseWriter, err error) {
	logger.L().Warn("calc.failed", "err", err)
	switch {
	case errors.Is(err, ErrDegenerate):
		http.Error(w, "Degenerate fastener pattern", http.StatusUnprocessableEntity)
	case errors.Is(err, fastener.ErrEmptyGroup),
		errors.Is(err, fastener.ErrInvalidFastener),
		errors.Is(err, fastener.ErrDuplicateName),
		errors.Is(err, fastener.ErrZeroShear),
		errors.Is(err, fastener.ErrZeroTension):
		http.Error(w, "Invalid fastener group: "+err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "Calculation error", http.StatusBadRequest)
	}
}
