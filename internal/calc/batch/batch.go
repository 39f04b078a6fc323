package batch

import (
	"errors"
	"fmt"
	"math"

	"Strut/internal/calc/fastener"
	"Strut/internal/calc/hsb21030"
	"Strut/internal/calc/loads"
)

var ErrNoCases = errors.New("batch: no load cases")

// LoadCase is one named set of external loads applied to the batch group.
type LoadCase struct {
	Name        string        `json:"name" yaml:"name"`
	Case        loads.Case    `json:"case" yaml:"case"`
	Forces      loads.Forces  `json:"forces" yaml:"forces"`
	Moments     loads.Moments `json:"moments" yaml:"moments"`
	Application loads.Point   `json:"application_point" yaml:"application_point"`
	Reference   loads.Point   `json:"reference_point" yaml:"reference_point"`
}

type Input struct {
	Group         string              `json:"group" yaml:"group"`
	Fasteners     []fastener.Fastener `json:"fasteners" yaml:"fasteners"`
	Cases         []LoadCase          `json:"cases" yaml:"cases"`
	Iterate       bool                `json:"iterate" yaml:"iterate"`
	MaxIterations int                 `json:"max_iterations" yaml:"max_iterations"`
}

type CaseResult struct {
	Name         string     `json:"name"`
	Case         loads.Case `json:"case"`
	Iterations   int        `json:"iterations"`
	Converged    bool       `json:"converged"`
	MinRFShear   *float64   `json:"min_rf_shear"`
	MinRFTension *float64   `json:"min_rf_tension"`
	Critical     string     `json:"critical_fastener,omitempty"`
}

type Result struct {
	RunID     string       `json:"run_id,omitempty"`
	Group     string       `json:"group"`
	Count     int          `json:"count"`
	Cases     []CaseResult `json:"cases"`
	Governing string       `json:"governing_case,omitempty"`
	MinRF     *float64     `json:"min_rf"`
}

// Calculate runs every load case against the same fastener group in order.
// The first failing case aborts the batch.
func Calculate(in Input) (Result, error) {
	if len(in.Cases) == 0 {
		return Result{}, ErrNoCases
	}
	g, err := fastener.NewGroup(in.Group, in.Fasteners)
	if err != nil {
		return Result{}, err
	}

	out := Result{Group: g.Name(), Cases: make([]CaseResult, 0, len(in.Cases))}
	best := math.Inf(1)
	for i, lc := range in.Cases {
		name := lc.Name
		if name == "" {
			name = fmt.Sprintf("case_%d", i+1)
		}
		resp, res, err := hsb21030.Calculate(hsb21030.Input{
			Name:          name,
			Group:         g.Name(),
			Fasteners:     in.Fasteners,
			Forces:        lc.Forces,
			Moments:       lc.Moments,
			Application:   lc.Application,
			Reference:     lc.Reference,
			Case:          lc.Case,
			Iterate:       in.Iterate,
			MaxIterations: in.MaxIterations,
		})
		if err != nil {
			return Result{}, fmt.Errorf("load case %s: %w", name, err)
		}

		cr := CaseResult{
			Name:         name,
			Case:         resp.Case,
			Iterations:   resp.Iterations,
			Converged:    resp.Converged,
			MinRFShear:   resp.MinRFShear,
			MinRFTension: resp.MinRFTension,
		}
		if c := res.Critical(); c >= 0 {
			cr.Critical = res.Group.Fastener(c).Name
		}
		for _, v := range []*float64{cr.MinRFShear, cr.MinRFTension} {
			if v != nil && *v < best {
				best = *v
				out.Governing = name
			}
		}
		out.Cases = append(out.Cases, cr)
	}
	out.Count = len(out.Cases)
	if !math.IsInf(best, 1) {
		out.MinRF = &best
	}
	return out, nil
}
