package hsb21030

import (
	"math"

	"Strut/internal/calc/loads"
)

// FastenerResult is one line of the result table.
type FastenerResult struct {
	Name             string  `json:"name"`
	Dummy            bool    `json:"dummy,omitempty"`
	X                float64 `json:"x"`
	Y                float64 `json:"y"`
	Z                float64 `json:"z"`
	ShearAllowable   float64 `json:"shear"`
	TensionAllowable float64 `json:"tension"`
	Fsy              float64 `json:"fsy"`
	Fsz              float64 `json:"fsz"`
	ShearForce       float64 `json:"shear_force"`
	TensionForce     float64 `json:"tension_force"`
	// Reserve factors are nil when not finite, e.g. a zero allowable under zero load.
	RFShear   *float64 `json:"rf_shear"`
	RFTension *float64 `json:"rf_tension"`
	InTension bool     `json:"in_tension"`
}

func (r *Result) Rows() []FastenerResult {
	fs := r.Group.Fasteners()
	rows := make([]FastenerResult, len(fs))
	for i, f := range fs {
		rows[i] = FastenerResult{
			Name:             f.Name,
			Dummy:            f.Dummy,
			X:                f.X,
			Y:                f.Y,
			Z:                f.Z,
			ShearAllowable:   f.ShearAllowable,
			TensionAllowable: f.TensionAllowable,
			Fsy:              r.Fsy[i],
			Fsz:              r.Fsz[i],
			ShearForce:       r.Shear[i],
			TensionForce:     r.Tension[i],
			RFShear:          finite(r.RFShear[i]),
			RFTension:        finite(r.RFTension[i]),
			InTension:        r.InTension[i],
		}
	}
	return rows
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Response is the JSON shape returned by the calculation endpoints.
type Response struct {
	RunID        string           `json:"run_id,omitempty"`
	Name         string           `json:"name"`
	Group        string           `json:"group"`
	Case         loads.Case       `json:"case"`
	Iterations   int              `json:"iterations"`
	Converged    bool             `json:"converged"`
	MomentsU     loads.MomentsU   `json:"moments_u"`
	MomentXS     float64          `json:"moment_x_s"`
	MomentYS     float64          `json:"moment_y_s"`
	MomentZS     float64          `json:"moment_z_s"`
	Alpha        float64          `json:"alpha"`
	MomentYA     float64          `json:"moment_ya"`
	MomentZA     float64          `json:"moment_za"`
	Cogs         Cogs             `json:"cogs"`
	Fasteners    []FastenerResult `json:"fasteners"`
	Compression  []string         `json:"compression,omitempty"`
	MinRFShear   *float64         `json:"min_rf_shear"`
	MinRFTension *float64         `json:"min_rf_tension"`
	Notes        string           `json:"notes"`
}

// NewResponse flattens r for transport.
func NewResponse(r *Result, c loads.Case, iterations int) Response {
	resp := Response{
		Name:       r.Name,
		Group:      r.Group.Name(),
		Case:       c,
		Iterations: iterations,
		Converged:  !r.HasCompression(),
		MomentsU:   r.MomentsU,
		MomentXS:   r.MomentXS,
		MomentYS:   r.MomentYS,
		MomentZS:   r.MomentZS,
		Alpha:      r.Alpha,
		MomentYA:   r.MomentYA,
		MomentZA:   r.MomentZA,
		Cogs:       r.Cogs,
		Fasteners:  r.Rows(),
	}
	for _, i := range r.Compression() {
		resp.Compression = append(resp.Compression, r.Group.Fastener(i).Name)
	}
	resp.MinRFShear, resp.MinRFTension = r.MinReserveFactors()
	switch {
	case len(resp.Compression) > 0:
		resp.Notes = "Fasteners in compression. Iterate with contact fastener."
	case iterations > 0:
		resp.Notes = "Compression taken by contact fastener."
	default:
		resp.Notes = "All fasteners in tension."
	}
	return resp
}

// MinReserveFactors returns the smallest finite shear and tension reserve
// factors of real fasteners that carry load in that direction. Fasteners in
// compression and dummies are ignored for tension.
func (r *Result) MinReserveFactors() (*float64, *float64) {
	var minS, minT *float64
	for i := range r.RFShear {
		f := r.Group.Fastener(i)
		if f.Dummy {
			continue
		}
		if v := finite(r.RFShear[i]); v != nil && (minS == nil || *v < *minS) {
			minS = v
		}
		if !r.InTension[i] || f.TensionAllowable == 0 {
			continue
		}
		if v := finite(r.RFTension[i]); v != nil && (minT == nil || *v < *minT) {
			minT = v
		}
	}
	return minS, minT
}

// Critical returns the index of the fastener with the lowest reserve factor
// in either direction, or -1 when none is finite.
func (r *Result) Critical() int {
	idx := -1
	best := math.Inf(1)
	for i := range r.RFShear {
		f := r.Group.Fastener(i)
		if f.Dummy {
			continue
		}
		cands := []float64{r.RFShear[i]}
		if r.InTension[i] && f.TensionAllowable > 0 {
			cands = append(cands, r.RFTension[i])
		}
		for _, v := range cands {
			if finite(v) != nil && v < best {
				best = v
				idx = i
			}
		}
	}
	return idx
}
