package loads

import (
	"encoding/json"
	"net/http"
)

type TransferInput struct {
	Forces      Forces  `json:"forces"`
	Moments     Moments `json:"moments"`
	Application Point   `json:"application_point"`
	Reference   Point   `json:"reference_point"`
	Case        Case    `json:"case"`
}

type TransferResult struct {
	Case     Case     `json:"case"`
	Factor   float64  `json:"factor"`
	Forces   Forces   `json:"forces"`
	MomentsU MomentsU `json:"moments_u"`
}

// Transfer factors the loads to the requested case and moves the moments
// from the application point to the reference point.
func Transfer(in TransferInput) TransferResult {
	if in.Case == "" {
		in.Case = CaseLimit
	}
	f, m := Apply(in.Case, in.Forces, in.Moments)
	return TransferResult{
		Case:     in.Case,
		Factor:   Factor(in.Case),
		Forces:   f,
		MomentsU: TransformMoments(m, f, in.Application, in.Reference),
	}
}

type Handler struct{}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var input TransferInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(Transfer(input))
}
