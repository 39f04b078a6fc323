package batch

import (
	"encoding/json"
	"errors"
	"net/http"

	"Strut/internal/calc/hsb21030"
	"Strut/internal/logger"

	"github.com/google/uuid"
)

type Handler struct {
	MaxIterations int
}

func (h *Handler) Fasteners(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if input.MaxIterations <= 0 {
		input.MaxIterations = h.MaxIterations
	}
	res, err := Calculate(input)
	if err != nil {
		if errors.Is(err, ErrNoCases) {
			http.Error(w, "No load cases", http.StatusBadRequest)
			return
		}
		hsb21030.WriteError(w, err)
		return
	}
	res.RunID = uuid.NewString()
	logger.L().Info("batch.done", "run_id", res.RunID, "group", res.Group, "cases", res.Count, "governing", res.Governing)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}
