package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"Strut/internal/calc/hsb21030"
	"Strut/internal/logger"

	"github.com/google/uuid"
)

type Input struct {
	Meta
	Calc hsb21030.Input `json:"calc"`
}

type Handler struct {
	MaxIterations int
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if r.URL.Query().Get("iterate") == "true" {
		input.Calc.Iterate = true
	}
	if input.Calc.MaxIterations <= 0 {
		input.Calc.MaxIterations = h.MaxIterations
	}
	res, _, err := hsb21030.Calculate(input.Calc)
	if err != nil {
		hsb21030.WriteError(w, err)
		return
	}
	res.RunID = uuid.NewString()

	var buf bytes.Buffer
	if err := Render(&buf, input.Meta, res); err != nil {
		logger.L().Error("report.failed", "run_id", res.RunID, "err", err)
		http.Error(w, "Report generation error", http.StatusInternalServerError)
		return
	}
	logger.L().Info("report.done", "run_id", res.RunID, "calc", res.Name, "bytes", buf.Len())

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"hsb21030-%s.pdf\"", res.RunID))
	w.Write(buf.Bytes())
}
