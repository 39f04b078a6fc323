package importer

import (
	"encoding/json"
	"io"
	"net/http"

	"Strut/internal/calc/fastener"
	"Strut/internal/calc/hsb21030"
	"Strut/internal/logger"

	"github.com/google/uuid"
)

const maxUpload = 10 << 20

type Handler struct {
	MaxIterations int
}

// GroupImportResult is returned when a fastener table is uploaded without loads.
type GroupImportResult struct {
	Count     int                `json:"count"`
	Group     string             `json:"group"`
	Centroids fastener.Centroids `json:"centroids"`
	Fasteners []fastener.Row     `json:"fasteners"`
}

// Fasteners takes a multipart upload with the xlsx table in "file". If the
// form also carries a "loads" field (YAML or JSON load case) the group is
// calculated with those loads, otherwise the parsed group is echoed back.
func (h *Handler) Fasteners(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	fs, err := ReadFasteners(file)
	if err != nil {
		logger.L().Warn("import.fasteners.failed", "err", err)
		http.Error(w, "Invalid file: "+err.Error(), http.StatusBadRequest)
		return
	}
	logger.L().Info("import.fasteners", "rows", len(fs))

	raw := r.FormValue("loads")
	if raw == "" {
		g, err := fastener.NewGroup(r.FormValue("group"), fs)
		if err != nil {
			hsb21030.WriteError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(GroupImportResult{
			Count:     g.Len(),
			Group:     g.Name(),
			Centroids: g.Centroids(),
			Fasteners: g.Table(),
		})
		return
	}

	in, err := ReadLoadCase([]byte(raw))
	if err != nil {
		http.Error(w, "Invalid load case", http.StatusBadRequest)
		return
	}
	in.Fasteners = fs
	h.calc(w, r, in)
}

// LoadCase runs a complete load case posted as YAML or JSON.
func (h *Handler) LoadCase(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxUpload))
	if err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	in, err := ReadLoadCase(data)
	if err != nil {
		logger.L().Warn("import.loadcase.failed", "err", err)
		http.Error(w, "Invalid load case", http.StatusBadRequest)
		return
	}
	h.calc(w, r, in)
}

func (h *Handler) calc(w http.ResponseWriter, r *http.Request, in hsb21030.Input) {
	if r.URL.Query().Get("iterate") == "true" {
		in.Iterate = true
	}
	if in.MaxIterations <= 0 {
		in.MaxIterations = h.MaxIterations
	}
	res, _, err := hsb21030.Calculate(in)
	if err != nil {
		hsb21030.WriteError(w, err)
		return
	}
	res.RunID = uuid.NewString()
	logger.L().Info("calc.done", "run_id", res.RunID, "calc", res.Name, "source", "import", "iterations", res.Iterations)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}
