package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/Rarebox/kalorify-ai/apimodels"
	"github.com/Rarebox/kalorify-ai/internal/analysis"
	"github.com/Rarebox/kalorify-ai/internal/analyzer"
	"github.com/Rarebox/kalorify-ai/internal/webhook"
)

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		writeError(w, uploadErrorStatus(err), fmt.Sprintf("Invalid upload: %v", err))
		return
	}

	file, header, err := r.FormFile(webhook.FormField)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Missing %q file field", webhook.FormField))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid upload: %v", err))
		return
	}

	req := apimodels.AnalysisRequest{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Image:       data,
	}
	slog.Debug("Received analysis request", "filename", req.Filename, "bytes", len(req.Image))

	result, err := s.analyzer.Analyze(r.Context(), req)
	if errors.Is(err, analyzer.ErrEmptyImage) {
		writeError(w, http.StatusBadRequest, "Uploaded file is empty")
		return
	}
	if err != nil {
		slog.Error("Analysis request failed", "error", err)
		writeJSON(w, http.StatusBadGateway, s.analyzer.Failure(err))
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleLocalize(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes))
	if err != nil {
		writeError(w, uploadErrorStatus(err), fmt.Sprintf("Invalid request: %v", err))
		return
	}

	result, err := s.analyzer.Localize(body)
	if err != nil {
		slog.Error("Localize request failed", "error", err)
		status := http.StatusInternalServerError
		var malformed *analysis.MalformedResponseError
		if errors.As(err, &malformed) {
			status = http.StatusUnprocessableEntity
		}
		writeJSON(w, status, s.analyzer.Failure(err))
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.analyzer.Resolver().Info())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// uploadErrorStatus maps a body read failure to 413 when the size limit was
// hit and 400 otherwise.
func uploadErrorStatus(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
