package handler

import (
	"net/http"
	"time"

	"github.com/yndnr/ofchat-go/internal/infra/buildinfo"
)

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Time    string `json:"time"`
}

// handleHealth answers GET /health. The dev server keeps no dependency
// whose loss it could report, so it is healthy whenever it answers.
func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, healthResponse{
		Status:  "healthy",
		Version: buildinfo.Get().Version,
		Time:    time.Now().UTC().Format(time.RFC3339),
	})
}
