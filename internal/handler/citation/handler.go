package citation

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	citationService "github.com/docsage/backend/internal/service/citation"
	"github.com/docsage/backend/internal/service/session"
	"github.com/docsage/backend/pkg/utils"
)

// Handler exposes the citation generation endpoint. The pipeline is nil when
// the search credential is absent; the endpoint then fails while the rest of
// the API keeps serving.
type Handler struct {
	pipeline *citationService.Pipeline
	logger   *zap.Logger
}

// New creates the citation handler.
func New(pipeline *citationService.Pipeline, logger *zap.Logger) *Handler {
	return &Handler{pipeline: pipeline, logger: logger}
}

// RegisterRoutes mounts the citation routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/generate-citations", h.handleGenerateCitations)
}

func (h *Handler) handleGenerateCitations(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SessionID string `json:"sessionId"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.SessionID == "" {
		utils.RespondError(w, http.StatusBadRequest, "missing sessionId")
		return
	}

	if h.pipeline == nil {
		utils.RespondError(w, http.StatusInternalServerError, "search service is not configured")
		return
	}

	results, err := h.pipeline.Generate(r.Context(), payload.SessionID)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			utils.RespondError(w, http.StatusNotFound, "session not found")
			return
		}
		h.logger.Error("citation generation failed",
			zap.String("sessionId", payload.SessionID),
			zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "citation generation failed")
		return
	}

	utils.RespondJSON(w, http.StatusOK, results)
}
