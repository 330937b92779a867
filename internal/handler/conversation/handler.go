package conversation

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/docsage/backend/internal/extract"
	conversationService "github.com/docsage/backend/internal/service/conversation"
	"github.com/docsage/backend/internal/service/session"
	"github.com/docsage/backend/pkg/utils"
)

// maxUploadBytes bounds the multipart form held in memory.
const maxUploadBytes = 32 << 20

// Handler exposes the upload and follow-up endpoints.
type Handler struct {
	convSvc          *conversationService.Service
	pdfExtractor     extract.Extractor
	maxDocumentChars int
	logger           *zap.Logger
}

// New creates the conversation handler.
func New(convSvc *conversationService.Service, pdfExtractor extract.Extractor, maxDocumentChars int, logger *zap.Logger) *Handler {
	return &Handler{
		convSvc:          convSvc,
		pdfExtractor:     pdfExtractor,
		maxDocumentChars: maxDocumentChars,
		logger:           logger,
	}
}

// RegisterRoutes mounts the conversation routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/upload", h.handleUpload)
	r.Post("/followup", h.handleFollowup)
}

// handleUpload accepts either a multipart PDF (field "pdf") or a JSON body
// with pre-extracted text, truncates the text, and opens a session with its
// summary.
func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	documentText, ok := h.readDocumentText(w, r)
	if !ok {
		return
	}

	documentText = extract.Truncate(documentText, h.maxDocumentChars)

	sessionID, reply, err := h.convSvc.StartSession(r.Context(), documentText)
	if err != nil {
		if errors.Is(err, conversationService.ErrEmptyDocument) {
			utils.RespondError(w, http.StatusBadRequest, "extracted text is empty")
			return
		}
		h.logger.Error("upload failed", zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "error processing document")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"sessionId": sessionID,
		"reply":     reply,
	})
}

// readDocumentText resolves the document payload from either upload shape.
// It writes the error response itself when the payload is unusable.
func (h *Handler) readDocumentText(w http.ResponseWriter, r *http.Request) (string, bool) {
	contentType := r.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "invalid multipart form")
			return "", false
		}

		file, _, err := r.FormFile("pdf")
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, "no file uploaded, the form field must be named 'pdf'")
			return "", false
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, "failed to read uploaded file")
			return "", false
		}

		text, err := h.pdfExtractor.Extract(data)
		if err != nil {
			h.logger.Error("pdf extraction failed", zap.Error(err))
			utils.RespondError(w, http.StatusInternalServerError, "failed to extract text from document")
			return "", false
		}
		return text, true
	}

	var payload struct {
		ExtractedText string `json:"extractedText"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return "", false
	}
	if strings.TrimSpace(payload.ExtractedText) == "" {
		utils.RespondError(w, http.StatusBadRequest, "extracted text is empty")
		return "", false
	}
	return payload.ExtractedText, true
}

// handleFollowup answers one question against the accumulated history.
func (h *Handler) handleFollowup(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SessionID string `json:"sessionId"`
		Message   string `json:"message"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.SessionID == "" || strings.TrimSpace(payload.Message) == "" {
		utils.RespondError(w, http.StatusBadRequest, "missing sessionId or message")
		return
	}

	reply, err := h.convSvc.Followup(r.Context(), payload.SessionID, payload.Message)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrSessionNotFound):
			utils.RespondError(w, http.StatusNotFound, "session not found")
		case errors.Is(err, conversationService.ErrEmptyMessage):
			utils.RespondError(w, http.StatusBadRequest, "missing sessionId or message")
		default:
			h.logger.Error("follow-up failed",
				zap.String("sessionId", payload.SessionID),
				zap.Error(err))
			utils.RespondError(w, http.StatusInternalServerError, "error handling follow-up")
		}
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"reply": reply})
}
