package handler

import (
	"encoding/json"
	"net/http"
	"path/filepath"

	"github.com/Shaizaan-Hussain/Student-Management-DashBoard/internal/service"
	"go.uber.org/zap"
)

// StatusSource exposes the review state and its change notifications.
type StatusSource interface {
	Status() service.ReviewStatus
	RegisterStatusListener(ch chan service.ReviewStatus)
	UnregisterStatusListener(ch chan service.ReviewStatus)
}

// ImportProgressSource exposes the progress of CSV imports.
type ImportProgressSource interface {
	GetFileProgress(fileName string) *service.ImportProgress
	GetAllFileProgress() []*service.ImportProgress
}

type ProgressHandler struct {
	reviews StatusSource
	imports ImportProgressSource
	logger  *zap.Logger
}

func NewProgressHandler(reviews StatusSource, imports ImportProgressSource, logger *zap.Logger) *ProgressHandler {
	return &ProgressHandler{reviews: reviews, imports: imports, logger: logger}
}

// GetReviewStatus returns the state of the current or last review.
func (h *ProgressHandler) GetReviewStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.reviews.Status())
}

// GetFileProgress returns the progress for a specific import file
func (h *ProgressHandler) GetFileProgress(w http.ResponseWriter, r *http.Request) {
	fileName := r.URL.Query().Get("fileName")
	if fileName == "" {
		writeError(w, http.StatusBadRequest, "fileName parameter is required")
		return
	}

	progress := h.imports.GetFileProgress(filepath.Base(fileName))
	if progress == nil {
		writeError(w, http.StatusNotFound, "file not found or not being imported")
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

// GetAllProgress returns the progress for all imported files
func (h *ProgressHandler) GetAllProgress(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.imports.GetAllFileProgress())
}

// SSEReviewStatus streams review status changes to the client using
// Server-Sent Events. The current status is sent first.
func (h *ProgressHandler) SSEReviewStatus(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	statusChan := make(chan service.ReviewStatus, 4)
	h.reviews.RegisterStatusListener(statusChan)
	defer h.reviews.UnregisterStatusListener(statusChan)

	send := func(status service.ReviewStatus) bool {
		data, err := json.Marshal(status)
		if err != nil {
			h.logger.Error("failed to encode review status", zap.Error(err))
			return true
		}
		if _, err := w.Write([]byte("data: " + string(data) + "\n\n")); err != nil {
			h.logger.Debug("failed to write SSE data", zap.Error(err))
			return false
		}
		flusher.Flush()
		return true
	}

	if !send(h.reviews.Status()) {
		return
	}
	for {
		select {
		case status := <-statusChan:
			if !send(status) {
				return
			}
		case <-r.Context().Done():
			h.logger.Debug("review status client disconnected")
			return
		}
	}
}
