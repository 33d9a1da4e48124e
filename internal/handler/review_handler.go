package handler

import (
	"context"
	"net/http"

	"github.com/Shaizaan-Hussain/Student-Management-DashBoard/internal/model"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Reviewer runs data quality reviews and resolves their suggestions.
type Reviewer interface {
	Review(ctx context.Context) ([]model.Student, error)
	AcceptFix(regNo, field string) (model.Student, error)
	IgnoreFix(regNo, field string) (model.Student, error)
}

type ReviewHandler struct {
	reviewService Reviewer
	logger        *zap.Logger
}

func NewReviewHandler(reviewService Reviewer, logger *zap.Logger) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService, logger: logger}
}

// StartReview runs one review and answers with the annotated records. The
// review is not cancelled when the client goes away.
func (h *ReviewHandler) StartReview(w http.ResponseWriter, r *http.Request) {
	students, err := h.reviewService.Review(context.WithoutCancel(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Anomalies have been flagged for your review.",
		"data":    students,
	})
}

func (h *ReviewHandler) AcceptFix(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	student, err := h.reviewService.AcceptFix(vars["regNo"], vars["field"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	h.logger.Info("suggested fix accepted", zap.String("reg_no", vars["regNo"]), zap.String("field", vars["field"]))
	writeJSON(w, http.StatusOK, student)
}

func (h *ReviewHandler) IgnoreFix(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	student, err := h.reviewService.IgnoreFix(vars["regNo"], vars["field"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	h.logger.Info("suggested fix ignored", zap.String("reg_no", vars["regNo"]), zap.String("field", vars["field"]))
	writeJSON(w, http.StatusOK, student)
}
