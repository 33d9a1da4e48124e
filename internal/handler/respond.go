package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Shaizaan-Hussain/Student-Management-DashBoard/internal/model"
	"github.com/Shaizaan-Hussain/Student-Management-DashBoard/internal/service"
)

type errorResponse struct {
	Error  string             `json:"error"`
	Fields []model.FieldError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeServiceError maps service and validation errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Error(), Fields: verr.Fields})
		return
	}

	switch {
	case errors.Is(err, service.ErrDuplicateRegNo),
		errors.Is(err, service.ErrReviewInProgress):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrStudentNotFound),
		errors.Is(err, service.ErrAnnotationNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrRegNoImmutable),
		errors.Is(err, service.ErrInvalidField),
		errors.Is(err, service.ErrNoSuggestion):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrOracleFailure):
		writeError(w, http.StatusBadGateway, service.ErrOracleFailure.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
