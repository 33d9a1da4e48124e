package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Shaizaan-Hussain/Student-Management-DashBoard/internal/model"
	"github.com/Shaizaan-Hussain/Student-Management-DashBoard/internal/service"
	"github.com/gorilla/mux"
)

// StudentStore is the part of the record store the student endpoints use.
type StudentStore interface {
	ListStudents(q service.ListQuery) ([]model.Student, int64, int, error)
	Get(regNo string) (model.Student, error)
	Add(record model.StudentRecord) (model.Student, error)
	Update(regNo string, patch model.StudentPatch) (model.Student, error)
	Delete(regNo string) error
}

type StudentHandler struct {
	studentService StudentStore
}

func NewStudentHandler(studentService StudentStore) *StudentHandler {
	return &StudentHandler{studentService: studentService}
}

func (h *StudentHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, _ := strconv.Atoi(query.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(query.Get("limit"))
	anomalous, _ := strconv.ParseBool(query.Get("anomalous"))
	sortOrder := query.Get("sort_order")
	if sortOrder == "" {
		sortOrder = "asc"
	}

	students, totalCount, totalPages, err := h.studentService.ListStudents(service.ListQuery{
		Search:        query.Get("q"),
		SortBy:        query.Get("sort_by"),
		SortOrder:     sortOrder,
		Page:          page,
		Limit:         limit,
		AnomalousOnly: anomalous,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response := map[string]interface{}{
		"data":       students,
		"page":       page,
		"limit":      limit,
		"total":      totalCount,
		"totalPages": totalPages,
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *StudentHandler) GetStudent(w http.ResponseWriter, r *http.Request) {
	student, err := h.studentService.Get(mux.Vars(r)["regNo"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, student)
}

func (h *StudentHandler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	var record model.StudentRecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	student, err := h.studentService.Add(record)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, student)
}

// UpdateStudent merges the fields present in the body into the record. The
// registration number in the path identifies the record and cannot change.
func (h *StudentHandler) UpdateStudent(w http.ResponseWriter, r *http.Request) {
	var patch model.StudentPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	student, err := h.studentService.Update(mux.Vars(r)["regNo"], patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, student)
}

func (h *StudentHandler) DeleteStudent(w http.ResponseWriter, r *http.Request) {
	if err := h.studentService.Delete(mux.Vars(r)["regNo"]); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
