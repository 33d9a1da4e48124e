package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/Shaizaan-Hussain/Student-Management-DashBoard/internal/database"
	"github.com/Shaizaan-Hussain/Student-Management-DashBoard/internal/handler"
	"github.com/Shaizaan-Hussain/Student-Management-DashBoard/internal/model"
	"github.com/Shaizaan-Hussain/Student-Management-DashBoard/internal/service"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "students.db")), &gorm.Config{})
	require.NoError(t, err, "failed to connect to database")
	require.NoError(t, database.Migrate(db))
	return db
}

func setupStudentRouter(t *testing.T) (*mux.Router, *service.StudentService) {
	t.Helper()
	studentService := service.NewStudentService(context.Background(), database.NewSlotStore(setupTestDB(t)), zaptest.NewLogger(t))
	studentHandler := handler.NewStudentHandler(studentService)

	r := mux.NewRouter()
	r.HandleFunc("/students", studentHandler.ListStudents).Methods("GET")
	r.HandleFunc("/students", studentHandler.CreateStudent).Methods("POST")
	r.HandleFunc("/students/{regNo}", studentHandler.GetStudent).Methods("GET")
	r.HandleFunc("/students/{regNo}", studentHandler.UpdateStudent).Methods("PUT")
	r.HandleFunc("/students/{regNo}", studentHandler.DeleteStudent).Methods("DELETE")
	return r, studentService
}

func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestListStudents(t *testing.T) {
	r, _ := setupStudentRouter(t)

	tests := []struct {
		name           string
		queryParams    map[string]string
		expectedStatus int
		expectedLen    int
	}{
		{"All students", map[string]string{}, http.StatusOK, 5},
		{"Filter by name", map[string]string{"q": "alice"}, http.StatusOK, 1},
		{"Filter by dept", map[string]string{"q": "Computer"}, http.StatusOK, 2},
		{"Pagination", map[string]string{"page": "1", "limit": "2"}, http.StatusOK, 2},
		{"Huge page", map[string]string{"page": "4611686018427387904", "limit": "4"}, http.StatusOK, 0},
		{"Sorted", map[string]string{"sort_by": "Marks", "sort_order": "desc"}, http.StatusOK, 5},
		{"Bad sort field", map[string]string{"sort_by": "grade"}, http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest("GET", "/students", nil)
			if err != nil {
				t.Fatal(err)
			}
			q := req.URL.Query()
			for key, value := range tt.queryParams {
				q.Add(key, value)
			}
			req.URL.RawQuery = q.Encode()

			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("ListStudents() status = %v, want %v", rr.Code, tt.expectedStatus)
			}
			if tt.expectedStatus != http.StatusOK {
				return
			}

			var response struct {
				Data  []model.Student `json:"data"`
				Total int             `json:"total"`
			}
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&response))
			if len(response.Data) != tt.expectedLen {
				t.Errorf("ListStudents() got = %v, want %v", len(response.Data), tt.expectedLen)
			}
		})
	}
}

func TestCreateStudent(t *testing.T) {
	r, studentService := setupStudentRouter(t)

	rr := doJSON(t, r, "POST", "/students", model.StudentRecord{Name: "Eve Adams", RegNo: "S006", Dept: "Mathematics", Year: "1", Marks: "64"})
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Len(t, studentService.List(), 6)

	rr = doJSON(t, r, "POST", "/students", model.StudentRecord{Name: "Other", RegNo: "S006", Dept: "Art", Year: "1", Marks: "1"})
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "already exists")

	rr = doJSON(t, r, "POST", "/students", model.StudentRecord{RegNo: "S007", Dept: "Art", Year: "1", Marks: "101"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	var body struct {
		Fields []model.FieldError `json:"fields"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Len(t, body.Fields, 2)

	req := httptest.NewRequest("POST", "/students", bytes.NewBufferString("{not json"))
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	assert.Len(t, studentService.List(), 6)
}

func TestGetUpdateDeleteStudent(t *testing.T) {
	r, _ := setupStudentRouter(t)

	rr := doJSON(t, r, "GET", "/students/S002", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var st model.Student
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&st))
	assert.Equal(t, "Bob Smith", st.Name)

	rr = doJSON(t, r, "PUT", "/students/S002", map[string]string{"Marks": "77"})
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&st))
	assert.Equal(t, "77", st.Marks)
	assert.Equal(t, "Bob Smith", st.Name)

	rr = doJSON(t, r, "PUT", "/students/S002", map[string]string{"RegNo": "S009"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSON(t, r, "PUT", "/students/S404", map[string]string{"Name": "Nobody"})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doJSON(t, r, "DELETE", "/students/S002", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	rr = doJSON(t, r, "DELETE", "/students/S002", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	rr = doJSON(t, r, "GET", "/students/S002", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
