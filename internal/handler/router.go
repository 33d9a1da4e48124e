package handler

import (
	"github.com/gorilla/mux"
)

// NewRouter registers every endpoint of the student API.
func NewRouter(students *StudentHandler, reviews *ReviewHandler, imports *ImportHandler, progress *ProgressHandler) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/students", students.ListStudents).Methods("GET")
	r.HandleFunc("/students", students.CreateStudent).Methods("POST")
	r.HandleFunc("/students/import", imports.ImportCSV).Methods("POST")
	r.HandleFunc("/students/import/progress", progress.GetAllProgress).Methods("GET")
	r.HandleFunc("/students/import/progress/file", progress.GetFileProgress).Methods("GET")
	r.HandleFunc("/students/{regNo}", students.GetStudent).Methods("GET")
	r.HandleFunc("/students/{regNo}", students.UpdateStudent).Methods("PUT", "PATCH")
	r.HandleFunc("/students/{regNo}", students.DeleteStudent).Methods("DELETE")

	r.HandleFunc("/students/{regNo}/anomalies/{field}/accept", reviews.AcceptFix).Methods("POST")
	r.HandleFunc("/students/{regNo}/anomalies/{field}/ignore", reviews.IgnoreFix).Methods("POST")
	r.HandleFunc("/review", reviews.StartReview).Methods("POST")
	r.HandleFunc("/review/status", progress.GetReviewStatus).Methods("GET")
	r.HandleFunc("/review/events", progress.SSEReviewStatus).Methods("GET")

	return r
}
