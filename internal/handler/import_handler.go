package handler

import (
	"io"
	"net/http"
	"path/filepath"

	"github.com/Shaizaan-Hussain/Student-Management-DashBoard/internal/service"
	"go.uber.org/zap"
)

const maxImportSize = 32 << 20 // 32MB

// Importer loads records from CSV data.
type Importer interface {
	ImportCSV(fileName string, r io.Reader) (*service.ImportResult, error)
}

type ImportHandler struct {
	importService Importer
	logger        *zap.Logger
}

func NewImportHandler(importService Importer, logger *zap.Logger) *ImportHandler {
	return &ImportHandler{importService: importService, logger: logger}
}

// ImportCSV adds the records of every uploaded CSV file in the "files" form
// field. Files are processed in upload order through the record store.
func (h *ImportHandler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "file too large or bad request")
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "no files uploaded")
		return
	}

	results := make([]*service.ImportResult, 0, len(files))
	failures := make(map[string]string)
	for _, header := range files {
		name := filepath.Base(header.Filename)
		file, err := header.Open()
		if err != nil {
			h.logger.Warn("failed to open uploaded file", zap.String("file", name), zap.Error(err))
			failures[name] = err.Error()
			continue
		}

		result, err := h.importService.ImportCSV(name, file)
		file.Close()
		if err != nil {
			h.logger.Warn("csv import failed", zap.String("file", name), zap.Error(err))
			failures[name] = err.Error()
			continue
		}
		results = append(results, result)
	}

	status := http.StatusOK
	if len(results) == 0 {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]interface{}{
		"results": results,
		"errors":  failures,
	})
}
