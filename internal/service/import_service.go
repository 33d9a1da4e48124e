package service

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/Shaizaan-Hussain/Student-Management-DashBoard/internal/model"
	"go.uber.org/zap"
)

// ImportProgress tracks one CSV file being imported.
type ImportProgress struct {
	FileName  string    `json:"fileName"`
	Processed int       `json:"processed"`
	Added     int       `json:"added"`
	Skipped   int       `json:"skipped"`
	Status    string    `json:"status"` // "processing", "completed", "error"
	Error     string    `json:"error,omitempty"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime,omitempty"`
}

// RowError explains why a CSV row was not imported. Line counts the header
// as line 1.
type RowError struct {
	Line   int    `json:"line"`
	RegNo  string `json:"regNo,omitempty"`
	Reason string `json:"reason"`
}

// ImportResult summarises one imported file.
type ImportResult struct {
	FileName string          `json:"fileName"`
	Added    []model.Student `json:"added"`
	Skipped  []RowError      `json:"skipped"`
}

// ImportService loads student records from CSV files with a header row
// naming the columns RegNo, Name, Dept, Year and Marks in any order. Rows go
// through the record store one by one, so duplicates and invalid rows are
// skipped without affecting the rest of the file.
type ImportService struct {
	store  *StudentService
	logger *zap.Logger

	fileProgressMap  map[string]*ImportProgress
	fileProgressLock sync.RWMutex
}

func NewImportService(store *StudentService, logger *zap.Logger) *ImportService {
	return &ImportService{
		store:           store,
		logger:          logger,
		fileProgressMap: make(map[string]*ImportProgress),
	}
}

// GetFileProgress returns a copy of the progress for fileName, or nil.
func (s *ImportService) GetFileProgress(fileName string) *ImportProgress {
	s.fileProgressLock.RLock()
	defer s.fileProgressLock.RUnlock()

	if progress, exists := s.fileProgressMap[fileName]; exists {
		copyProgress := *progress
		return &copyProgress
	}
	return nil
}

// GetAllFileProgress returns copies of the progress of every known file.
func (s *ImportService) GetAllFileProgress() []*ImportProgress {
	s.fileProgressLock.RLock()
	defer s.fileProgressLock.RUnlock()

	result := make([]*ImportProgress, 0, len(s.fileProgressMap))
	for _, progress := range s.fileProgressMap {
		copyProgress := *progress
		result = append(result, &copyProgress)
	}
	return result
}

func (s *ImportService) updateProgress(fileName string, fn func(p *ImportProgress)) {
	s.fileProgressLock.Lock()
	defer s.fileProgressLock.Unlock()
	if progress, exists := s.fileProgressMap[fileName]; exists {
		fn(progress)
	}
}

// ImportCSV reads records from r and adds them to the store. A malformed
// header aborts the import; row level problems are collected in the result.
func (s *ImportService) ImportCSV(fileName string, r io.Reader) (*ImportResult, error) {
	startTime := time.Now()
	s.fileProgressLock.Lock()
	s.fileProgressMap[fileName] = &ImportProgress{
		FileName:  fileName,
		Status:    "processing",
		StartTime: startTime,
	}
	s.fileProgressLock.Unlock()

	result, err := s.importRows(fileName, r)
	if err != nil {
		s.updateProgress(fileName, func(p *ImportProgress) {
			p.Status = "error"
			p.Error = err.Error()
			p.EndTime = time.Now()
		})
		return nil, err
	}

	s.updateProgress(fileName, func(p *ImportProgress) {
		p.Status = "completed"
		p.EndTime = time.Now()
	})
	s.logger.Info("csv import completed",
		zap.String("file", fileName),
		zap.Int("added", len(result.Added)),
		zap.Int("skipped", len(result.Skipped)),
		zap.Duration("elapsed", time.Since(startTime)))
	return result, nil
}

func (s *ImportService) importRows(fileName string, r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New("import: file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("import: read header: %w", err)
	}
	columns, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{FileName: fileName, Added: []model.Student{}, Skipped: []RowError{}}
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			result.Skipped = append(result.Skipped, RowError{Line: line, Reason: err.Error()})
			s.updateProgress(fileName, func(p *ImportProgress) { p.Processed++; p.Skipped++ })
			continue
		}

		record := columns.record(row)
		st, err := s.store.Add(record)
		if err != nil {
			result.Skipped = append(result.Skipped, RowError{Line: line, RegNo: record.RegNo, Reason: err.Error()})
			s.updateProgress(fileName, func(p *ImportProgress) { p.Processed++; p.Skipped++ })
			continue
		}
		result.Added = append(result.Added, st)
		s.updateProgress(fileName, func(p *ImportProgress) { p.Processed++; p.Added++ })
	}
	return result, nil
}

type columnMap map[string]int

func mapColumns(header []string) (columnMap, error) {
	cols := make(columnMap, len(model.Fields))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		for _, f := range model.Fields {
			if strings.EqualFold(h, f) {
				cols[f] = i
			}
		}
	}
	var missing []string
	for _, f := range model.Fields {
		if _, ok := cols[f]; !ok {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("import: header is missing columns %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

func (c columnMap) record(row []string) model.StudentRecord {
	get := func(field string) string {
		if i := c[field]; i < len(row) {
			return row[i]
		}
		return ""
	}
	return model.StudentRecord{
		Name:  get(model.FieldName),
		RegNo: get(model.FieldRegNo),
		Dept:  get(model.FieldDept),
		Year:  get(model.FieldYear),
		Marks: get(model.FieldMarks),
	}
}
