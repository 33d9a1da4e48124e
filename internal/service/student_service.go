package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Shaizaan-Hussain/Student-Management-DashBoard/internal/database"
	"github.com/Shaizaan-Hussain/Student-Management-DashBoard/internal/model"
	"go.uber.org/zap"
)

// StorageKey names the durable slot holding the record list.
const StorageKey = "studentData"

const slotWriteTimeout = 5 * time.Second

// Slot is the durable key-value storage behind the record store.
type Slot interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}

// StudentService is the record store. It owns the authoritative list of
// students and flushes it to its slot after every mutation. Storage errors
// are logged and never undo the in-memory change.
type StudentService struct {
	mu       sync.RWMutex
	students []model.Student
	slot     Slot
	logger   *zap.Logger

	// writesHeld rejects single-record writes while a review owns the list.
	writesHeld bool
}

// NewStudentService loads the record list from slot. When the slot is empty,
// unreadable or corrupt, the store starts from the seed dataset.
func NewStudentService(ctx context.Context, slot Slot, logger *zap.Logger) *StudentService {
	s := &StudentService{slot: slot, logger: logger}
	s.load(ctx)
	return s
}

func (s *StudentService) load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.slot.Load(ctx, StorageKey)
	if err == nil {
		students, decodeErr := decodeStudents(data)
		if decodeErr == nil {
			s.students = students
			s.logger.Info("loaded student records", zap.Int("count", len(students)))
			return
		}
		err = decodeErr
	}

	if errors.Is(err, database.ErrSlotEmpty) {
		s.logger.Info("no stored student records, loading sample data")
	} else {
		s.logger.Warn("failed to load student records, falling back to sample data", zap.Error(err))
	}
	s.students = model.SeedStudents()
	s.persistLocked()
}

// Reset discards the current contents and restores the seed dataset.
func (s *StudentService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.students = model.SeedStudents()
	s.persistLocked()
}

func decodeStudents(data []byte) ([]model.Student, error) {
	var students []model.Student
	if err := json.Unmarshal(data, &students); err != nil {
		return nil, fmt.Errorf("decode stored records: %w", err)
	}
	if students == nil {
		return nil, errors.New("decode stored records: slot holds null")
	}
	if err := checkUnique(students); err != nil {
		return nil, fmt.Errorf("decode stored records: %w", err)
	}
	return students, nil
}

func checkUnique(students []model.Student) error {
	seen := make(map[string]struct{}, len(students))
	for _, st := range students {
		if st.RegNo == "" {
			return errors.New("record without registration number")
		}
		if _, dup := seen[st.RegNo]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateRegNo, st.RegNo)
		}
		seen[st.RegNo] = struct{}{}
	}
	return nil
}

// persistLocked writes the current list to the slot. Callers hold s.mu.
func (s *StudentService) persistLocked() {
	data, err := json.Marshal(s.students)
	if err != nil {
		s.logger.Error("failed to encode student records", zap.Error(err))
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), slotWriteTimeout)
	defer cancel()
	if err := s.slot.Save(ctx, StorageKey, data); err != nil {
		s.logger.Error("failed to save student records", zap.Error(err))
	}
}

func (s *StudentService) holdWrites() {
	s.mu.Lock()
	s.writesHeld = true
	s.mu.Unlock()
}

func (s *StudentService) releaseWrites() {
	s.mu.Lock()
	s.writesHeld = false
	s.mu.Unlock()
}

func (s *StudentService) indexLocked(regNo string) int {
	for i, st := range s.students {
		if st.RegNo == regNo {
			return i
		}
	}
	return -1
}

// List returns a copy of every record in store order.
func (s *StudentService) List() []model.Student {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.CloneAll(s.students)
}

// Get returns a copy of the record with the given RegNo.
func (s *StudentService) Get(regNo string) (model.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexLocked(regNo)
	if i < 0 {
		return model.Student{}, ErrStudentNotFound
	}
	return s.students[i].Clone(), nil
}

// Add appends a new record. The store is left untouched when the record is
// invalid, its RegNo is already taken or a review is running.
func (s *StudentService) Add(record model.StudentRecord) (model.Student, error) {
	record = record.Normalize()
	if err := model.ValidateRecord(record); err != nil {
		return model.Student{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writesHeld {
		return model.Student{}, ErrReviewInProgress
	}
	if s.indexLocked(record.RegNo) >= 0 {
		return model.Student{}, ErrDuplicateRegNo
	}
	st := model.Student{StudentRecord: record}
	s.students = append(s.students, st)
	s.persistLocked()
	return st.Clone(), nil
}

// Update merges patch into the record with the given RegNo. Annotations of
// fields whose value changed are dropped since they describe the old value.
func (s *StudentService) Update(regNo string, patch model.StudentPatch) (model.Student, error) {
	if patch.RegNo != nil && strings.TrimSpace(*patch.RegNo) != regNo {
		return model.Student{}, ErrRegNoImmutable
	}
	patch = patch.Normalize()
	return s.Mutate(regNo, func(st *model.Student) error {
		next := st.Clone()
		changed := patch.Apply(&next)
		if err := model.ValidateRecord(next.StudentRecord); err != nil {
			return err
		}
		for _, f := range changed {
			next.DropAnomaly(f)
		}
		*st = next
		return nil
	})
}

// Mutate runs fn against the record with the given RegNo while holding the
// store lock. The change is kept and flushed only when fn returns nil; fn
// must not alter RegNo.
func (s *StudentService) Mutate(regNo string, fn func(*model.Student) error) (model.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writesHeld {
		return model.Student{}, ErrReviewInProgress
	}
	i := s.indexLocked(regNo)
	if i < 0 {
		return model.Student{}, ErrStudentNotFound
	}
	work := s.students[i].Clone()
	if err := fn(&work); err != nil {
		return model.Student{}, err
	}
	work.RegNo = regNo
	s.students[i] = work
	s.persistLocked()
	return work.Clone(), nil
}

// Delete removes the record with the given RegNo.
func (s *StudentService) Delete(regNo string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writesHeld {
		return ErrReviewInProgress
	}
	i := s.indexLocked(regNo)
	if i < 0 {
		return ErrStudentNotFound
	}
	s.students = append(s.students[:i:i], s.students[i+1:]...)
	s.persistLocked()
	return nil
}

// ReplaceAll swaps the whole contents of the store, as done after a review.
// A list that would break RegNo uniqueness is rejected.
func (s *StudentService) ReplaceAll(students []model.Student) error {
	if err := checkUnique(students); err != nil {
		return err
	}
	next := model.CloneAll(students)
	if next == nil {
		next = []model.Student{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.students = next
	s.persistLocked()
	return nil
}

// ListQuery selects, orders and pages records for display.
type ListQuery struct {
	Search        string // case-insensitive match on Name, RegNo, Dept or Year
	SortBy        string // attribute name; empty keeps store order
	SortOrder     string // "asc" or "desc"
	Page          int
	Limit         int // < 1 returns every match on one page
	AnomalousOnly bool
}

// ListStudents returns the page of records matching q with the total match
// count and number of pages.
func (s *StudentService) ListStudents(q ListQuery) ([]model.Student, int64, int, error) {
	if q.SortBy != "" && !model.IsValidField(q.SortBy) {
		return nil, 0, 0, fmt.Errorf("%w: %s", ErrInvalidField, q.SortBy)
	}

	s.mu.RLock()
	matches := make([]model.Student, 0, len(s.students))
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	for _, st := range s.students {
		if needle != "" && !matchesSearch(st, needle) {
			continue
		}
		if q.AnomalousOnly && !st.HasDisplayableAnomaly() {
			continue
		}
		matches = append(matches, st.Clone())
	}
	s.mu.RUnlock()

	if q.SortBy != "" {
		desc := strings.EqualFold(q.SortOrder, "desc")
		sort.SliceStable(matches, func(i, j int) bool {
			a, _ := matches[i].Value(q.SortBy)
			b, _ := matches[j].Value(q.SortBy)
			if desc {
				return lessValue(b, a)
			}
			return lessValue(a, b)
		})
	}

	total := int64(len(matches))
	if q.Limit < 1 {
		return matches, total, 1, nil
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	totalPages := int(math.Ceil(float64(total) / float64(q.Limit)))
	if page > totalPages {
		return []model.Student{}, total, totalPages, nil
	}
	start := (page - 1) * q.Limit
	end := min(start+q.Limit, len(matches))
	return matches[start:end], total, totalPages, nil
}

func matchesSearch(st model.Student, needle string) bool {
	for _, v := range []string{st.Name, st.RegNo, st.Dept, st.Year} {
		if strings.Contains(strings.ToLower(v), needle) {
			return true
		}
	}
	return false
}

// lessValue orders numerically when both values are numbers, otherwise by
// case-insensitive text.
func lessValue(a, b string) bool {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		return fa < fb
	}
	return strings.ToLower(a) < strings.ToLower(b)
}
