package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Shaizaan-Hussain/Student-Management-DashBoard/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// Oracle classifies a batch of records and returns them, in the same order,
// annotated with per-field anomaly flags and suggested fixes.
type Oracle interface {
	Review(ctx context.Context, records []model.StudentRecord) ([]model.Student, error)
}

type ReviewState string

const (
	StateIdle      ReviewState = "idle"
	StateReviewing ReviewState = "reviewing"
)

// ReviewStatus describes the running review, or the last finished one.
type ReviewStatus struct {
	State      ReviewState `json:"state"`
	ReviewID   string      `json:"reviewId,omitempty"`
	StartedAt  *time.Time  `json:"startedAt,omitempty"`
	FinishedAt *time.Time  `json:"finishedAt,omitempty"`
	Flagged    int         `json:"flagged"`
	Error      string      `json:"error,omitempty"`
}

// ReviewService coordinates data quality reviews against an oracle. At most
// one review runs at a time; a failed review leaves the store untouched.
type ReviewService struct {
	store   *StudentService
	oracle  Oracle
	logger  *zap.Logger
	timeout time.Duration

	inFlight *semaphore.Weighted

	status     ReviewStatus
	statusLock sync.RWMutex

	statusListeners map[chan ReviewStatus]bool
	listenerLock    sync.RWMutex
}

// NewReviewService wires the coordinator. A zero timeout leaves deadlines to
// the oracle transport.
func NewReviewService(store *StudentService, oracle Oracle, timeout time.Duration, logger *zap.Logger) *ReviewService {
	return &ReviewService{
		store:           store,
		oracle:          oracle,
		logger:          logger,
		timeout:         timeout,
		inFlight:        semaphore.NewWeighted(1),
		status:          ReviewStatus{State: StateIdle},
		statusListeners: make(map[chan ReviewStatus]bool),
	}
}

func (s *ReviewService) RegisterStatusListener(ch chan ReviewStatus) {
	s.listenerLock.Lock()
	defer s.listenerLock.Unlock()
	s.statusListeners[ch] = true
}

// UnregisterStatusListener stops delivering status updates to ch.
func (s *ReviewService) UnregisterStatusListener(ch chan ReviewStatus) {
	s.listenerLock.Lock()
	defer s.listenerLock.Unlock()
	delete(s.statusListeners, ch)
}

// broadcastStatus sends a status update to every listener that is ready to
// receive it. Slow listeners miss updates.
func (s *ReviewService) broadcastStatus(status ReviewStatus) {
	s.listenerLock.RLock()
	defer s.listenerLock.RUnlock()

	for listener := range s.statusListeners {
		select {
		case listener <- status:
		default:
		}
	}
}

// Status returns a snapshot of the current review status.
func (s *ReviewService) Status() ReviewStatus {
	s.statusLock.RLock()
	defer s.statusLock.RUnlock()
	return s.status
}

func (s *ReviewService) setStatus(status ReviewStatus) {
	s.statusLock.Lock()
	s.status = status
	s.statusLock.Unlock()
	s.broadcastStatus(status)
}

// Review runs one round trip with the oracle: annotations are stripped, the
// plain records are classified, and on success the annotated list replaces
// the store contents. Returns ErrReviewInProgress when another review is
// running. Any oracle error is reported wrapped in ErrOracleFailure.
//
// Single-record writes to the store fail with ErrReviewInProgress until the
// review finishes, so no edit is lost when the annotated list replaces the
// store.
func (s *ReviewService) Review(ctx context.Context) ([]model.Student, error) {
	if !s.inFlight.TryAcquire(1) {
		return nil, ErrReviewInProgress
	}
	defer s.inFlight.Release(1)
	s.store.holdWrites()
	defer s.store.releaseWrites()

	reviewID := uuid.NewString()
	started := time.Now()
	s.setStatus(ReviewStatus{State: StateReviewing, ReviewID: reviewID, StartedAt: &started})
	logger := s.logger.With(zap.String("review_id", reviewID))

	reviewed, err := s.run(ctx)
	finished := time.Now()
	if err != nil {
		logger.Error("data quality review failed", zap.Error(err), zap.Duration("elapsed", finished.Sub(started)))
		s.setStatus(ReviewStatus{
			State:      StateIdle,
			ReviewID:   reviewID,
			StartedAt:  &started,
			FinishedAt: &finished,
			Error:      err.Error(),
		})
		return nil, fmt.Errorf("%w: %w", ErrOracleFailure, err)
	}

	flagged := countFlagged(reviewed)
	logger.Info("data quality review complete",
		zap.Int("records", len(reviewed)),
		zap.Int("flagged", flagged),
		zap.Duration("elapsed", finished.Sub(started)))
	s.setStatus(ReviewStatus{
		State:      StateIdle,
		ReviewID:   reviewID,
		StartedAt:  &started,
		FinishedAt: &finished,
		Flagged:    flagged,
	})
	return reviewed, nil
}

func (s *ReviewService) run(ctx context.Context) ([]model.Student, error) {
	records := model.StripAnomalies(s.store.List())
	if err := model.ValidateRequest(records); err != nil {
		return nil, err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	response, err := s.oracle.Review(ctx, records)
	if err != nil {
		return nil, err
	}
	reviewed, err := model.ValidateResponse(records, response)
	if err != nil {
		return nil, err
	}
	if err := s.store.ReplaceAll(reviewed); err != nil {
		return nil, err
	}
	return reviewed, nil
}

func countFlagged(students []model.Student) int {
	n := 0
	for _, st := range students {
		for _, a := range st.Anomalies {
			if a.Displayable() {
				n++
			}
		}
	}
	return n
}

// AcceptFix sets field to its suggested value and drops its annotation. A
// suggestion that breaks the form rules is rejected and nothing changes.
func (s *ReviewService) AcceptFix(regNo, field string) (model.Student, error) {
	if !model.IsValidField(field) {
		return model.Student{}, fmt.Errorf("%w: %s", ErrInvalidField, field)
	}
	return s.store.Mutate(regNo, func(st *model.Student) error {
		a, ok := st.Anomaly(field)
		if !ok {
			return ErrAnnotationNotFound
		}
		if !a.Displayable() {
			return ErrNoSuggestion
		}
		if !st.Set(field, strings.TrimSpace(a.SuggestedFix)) {
			return ErrRegNoImmutable
		}
		if err := model.ValidateRecord(st.StudentRecord); err != nil {
			return err
		}
		st.DropAnomaly(field)
		return nil
	})
}

// IgnoreFix drops the annotation for field and keeps the current value.
func (s *ReviewService) IgnoreFix(regNo, field string) (model.Student, error) {
	if !model.IsValidField(field) {
		return model.Student{}, fmt.Errorf("%w: %s", ErrInvalidField, field)
	}
	return s.store.Mutate(regNo, func(st *model.Student) error {
		if !st.DropAnomaly(field) {
			return ErrAnnotationNotFound
		}
		return nil
	})
}
