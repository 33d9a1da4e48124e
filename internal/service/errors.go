package service

import "errors"

var (
	ErrDuplicateRegNo     = errors.New("a student with this registration number already exists")
	ErrStudentNotFound    = errors.New("student not found")
	ErrRegNoImmutable     = errors.New("registration number cannot be changed")
	ErrReviewInProgress   = errors.New("a data quality review is already running")
	ErrOracleFailure      = errors.New("failed to check data quality")
	ErrAnnotationNotFound = errors.New("no anomaly flag for this field")
	ErrNoSuggestion       = errors.New("anomaly flag has no suggested fix")
	ErrInvalidField       = errors.New("unknown student field")
)
