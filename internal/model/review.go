package model

import (
	"errors"
	"fmt"
)

// ErrSchemaViolation marks an oracle exchange that does not match the
// record and annotation schemas.
var ErrSchemaViolation = errors.New("review schema violation")

// ValidateRequest checks the records about to be sent for review.
func ValidateRequest(records []StudentRecord) error {
	seen := make(map[string]struct{}, len(records))
	for i, r := range records {
		if r.RegNo == "" {
			return fmt.Errorf("%w: record %d has no RegNo", ErrSchemaViolation, i)
		}
		if _, dup := seen[r.RegNo]; dup {
			return fmt.Errorf("%w: duplicate RegNo %q", ErrSchemaViolation, r.RegNo)
		}
		seen[r.RegNo] = struct{}{}
	}
	return nil
}

// ValidateResponse checks an oracle response against the request it answers.
// The response must hold the same records in the same order, annotate only
// known fields and at most once per field. A suggestion attached to a field
// that is not flagged is cleared rather than rejected. The returned slice is
// the normalised response.
func ValidateResponse(request []StudentRecord, response []Student) ([]Student, error) {
	if len(response) != len(request) {
		return nil, fmt.Errorf("%w: sent %d records, got %d back", ErrSchemaViolation, len(request), len(response))
	}
	out := make([]Student, len(response))
	for i, st := range response {
		if st.RegNo != request[i].RegNo {
			return nil, fmt.Errorf("%w: record %d is %q, expected %q", ErrSchemaViolation, i, st.RegNo, request[i].RegNo)
		}
		st = st.Clone()
		seen := make(map[string]struct{}, len(st.Anomalies))
		for j, a := range st.Anomalies {
			if !IsValidField(a.Field) {
				return nil, fmt.Errorf("%w: record %q annotates unknown field %q", ErrSchemaViolation, st.RegNo, a.Field)
			}
			if _, dup := seen[a.Field]; dup {
				return nil, fmt.Errorf("%w: record %q annotates %q twice", ErrSchemaViolation, st.RegNo, a.Field)
			}
			seen[a.Field] = struct{}{}
			if !a.IsAnomalous {
				st.Anomalies[j].SuggestedFix = ""
			}
		}
		if len(st.Anomalies) == 0 {
			st.Anomalies = nil
		}
		out[i] = st
	}
	return out, nil
}
