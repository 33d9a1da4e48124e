package model

import "strings"

// Attribute names of a student record. They double as JSON keys and as the
// field values carried by anomaly annotations.
const (
	FieldName  = "Name"
	FieldRegNo = "RegNo"
	FieldDept  = "Dept"
	FieldYear  = "Year"
	FieldMarks = "Marks"
)

// Fields lists the record attributes in display order.
var Fields = []string{FieldRegNo, FieldName, FieldDept, FieldYear, FieldMarks}

// StudentRecord is a record as entered through the form and as sent to the
// review oracle. All values are text; Marks holds a number in [0,100].
type StudentRecord struct {
	Name  string `json:"Name" yaml:"Name" validate:"required"`
	RegNo string `json:"RegNo" yaml:"RegNo" validate:"required"`
	Dept  string `json:"Dept" yaml:"Dept" validate:"required"`
	Year  string `json:"Year" yaml:"Year" validate:"required"`
	Marks string `json:"Marks" yaml:"Marks" validate:"required,marks"`
}

// Anomaly is the outcome of a review for one field of one record.
type Anomaly struct {
	Field        string `json:"field"`
	IsAnomalous  bool   `json:"isAnomalous"`
	SuggestedFix string `json:"suggestedFix,omitempty"`
}

// Displayable reports whether the UI should offer Accept/Ignore for a.
func (a Anomaly) Displayable() bool {
	return a.IsAnomalous && a.SuggestedFix != ""
}

// Student is a StudentRecord annotated with the anomalies found by the last
// review, at most one per field.
type Student struct {
	StudentRecord
	Anomalies []Anomaly `json:"anomalies,omitempty"`
}

// IsValidField reports whether field names a record attribute.
func IsValidField(field string) bool {
	for _, f := range Fields {
		if f == field {
			return true
		}
	}
	return false
}

// Value returns the value of the named attribute.
func (r StudentRecord) Value(field string) (string, bool) {
	switch field {
	case FieldName:
		return r.Name, true
	case FieldRegNo:
		return r.RegNo, true
	case FieldDept:
		return r.Dept, true
	case FieldYear:
		return r.Year, true
	case FieldMarks:
		return r.Marks, true
	}
	return "", false
}

// Set assigns the named attribute. RegNo is an identity and cannot be set.
func (r *StudentRecord) Set(field, value string) bool {
	switch field {
	case FieldName:
		r.Name = value
	case FieldDept:
		r.Dept = value
	case FieldYear:
		r.Year = value
	case FieldMarks:
		r.Marks = value
	default:
		return false
	}
	return true
}

// Anomaly returns the annotation for field, if any.
func (s Student) Anomaly(field string) (Anomaly, bool) {
	for _, a := range s.Anomalies {
		if a.Field == field {
			return a, true
		}
	}
	return Anomaly{}, false
}

// HasDisplayableAnomaly reports whether any annotation carries a suggestion.
func (s Student) HasDisplayableAnomaly() bool {
	for _, a := range s.Anomalies {
		if a.Displayable() {
			return true
		}
	}
	return false
}

// DropAnomaly removes the annotation for field and reports whether one existed.
func (s *Student) DropAnomaly(field string) bool {
	kept := s.Anomalies[:0:0]
	dropped := false
	for _, a := range s.Anomalies {
		if a.Field == field {
			dropped = true
			continue
		}
		kept = append(kept, a)
	}
	if !dropped {
		return false
	}
	if len(kept) == 0 {
		kept = nil
	}
	s.Anomalies = kept
	return true
}

// Clone returns a copy of s that shares no memory with it.
func (s Student) Clone() Student {
	c := s
	if s.Anomalies != nil {
		c.Anomalies = make([]Anomaly, len(s.Anomalies))
		copy(c.Anomalies, s.Anomalies)
	}
	return c
}

// CloneAll deep-copies a record list.
func CloneAll(students []Student) []Student {
	if students == nil {
		return nil
	}
	out := make([]Student, len(students))
	for i, s := range students {
		out[i] = s.Clone()
	}
	return out
}

// StripAnomalies returns the plain records of students, dropping every
// annotation, in the same order.
func StripAnomalies(students []Student) []StudentRecord {
	out := make([]StudentRecord, len(students))
	for i, s := range students {
		out[i] = s.StudentRecord
	}
	return out
}

// StudentPatch carries a partial update. Nil fields are left untouched.
type StudentPatch struct {
	Name  *string `json:"Name,omitempty"`
	RegNo *string `json:"RegNo,omitempty"`
	Dept  *string `json:"Dept,omitempty"`
	Year  *string `json:"Year,omitempty"`
	Marks *string `json:"Marks,omitempty"`
}

// Normalize trims surrounding whitespace from every set field.
func (p StudentPatch) Normalize() StudentPatch {
	trim := func(v *string) *string {
		if v == nil {
			return nil
		}
		t := strings.TrimSpace(*v)
		return &t
	}
	return StudentPatch{
		Name:  trim(p.Name),
		RegNo: trim(p.RegNo),
		Dept:  trim(p.Dept),
		Year:  trim(p.Year),
		Marks: trim(p.Marks),
	}
}

// Apply merges p into s and returns the names of the fields whose value
// changed. RegNo is never applied.
func (p StudentPatch) Apply(s *Student) []string {
	var changed []string
	set := func(field string, v *string) {
		if v == nil {
			return
		}
		if cur, _ := s.Value(field); cur == *v {
			return
		}
		s.Set(field, *v)
		changed = append(changed, field)
	}
	set(FieldName, p.Name)
	set(FieldDept, p.Dept)
	set(FieldYear, p.Year)
	set(FieldMarks, p.Marks)
	return changed
}
