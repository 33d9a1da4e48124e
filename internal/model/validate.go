package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("marks", func(fl validator.FieldLevel) bool {
		n, err := strconv.ParseFloat(strings.TrimSpace(fl.Field().String()), 64)
		return err == nil && n >= 0 && n <= 100
	})
	return v
}

// FieldError describes why a single form field was rejected.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every rejected field of a record.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Message
	}
	return "invalid student record: " + strings.Join(parts, "; ")
}

var requiredMessages = map[string]string{
	FieldName:  "Name is required",
	FieldRegNo: "Registration number is required",
	FieldDept:  "Department is required",
	FieldYear:  "Year is required",
}

// Normalize trims surrounding whitespace from every attribute.
func (r StudentRecord) Normalize() StudentRecord {
	return StudentRecord{
		Name:  strings.TrimSpace(r.Name),
		RegNo: strings.TrimSpace(r.RegNo),
		Dept:  strings.TrimSpace(r.Dept),
		Year:  strings.TrimSpace(r.Year),
		Marks: strings.TrimSpace(r.Marks),
	}
}

// ValidateRecord applies the form rules: Name, RegNo, Dept and Year must be
// non-empty and Marks must be a number between 0 and 100.
func ValidateRecord(r StudentRecord) error {
	err := validate.Struct(r.Normalize())
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("model: validate record: %w", err)
	}
	out := &ValidationError{}
	for _, fe := range verrs {
		msg, ok := requiredMessages[fe.Field()]
		if fe.Field() == FieldMarks || !ok {
			msg = "Marks must be a number between 0 and 100."
		}
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Message: msg})
	}
	return out
}
