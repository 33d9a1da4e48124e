package oracle

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Shaizaan-Hussain/Student-Management-DashBoard/internal/model"
	"google.golang.org/genai"
)

func stringField(description string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Description: description}
}

// responseSchema constrains the model output to a list of annotated records.
func responseSchema() *genai.Schema {
	fieldEnum := &genai.Schema{
		Type: genai.TypeString,
		Enum: append([]string(nil), model.Fields...),
	}
	anomaly := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"field":        fieldEnum,
			"isAnomalous":  {Type: genai.TypeBoolean},
			"suggestedFix": {Type: genai.TypeString},
		},
		Required:         []string{"field", "isAnomalous"},
		PropertyOrdering: []string{"field", "isAnomalous", "suggestedFix"},
	}
	anomalies := &genai.Schema{
		Type:        genai.TypeArray,
		Description: "Anomaly flags and suggestions for each field",
		Items:       anomaly,
	}

	return &genai.Schema{
		Type:        genai.TypeArray,
		Description: "List of student records with anomaly flags and suggestions",
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				model.FieldName:  stringField("Student name"),
				model.FieldRegNo: stringField("Registration number"),
				model.FieldDept:  stringField("Department"),
				model.FieldYear:  stringField("Year of study"),
				model.FieldMarks: stringField("Marks obtained"),
				"anomalies":      anomalies,
			},
			Required: []string{
				model.FieldName, model.FieldRegNo, model.FieldDept, model.FieldYear, model.FieldMarks,
			},
			PropertyOrdering: []string{
				model.FieldName, model.FieldRegNo, model.FieldDept, model.FieldYear, model.FieldMarks, "anomalies",
			},
		},
	}
}

// DecodeResponse parses the model's JSON answer. Unknown keys, a non-array
// payload or trailing data are schema violations.
func DecodeResponse(text string) ([]model.Student, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	dec := json.NewDecoder(strings.NewReader(text))
	dec.DisallowUnknownFields()
	var students []model.Student
	if err := dec.Decode(&students); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", model.ErrSchemaViolation, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after response", model.ErrSchemaViolation)
	}
	if students == nil {
		return nil, fmt.Errorf("%w: response is not a list", model.ErrSchemaViolation)
	}
	return students, nil
}
