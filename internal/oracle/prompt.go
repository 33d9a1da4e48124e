package oracle

import (
	"strings"
	"text/template"

	"github.com/Shaizaan-Hussain/Student-Management-DashBoard/internal/model"
)

const reviewPromptText = `You are a data quality expert. You are given a list of student records.

For each student record, analyze the 'Name' and 'Dept' fields to identify potential anomalies.
Anomalies are defined as values that share a lot of character sequences (long or repeated) with the other values in the column,
or that look like they belong to another column (for example a Name that reads like a department).

For each field in each record, determine if it is anomalous and set the 'isAnomalous' flag accordingly.

If a field is anomalous, suggest a possible correction in the 'suggestedFix' field. If a field is not anomalous, do not populate the 'suggestedFix' field.

Return every record, in the order given, with its original values and the anomaly flags and suggestions.

Here are the student records:
{{range .}}
Record:
  Name: {{.Name}}
  RegNo: {{.RegNo}}
  Dept: {{.Dept}}
  Year: {{.Year}}
  Marks: {{.Marks}}
{{end}}`

var reviewPrompt = template.Must(template.New("review").Parse(reviewPromptText))

// RenderPrompt fills the review prompt with records.
func RenderPrompt(records []model.StudentRecord) (string, error) {
	var b strings.Builder
	if err := reviewPrompt.Execute(&b, records); err != nil {
		return "", err
	}
	return b.String(), nil
}
