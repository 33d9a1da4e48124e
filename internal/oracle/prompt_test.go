package oracle

import (
	"strings"
	"testing"

	"github.com/Shaizaan-Hussain/Student-Management-DashBoard/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPrompt(t *testing.T) {
	records := model.StripAnomalies(model.SeedStudents())

	prompt, err := RenderPrompt(records)
	require.NoError(t, err)

	assert.Contains(t, prompt, "You are a data quality expert.")
	assert.Equal(t, len(records), strings.Count(prompt, "Record:"))
	assert.Contains(t, prompt, "  Name: Com uter Science\n  RegNo: S005\n  Dept: Computer Science\n  Year: 2\n  Marks: 79\n")
	assert.Less(t, strings.Index(prompt, "RegNo: S001"), strings.Index(prompt, "RegNo: S005"), "records keep their order")
}

func TestRenderPromptEmpty(t *testing.T) {
	prompt, err := RenderPrompt(nil)
	require.NoError(t, err)
	assert.NotContains(t, prompt, "Record:")
}
