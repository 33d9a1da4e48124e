package oracle

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Shaizaan-Hussain/Student-Management-DashBoard/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func fakeGemini(t *testing.T, answer string, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, ":generateContent"), r.URL.Path)
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.Contains(t, string(body), "RegNo: S005")
		assert.Contains(t, string(body), "application/json")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = io.WriteString(w, `{"error":{"code":503,"message":"overloaded","status":"UNAVAILABLE"}}`)
			return
		}
		resp := map[string]interface{}{
			"candidates": []map[string]interface{}{{
				"content": map[string]interface{}{
					"role":  "model",
					"parts": []map[string]string{{"text": answer}},
				},
				"finishReason": "STOP",
			}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestOracle(t *testing.T, baseURL string) *GeminiOracle {
	t.Helper()
	o, err := NewGeminiOracle(context.Background(), GeminiConfig{
		APIKey:  "test-key",
		BaseURL: baseURL + "/",
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	return o
}

func TestGeminiOracleReview(t *testing.T) {
	records := model.StripAnomalies(model.SeedStudents())
	answer := make([]model.Student, len(records))
	for i, r := range records {
		answer[i] = model.Student{StudentRecord: r}
	}
	answer[4].Anomalies = []model.Anomaly{{Field: model.FieldName, IsAnomalous: true, SuggestedFix: "Unknown Student"}}
	data, err := json.Marshal(answer)
	require.NoError(t, err)

	srv := fakeGemini(t, string(data), http.StatusOK)
	got, err := newTestOracle(t, srv.URL).Review(context.Background(), records)
	require.NoError(t, err)

	assert.Equal(t, answer, got)
}

func TestGeminiOracleMalformedAnswer(t *testing.T) {
	srv := fakeGemini(t, "Sorry, I cannot help with that.", http.StatusOK)
	records := model.StripAnomalies(model.SeedStudents())

	_, err := newTestOracle(t, srv.URL).Review(context.Background(), records)
	assert.ErrorIs(t, err, model.ErrSchemaViolation)
}

func TestGeminiOracleUpstreamError(t *testing.T) {
	srv := fakeGemini(t, "", http.StatusServiceUnavailable)
	records := model.StripAnomalies(model.SeedStudents())

	_, err := newTestOracle(t, srv.URL).Review(context.Background(), records)
	assert.Error(t, err)
}

func TestNewGeminiOracleRequiresKey(t *testing.T) {
	_, err := NewGeminiOracle(context.Background(), GeminiConfig{}, zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestGeminiOracleDefaultModel(t *testing.T) {
	o := newTestOracle(t, "http://127.0.0.1:0")
	assert.Equal(t, "gemini:"+DefaultModel, o.Name())
}
