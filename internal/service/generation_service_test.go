package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lingo_plan_backend/internal/config"
	"lingo_plan_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	testInitLogger()
}

func newTestGeneration(baseURL string) *GenerationService {
	return NewGenerationService(config.CozeConfig{
		BaseURL:            baseURL,
		Token:              "test-token",
		MaterialWorkflowID: "wf-material",
		QuizWorkflowID:     "wf-quiz",
		ExamWorkflowID:     "wf-exam",
		Timeout:            5 * time.Second,
	})
}

func workflowOK(t *testing.T, output interface{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/workflow/run", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var req struct {
			WorkflowID string                 `json:"workflow_id"`
			Parameters map[string]interface{} `json:"parameters"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.NotEmpty(t, req.WorkflowID)

		data, err := json.Marshal(map[string]interface{}{"output": output})
		require.NoError(t, err)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"code": 0,
			"msg":  "success",
			"data": string(data),
		})
	}
}

func TestGenerateMaterials(t *testing.T) {
	srv := httptest.NewServer(workflowOK(t, MaterialBundle{
		CharsNew:   []string{"你", "好"},
		WordsNew:   []string{"你好"},
		TopicTag:   "greeting",
		TopicTitle: "打招呼",
	}))
	defer srv.Close()

	svc := newTestGeneration(srv.URL)
	bundle, err := svc.GenerateMaterials(context.Background(), &MaterialRequest{
		UserID: 1, Level: 2, Lang: "en",
		Quantities: map[string]int{"character": 2, "word": 1},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"你", "好"}, bundle.CharsNew)
	assert.Equal(t, "打招呼", bundle.TopicTitle)
	// 工作流未回填级别时沿用请求的级别
	assert.Equal(t, 2, bundle.Level)
}

func TestGenerateMaterialsWorkflowError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"code": 4000,
			"msg":  "workflow not found",
		})
	}))
	defer srv.Close()

	svc := newTestGeneration(srv.URL)
	_, err := svc.GenerateMaterials(context.Background(), &MaterialRequest{UserID: 1, Level: 1})
	assert.ErrorIs(t, err, util.ErrGeneration)
	assert.Contains(t, err.Error(), "workflow not found")
}

func TestGenerateMaterialsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))
	defer srv.Close()

	svc := newTestGeneration(srv.URL)
	_, err := svc.GenerateMaterials(context.Background(), &MaterialRequest{UserID: 1, Level: 1})
	assert.ErrorIs(t, err, util.ErrGeneration)
}

func TestGenerateQuizzes(t *testing.T) {
	srv := httptest.NewServer(workflowOK(t, []GeneratedQuiz{
		{Material: "你", Question: "这个字怎么读？", Options: json.RawMessage(`["nǐ","hǎo"]`), Explain: "……"},
	}))
	defer srv.Close()

	svc := newTestGeneration(srv.URL)
	quizzes, err := svc.GenerateQuizzes(context.Background(), []map[string]interface{}{
		{"quiz_id": 1, "material": "你"},
	})
	require.NoError(t, err)
	require.Len(t, quizzes, 1)
	assert.Equal(t, "这个字怎么读？", quizzes[0].Question)
}

func TestGenerateExamMissingWorkflowID(t *testing.T) {
	svc := NewGenerationService(config.CozeConfig{BaseURL: "http://127.0.0.1:0"})
	_, err := svc.GenerateExam(context.Background(), nil)
	assert.ErrorIs(t, err, util.ErrGeneration)
}
