package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"lingo_plan_backend/internal/config"
	"lingo_plan_backend/internal/util"
	"lingo_plan_backend/pkg/logger"

	"go.uber.org/zap"
)

// MaterialBundle 材料生成工作流的产出：按类型分桶的本周学习材料
type MaterialBundle struct {
	CharsNew    []string `json:"chars_new"`
	CharsReview []string `json:"chars_review"`
	WordsNew    []string `json:"words_new"`
	WordsReview []string `json:"words_review"`
	Syllables   []string `json:"syllables"`
	Grammars    []string `json:"grammars"`
	Sentences   []string `json:"sentences"`
	Dialogs     []string `json:"dialogs"`
	Paragraphs  []string `json:"paragraphs"`
	TopicTag    string   `json:"topic_tag"`
	CultureTag  string   `json:"culture_tag"`
	TopicTitle  string   `json:"topic_title"`
	Level       int      `json:"level"`
}

// ReviewItems 低分旧材料，生成时混入复习配额
type ReviewItems struct {
	Chars []string `json:"chars"`
	Words []string `json:"words"`
}

// MaterialRequest 材料生成工作流入参
type MaterialRequest struct {
	UserID      uint                `json:"user_id"`
	Level       int                 `json:"level"`
	Lang        string              `json:"lang"`
	Quantities  map[string]int      `json:"quantities"`
	ReviewItems ReviewItems         `json:"review_items"`
	Existing    map[string][]string `json:"existing_material"`
}

// GeneratedQuiz 补题工作流为单个活动实例产出的题目
type GeneratedQuiz struct {
	Material string          `json:"material"`
	Question string          `json:"question"`
	Options  json.RawMessage `json:"options"`
	Explain  string          `json:"explain"`
}

// GenerationService 调用 Coze 工作流生成学习材料与题目。
// BaseURL 可配置，测试时指向 httptest 服务即可。
type GenerationService struct {
	Coze   config.CozeConfig
	Client *http.Client
}

func NewGenerationService(coze config.CozeConfig) *GenerationService {
	timeout := coze.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &GenerationService{
		Coze:   coze,
		Client: &http.Client{Timeout: timeout},
	}
}

// GenerateMaterials 生成本周学习材料包。失败时整个建计划流程必须中止，
// 没有材料的周计划是无效计划。
func (s *GenerationService) GenerateMaterials(ctx context.Context, req *MaterialRequest) (*MaterialBundle, error) {
	var bundle MaterialBundle
	params := map[string]interface{}{
		"user_id":           req.UserID,
		"level":             req.Level,
		"lang":              req.Lang,
		"quantities":        req.Quantities,
		"review_items":      req.ReviewItems,
		"existing_material": req.Existing,
	}
	if err := s.runWorkflow(ctx, s.Coze.MaterialWorkflowID, params, &bundle); err != nil {
		return nil, fmt.Errorf("%w: 材料生成失败: %v", util.ErrGeneration, err)
	}
	if bundle.Level == 0 {
		bundle.Level = req.Level
	}
	return &bundle, nil
}

// GenerateQuizzes 为一批活动实例补全题目，quizData 为工作流约定的实例描述
func (s *GenerationService) GenerateQuizzes(ctx context.Context, quizData []map[string]interface{}) ([]GeneratedQuiz, error) {
	var quizzes []GeneratedQuiz
	params := map[string]interface{}{
		"quiz_data": quizData,
	}
	if err := s.runWorkflow(ctx, s.Coze.QuizWorkflowID, params, &quizzes); err != nil {
		return nil, fmt.Errorf("%w: 题目生成失败: %v", util.ErrGeneration, err)
	}
	return quizzes, nil
}

// GenerateExam 为升级测评生成整套题目，actData 为按指标抽取的活动描述
func (s *GenerationService) GenerateExam(ctx context.Context, actData []map[string]interface{}) ([]GeneratedQuiz, error) {
	var quizzes []GeneratedQuiz
	params := map[string]interface{}{
		"act_data": actData,
	}
	if err := s.runWorkflow(ctx, s.Coze.ExamWorkflowID, params, &quizzes); err != nil {
		return nil, fmt.Errorf("%w: 测评题目生成失败: %v", util.ErrGeneration, err)
	}
	return quizzes, nil
}

type workflowResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data string `json:"data"`
}

// runWorkflow 执行单次工作流调用。Coze 的 data 字段是再编码过的 JSON 字符串，
// 业务载荷在其 output 键下。
func (s *GenerationService) runWorkflow(ctx context.Context, workflowID string, parameters map[string]interface{}, out interface{}) error {
	if workflowID == "" {
		return fmt.Errorf("工作流 ID 未配置")
	}

	body, err := json.Marshal(map[string]interface{}{
		"workflow_id": workflowID,
		"parameters":  parameters,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Coze.BaseURL+"/v1/workflow/run", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.Coze.Token)

	start := time.Now()
	resp, err := s.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("工作流返回 HTTP %d: %s", resp.StatusCode, string(raw))
	}

	var wrapper workflowResponse
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return fmt.Errorf("响应解析失败: %v", err)
	}
	if wrapper.Code != 0 {
		return fmt.Errorf("工作流执行失败 code=%d: %s", wrapper.Code, wrapper.Msg)
	}

	var payload struct {
		Output json.RawMessage `json:"output"`
	}
	if err := json.Unmarshal([]byte(wrapper.Data), &payload); err != nil {
		return fmt.Errorf("data 字段解析失败: %v", err)
	}
	if len(payload.Output) == 0 {
		return fmt.Errorf("工作流未返回 output")
	}
	if err := json.Unmarshal(payload.Output, out); err != nil {
		return fmt.Errorf("output 解析失败: %v", err)
	}

	logger.Log.Info("workflow run completed",
		zap.String("workflow_id", workflowID),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}
