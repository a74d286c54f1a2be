package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"time"

	"lingo_plan_backend/internal/config"
	"lingo_plan_backend/internal/model"
	"lingo_plan_backend/internal/repository"
	"lingo_plan_backend/internal/util"
	"lingo_plan_backend/pkg/logger"

	"go.uber.org/zap"
)

// 一套升级测评的题目总数
const examQuestionCount = 10

// ExamService 升级测评出题：按核心指标权重分配题量，为每题随机配一个
// 能训练到该指标类别的活动，再交给测评工作流生成题面。
type ExamService struct {
	IndicatorRepo  *repository.IndicatorRepository
	ActivityRepo   *repository.ActivityRepository
	EvaluationRepo *repository.EvaluationRepository
	Generation     *GenerationService
	Scheduler      config.SchedulerConfig

	NewRand func() *rand.Rand
}

func NewExamService(
	indicatorRepo *repository.IndicatorRepository,
	activityRepo *repository.ActivityRepository,
	evaluationRepo *repository.EvaluationRepository,
	generation *GenerationService,
	scheduler config.SchedulerConfig,
) *ExamService {
	return &ExamService{
		IndicatorRepo:  indicatorRepo,
		ActivityRepo:   activityRepo,
		EvaluationRepo: evaluationRepo,
		Generation:     generation,
		Scheduler:      scheduler,
		NewRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
}

type ExamQuestion struct {
	EvaluationID uint            `json:"evaluation_id"`
	IndicatorID  uint            `json:"indicator_id"`
	Stem         string          `json:"stem"`
	Question     string          `json:"question"`
	Options      json.RawMessage `json:"options"`
	Lang         string          `json:"lang"`
}

// GenerateExam 为指定级别生成一套升级测评并入库。
// 权重越高的指标分到的题越多，每个核心指标至少一题。
func (s *ExamService) GenerateExam(ctx context.Context, userID uint, level int, lang string) ([]ExamQuestion, error) {
	indicators, err := s.IndicatorRepo.FindCoreByLevel(level, s.Scheduler.CoreWeightThreshold)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrDataAccess, err)
	}
	if len(indicators) == 0 {
		return nil, fmt.Errorf("%w: level %d", util.ErrNoIndicators, level)
	}

	activities, err := s.ActivityRepo.FindAvailable()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrDataAccess, err)
	}

	rng := s.NewRand()
	pairs, err := pairIndicatorActivities(indicators, activities, examQuestionCount, rng)
	if err != nil {
		return nil, err
	}

	if lang == "" {
		lang = "en"
	}
	actData := make([]map[string]interface{}, 0, len(pairs))
	for _, p := range pairs {
		actData = append(actData, map[string]interface{}{
			"level":              level,
			"lang":               lang,
			"indicator":          p.indicator.Indicator,
			"indicator_category": p.indicator.Category,
			"act_title":          p.activity.ActivityTitle,
			"quiz_type":          p.activity.QuizType,
			"quiz_template":      p.activity.QuizTemplate,
		})
	}

	generated, err := s.Generation.GenerateExam(ctx, actData)
	if err != nil {
		return nil, err
	}
	if len(generated) == 0 {
		return nil, fmt.Errorf("%w: 测评工作流未返回题目", util.ErrGeneration)
	}

	evaluations := make([]*model.Evaluation, 0, len(generated))
	for i, g := range generated {
		eval := &model.Evaluation{
			Level:    level,
			Stem:     g.Material,
			Question: g.Question,
			Options:  g.Options,
			Explain:  g.Explain,
			Lang:     lang,
		}
		if i < len(pairs) {
			eval.IndicatorID = pairs[i].indicator.ID
			eval.ActivityID = pairs[i].activity.ID
		}
		evaluations = append(evaluations, eval)
	}
	if err := s.EvaluationRepo.CreateBatch(evaluations); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrDataAccess, err)
	}

	logger.Log.Info("upgrade exam generated",
		zap.Uint("user_id", userID),
		zap.Int("level", level),
		zap.Int("questions", len(evaluations)))

	questions := make([]ExamQuestion, 0, len(evaluations))
	for _, eval := range evaluations {
		questions = append(questions, ExamQuestion{
			EvaluationID: eval.ID,
			IndicatorID:  eval.IndicatorID,
			Stem:         eval.Stem,
			Question:     eval.Question,
			Options:      eval.Options,
			Lang:         eval.Lang,
		})
	}
	return questions, nil
}

type examPair struct {
	indicator model.Indicator
	activity  model.Activity
}

// pairIndicatorActivities 按权重比例给各指标分配题量（向上取整后超出
// 总数的从权重最低的指标往回扣），再为每题随机挑一个类别匹配的活动。
func pairIndicatorActivities(indicators []model.Indicator, activities []model.Activity, total int, rng *rand.Rand) ([]examPair, error) {
	byCategory := make(map[string][]model.Activity)
	for _, act := range activities {
		for _, cat := range act.IndicatorCats {
			byCategory[cat] = append(byCategory[cat], act)
		}
	}

	totalWeight := 0.0
	for _, ind := range indicators {
		totalWeight += ind.Weight
	}
	if totalWeight <= 0 {
		return nil, fmt.Errorf("%w: 指标总权重为零", util.ErrNoIndicators)
	}

	counts := make([]int, len(indicators))
	assigned := 0
	for i, ind := range indicators {
		counts[i] = int(math.Max(1, math.Ceil(float64(total)*ind.Weight/totalWeight)))
		assigned += counts[i]
	}
	// indicators 已按权重降序，从尾部扣减多余题量
	for i := len(counts) - 1; i >= 0 && assigned > total; i-- {
		for counts[i] > 1 && assigned > total {
			counts[i]--
			assigned--
		}
	}

	var pairs []examPair
	for i, ind := range indicators {
		matched := byCategory[ind.Category]
		if len(matched) == 0 {
			return nil, fmt.Errorf("%w: 指标类别 %s 没有可用活动", util.ErrNoCandidateActivities, ind.Category)
		}
		for j := 0; j < counts[i]; j++ {
			pairs = append(pairs, examPair{
				indicator: ind,
				activity:  matched[rng.Intn(len(matched))],
			})
		}
	}
	return pairs, nil
}
