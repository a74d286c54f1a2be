package service

import (
	"context"
	"fmt"

	"lingo_plan_backend/internal/model"
	"lingo_plan_backend/internal/repository"
	"lingo_plan_backend/internal/util"
	"lingo_plan_backend/pkg/logger"

	"go.uber.org/zap"
)

// QuizService 活动实例读取与延迟补题。排期时实例只带材料不带题面，
// 首次被请求时才调用补题工作流生成题目并回填。
type QuizService struct {
	QuizRepo      *repository.QuizRepository
	ActivityRepo  *repository.ActivityRepository
	IndicatorRepo *repository.IndicatorRepository
	Generation    *GenerationService
}

func NewQuizService(
	quizRepo *repository.QuizRepository,
	activityRepo *repository.ActivityRepository,
	indicatorRepo *repository.IndicatorRepository,
	generation *GenerationService,
) *QuizService {
	return &QuizService{
		QuizRepo:      quizRepo,
		ActivityRepo:  activityRepo,
		IndicatorRepo: indicatorRepo,
		Generation:    generation,
	}
}

// GetActivityInstances 按 ID 批量取活动实例，缺题面的先补全再返回。
// 补题是按批一次工作流调用；返回数量与生成数量不符视作生成失败。
func (s *QuizService) GetActivityInstances(ctx context.Context, ids []uint) ([]model.Quiz, error) {
	if len(ids) == 0 {
		return nil, util.ErrEmptyParams
	}

	quizzes, err := s.QuizRepo.FindByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrDataAccess, err)
	}
	if len(quizzes) == 0 {
		return nil, fmt.Errorf("%w: ids=%v", util.ErrQuizNotFound, ids)
	}

	var pending []int
	for i, q := range quizzes {
		if q.Question == "" {
			pending = append(pending, i)
		}
	}
	if len(pending) == 0 {
		return quizzes, nil
	}

	activities, indicators, err := s.lookupTemplates(quizzes, pending)
	if err != nil {
		return nil, err
	}

	quizData := make([]map[string]interface{}, 0, len(pending))
	for _, idx := range pending {
		q := quizzes[idx]
		data := map[string]interface{}{
			"quiz_id":       q.ID,
			"level":         q.Level,
			"material":      q.Material,
			"material_type": q.MaterialType,
			"lang":          q.Lang,
		}
		if act, ok := activities[q.ActivityID]; ok {
			data["act_title"] = act.ActivityTitle
			data["quiz_type"] = act.QuizType
			data["quiz_template"] = act.QuizTemplate
		}
		if ind, ok := indicators[q.IndicatorID]; ok {
			data["indicator"] = ind.Indicator
			data["indicator_category"] = ind.Category
		}
		quizData = append(quizData, data)
	}

	generated, err := s.Generation.GenerateQuizzes(ctx, quizData)
	if err != nil {
		return nil, err
	}
	if len(generated) != len(pending) {
		return nil, fmt.Errorf("%w: 补题数量不符，期望 %d 实际 %d",
			util.ErrGeneration, len(pending), len(generated))
	}

	// 回填题面，单条落库失败记日志但不回滚已成功的
	for i, idx := range pending {
		q := &quizzes[idx]
		q.Stem = generated[i].Material
		q.Question = generated[i].Question
		q.Options = generated[i].Options
		q.Explain = generated[i].Explain
		if err := s.QuizRepo.UpdateGenerated(q); err != nil {
			logger.Log.Warn("generated quiz persist failed",
				zap.Uint("quiz_id", q.ID), zap.Error(err))
		}
	}

	return quizzes, nil
}

func (s *QuizService) lookupTemplates(quizzes []model.Quiz, pending []int) (map[uint]model.Activity, map[uint]model.Indicator, error) {
	actIDSet := make(map[uint]bool)
	indIDSet := make(map[uint]bool)
	for _, idx := range pending {
		actIDSet[quizzes[idx].ActivityID] = true
		indIDSet[quizzes[idx].IndicatorID] = true
	}

	actIDs := make([]uint, 0, len(actIDSet))
	for id := range actIDSet {
		actIDs = append(actIDs, id)
	}
	indIDs := make([]uint, 0, len(indIDSet))
	for id := range indIDSet {
		indIDs = append(indIDs, id)
	}

	acts, err := s.ActivityRepo.FindByIDs(actIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", util.ErrDataAccess, err)
	}
	inds, err := s.IndicatorRepo.FindByIDs(indIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", util.ErrDataAccess, err)
	}

	actMap := make(map[uint]model.Activity, len(acts))
	for _, a := range acts {
		actMap[a.ID] = a
	}
	indMap := make(map[uint]model.Indicator, len(inds))
	for _, i := range inds {
		indMap[i.ID] = i
	}
	return actMap, indMap, nil
}
