package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"lingo_plan_backend/internal/model"
	"lingo_plan_backend/internal/repository"
	"lingo_plan_backend/internal/util"
	"lingo_plan_backend/pkg/logger"
	"lingo_plan_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ActivityCatalog 候选活动目录：默认取全部上架活动，调用方给出
// 允许清单时按清单查询
type ActivityCatalog interface {
	FindAvailable() ([]model.Activity, error)
	FindByIDs(ids []uint) ([]model.Activity, error)
}

// PlanService 周计划编排：聚焦指标 → 材料量化 → 材料生成 → 活动分配 → 装箱排期 → 落库
type PlanService struct {
	DB            *gorm.DB
	IndicatorRepo *repository.IndicatorRepository
	ActivityRepo  ActivityCatalog
	MaterialRepo  *repository.MaterialRepository
	QuizRepo      *repository.QuizRepository
	PracticeRepo  *repository.PracticeRepository
	PlanRepo      *repository.PlanRepository
	ScoreRepo     *repository.ScoreRecordRepository
	Generation    *GenerationService
	Storage       *StorageService

	// NewRand 每次建计划取一个新的随机源，测试注入固定种子即可复现
	NewRand func() *rand.Rand
}

func NewPlanService(
	db *gorm.DB,
	indicatorRepo *repository.IndicatorRepository,
	activityRepo ActivityCatalog,
	materialRepo *repository.MaterialRepository,
	quizRepo *repository.QuizRepository,
	practiceRepo *repository.PracticeRepository,
	planRepo *repository.PlanRepository,
	scoreRepo *repository.ScoreRecordRepository,
	generation *GenerationService,
	storage *StorageService,
) *PlanService {
	return &PlanService{
		DB:            db,
		IndicatorRepo: indicatorRepo,
		ActivityRepo:  activityRepo,
		MaterialRepo:  materialRepo,
		QuizRepo:      quizRepo,
		PracticeRepo:  practiceRepo,
		PlanRepo:      planRepo,
		ScoreRepo:     scoreRepo,
		Generation:    generation,
		Storage:       storage,
		NewRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
}

type CreatePlanRequest struct {
	IndicatorIDs []uint `json:"indicator_ids" binding:"required,min=1"`
	// ActivityIDs 候选活动允许清单，为空时使用全部上架活动
	ActivityIDs   []uint `json:"activity_ids"`
	TotalDuration int    `json:"total_duration"` // 每周总学习时长（分钟），缺省 60
	Lang          string `json:"lang"`
}

type PlanResult struct {
	PlanID      uint      `json:"plan_id"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Level       int       `json:"level"`
	TopicTitle  string    `json:"topic_title"`
	Days        []DayPlan `json:"days"`
	SnapshotURL string    `json:"snapshot_url,omitempty"`
}

// CreatePlan 依据聚焦指标生成并持久化一份周学习计划。
// 材料生成失败会中止整个流程；复习内容与历史材料查询失败只降级为空，
// 不阻断建计划。
func (s *PlanService) CreatePlan(ctx context.Context, userID uint, req *CreatePlanRequest) (*PlanResult, error) {
	start := time.Now()
	result, err := s.createPlan(ctx, userID, req)

	status := "success"
	if err != nil {
		status = "error"
	}
	monitoring.PlanBuildCounter.WithLabelValues(status).Inc()
	monitoring.PlanBuildDuration.Observe(time.Since(start).Seconds())
	return result, err
}

func (s *PlanService) createPlan(ctx context.Context, userID uint, req *CreatePlanRequest) (*PlanResult, error) {
	indicators, err := s.IndicatorRepo.FindByIDs(req.IndicatorIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrDataAccess, err)
	}
	if len(indicators) == 0 {
		return nil, fmt.Errorf("%w: 未找到聚焦指标", util.ErrNoIndicators)
	}

	focus := make([]PlanIndicator, 0, len(indicators))
	levelSum := 0
	for _, ind := range indicators {
		focus = append(focus, PlanIndicator{Indicator: ind})
		levelSum += ind.Level
	}
	// 跨级别聚焦时取平均级别
	level := int(math.Round(float64(levelSum) / float64(len(indicators))))

	totalDuration := req.TotalDuration
	if totalDuration <= 0 {
		totalDuration = 60
	}
	lang := req.Lang
	if lang == "" {
		lang = "en"
	}

	// 步骤1：按指标权重折算各类型材料数量
	quantities := MaterialQuantities(focus, totalDuration)

	// 步骤2：挑选低分旧材料作为复习内容，查询失败不阻断
	review := s.collectReviewItems(userID, level, quantities)

	// 步骤3：汇总历史材料供生成端去重
	existing := s.collectExistingMaterial(userID, level)

	// 步骤4：调用工作流生成本周材料，失败则整体中止
	bundle, err := s.Generation.GenerateMaterials(ctx, &MaterialRequest{
		UserID:      userID,
		Level:       level,
		Lang:        lang,
		Quantities:  quantities,
		ReviewItems: review,
		Existing:    existing,
	})
	if err != nil {
		return nil, err
	}

	pools := TidyMaterials(bundle)
	totalStudyTime := studyTimeForLevel(level, totalDuration)

	// 步骤5：候选活动加权分配
	activities, err := s.loadCandidateActivities(req.ActivityIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrDataAccess, err)
	}
	entries, err := BuildAllocation(activities, focus, pools, float64(totalStudyTime))
	if err != nil {
		return nil, err
	}

	// 步骤6：装箱排期
	dayCount := DaysForLevel(level)
	days, err := BuildWeeklyPlan(entries, pools, float64(totalStudyTime), dayCount, s.NewRand())
	if err != nil {
		return nil, err
	}

	// 快照归档尽力而为，失败只记日志
	snapshotURL := ""
	if s.Storage != nil {
		if url, err := s.Storage.ArchiveSnapshot(ctx, userID, days); err == nil {
			snapshotURL = url
		} else {
			logger.Log.Warn("plan snapshot archive failed",
				zap.Uint("user_id", userID), zap.Error(err))
		}
	}

	plan, err := s.persistPlan(userID, level, lang, dayCount, bundle, days, req.IndicatorIDs, snapshotURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrDataAccess, err)
	}

	logger.Log.Info("weekly plan created",
		zap.Uint("user_id", userID),
		zap.Uint("plan_id", plan.ID),
		zap.Int("level", level),
		zap.Int("days", len(days)))

	return &PlanResult{
		PlanID:      plan.ID,
		StartDate:   plan.StartDate,
		EndDate:     plan.EndDate,
		Level:       level,
		TopicTitle:  bundle.TopicTitle,
		Days:        days,
		SnapshotURL: snapshotURL,
	}, nil
}

// loadCandidateActivities 允许清单非空时按清单取活动，否则取全部上架活动
func (s *PlanService) loadCandidateActivities(activityIDs []uint) ([]model.Activity, error) {
	if len(activityIDs) > 0 {
		return s.ActivityRepo.FindByIDs(activityIDs)
	}
	return s.ActivityRepo.FindAvailable()
}

// collectReviewItems 从历史得分记录里挑低分旧材料。复习配额随级别上升：
// 数量 = round(该类型生成量 × (级别×0.4/9 + 0.3))，低分（<0.6）者优先。
func (s *PlanService) collectReviewItems(userID uint, level int, quantities map[string]int) ReviewItems {
	ratio := float64(level)*0.4/9 + 0.3
	review := ReviewItems{}

	pick := func(category string, quota int) []string {
		if quota <= 0 {
			return nil
		}
		records, err := s.ScoreRepo.FindByUserAndCategories(userID, []string{category})
		if err != nil {
			logger.Log.Warn("review item lookup failed",
				zap.String("category", category), zap.Error(err))
			return nil
		}
		var weak []model.UserScoreRecord
		for _, rec := range records {
			if rec.Score < 0.6 {
				weak = append(weak, rec)
			}
		}
		sort.SliceStable(weak, func(i, j int) bool {
			return weak[i].Score > weak[j].Score
		})
		if len(weak) > quota {
			weak = weak[:quota]
		}
		items := make([]string, 0, len(weak))
		for _, rec := range weak {
			items = append(items, rec.Item)
		}
		return items
	}

	review.Chars = pick(model.MaterialCharacter, int(math.Round(float64(quantities[model.MaterialCharacter])*ratio)))
	review.Words = pick(model.MaterialWord, int(math.Round(float64(quantities[model.MaterialWord])*ratio)))
	return review
}

// collectExistingMaterial 汇总该级别下已生成过的字词与主题，供生成端去重
func (s *PlanService) collectExistingMaterial(userID uint, level int) map[string][]string {
	existing := map[string][]string{
		"chars":        {},
		"words":        {},
		"topic_tags":   {},
		"culture_tags": {},
	}
	materials, err := s.MaterialRepo.FindByUserAndLevel(userID, level)
	if err != nil {
		logger.Log.Warn("existing material lookup failed", zap.Error(err))
		return existing
	}
	seen := make(map[string]map[string]bool)
	add := func(key string, items ...string) {
		if seen[key] == nil {
			seen[key] = make(map[string]bool)
		}
		for _, item := range items {
			if item == "" || seen[key][item] {
				continue
			}
			seen[key][item] = true
			existing[key] = append(existing[key], item)
		}
	}
	for _, m := range materials {
		add("chars", m.Chars...)
		add("words", m.Words...)
		add("topic_tags", m.TopicTag)
		add("culture_tags", m.CultureTag)
	}
	return existing
}

// persistPlan 在单个事务里落库：材料包、每天的活动实例、练习日、周计划
func (s *PlanService) persistPlan(userID uint, level int, lang string, dayCount int, bundle *MaterialBundle, days []DayPlan, indicatorIDs []uint, snapshotURL string) (*model.UserWeeklyPlan, error) {
	snapshot, err := json.Marshal(bundle)
	if err != nil {
		return nil, err
	}

	var plan *model.UserWeeklyPlan
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		material := &model.UserMaterial{
			UserID:      userID,
			Level:       level,
			Chars:       bundle.CharsNew,
			CharsReview: bundle.CharsReview,
			Words:       bundle.WordsNew,
			WordsReview: bundle.WordsReview,
			Syllables:   bundle.Syllables,
			Grammars:    bundle.Grammars,
			Sentences:   bundle.Sentences,
			Dialogs:     bundle.Dialogs,
			Paragraphs:  bundle.Paragraphs,
			TopicTag:    bundle.TopicTag,
			CultureTag:  bundle.CultureTag,
			TopicTitle:  bundle.TopicTitle,
		}
		if err := s.MaterialRepo.Create(tx, material); err != nil {
			return err
		}

		practiceIDs := make(model.UintList, 0, len(days))
		for _, day := range days {
			quizzes := make([]*model.Quiz, 0, len(day))
			for _, act := range day {
				quizzes = append(quizzes, &model.Quiz{
					IndicatorID:  act.IndicatorID,
					ActivityID:   act.ActivityID,
					Level:        act.Level,
					Material:     act.Material.Content,
					MaterialType: act.Material.Type,
					TopicTag:     bundle.TopicTag,
					CultureTag:   bundle.CultureTag,
					Lang:         lang,
				})
			}
			if err := s.QuizRepo.CreateBatch(tx, quizzes); err != nil {
				return err
			}

			quizIDs := make(model.UintList, 0, len(quizzes))
			for _, q := range quizzes {
				quizIDs = append(quizIDs, q.ID)
			}
			practice := &model.UserPractice{Quizzes: quizIDs, Lang: lang}
			if err := s.PracticeRepo.CreateBatch(tx, []*model.UserPractice{practice}); err != nil {
				return err
			}
			practiceIDs = append(practiceIDs, practice.ID)
		}

		now := time.Now()
		plan = &model.UserWeeklyPlan{
			UserID:           userID,
			StartDate:        now,
			EndDate:          now.AddDate(0, 0, dayCount),
			TargetIndicators: indicatorIDs,
			Practices:        practiceIDs,
			TargetMaterial:   material.ID,
			MaterialSnapshot: snapshot,
			TopicTitle:       bundle.TopicTitle,
			Level:            level,
			SnapshotURL:      snapshotURL,
		}
		return s.PlanRepo.Create(tx, plan)
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// LatestPlan 学习者最近一份周计划
func (s *PlanService) LatestPlan(userID uint) (*model.UserWeeklyPlan, error) {
	plan, err := s.PlanRepo.FindLatestByUser(userID)
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// GetPlan 按 ID 查询周计划，只允许访问自己的计划
func (s *PlanService) GetPlan(planID, userID uint) (*model.UserWeeklyPlan, error) {
	return s.PlanRepo.FindByIDAndUser(planID, userID)
}
