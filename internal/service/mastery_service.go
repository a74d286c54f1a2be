package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"lingo_plan_backend/internal/config"
	"lingo_plan_backend/internal/model"
	"lingo_plan_backend/internal/repository"
	"lingo_plan_backend/internal/util"
	"lingo_plan_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// MasteryService 升级资格评估：按指标权重计算掌握度总分、覆盖率与连续达标情况。
// 所有阈值来自显式传入的 SchedulerConfig，不依赖可变全局量。
type MasteryService struct {
	IndicatorRepo *repository.IndicatorRepository
	HistoryRepo   *repository.AbilityHistoryRepository
	Redis         *redis.Client
	Scheduler     config.SchedulerConfig
}

func NewMasteryService(
	indicatorRepo *repository.IndicatorRepository,
	historyRepo *repository.AbilityHistoryRepository,
	rdb *redis.Client,
	scheduler config.SchedulerConfig,
) *MasteryService {
	return &MasteryService{
		IndicatorRepo: indicatorRepo,
		HistoryRepo:   historyRepo,
		Redis:         rdb,
		Scheduler:     scheduler,
	}
}

// IndicatorScore 单个指标的达标明细
type IndicatorScore struct {
	IndicatorID     uint    `json:"indicatorId"`
	IndicatorName   string  `json:"indicatorName"`
	IndicatorWeight float64 `json:"indicatorWeight"`
	Minimum         int     `json:"minimum"`
	PracticeCount   int     `json:"practiceCount"`
	AvgScore        float64 `json:"avgScore"`
	IsQualified     bool    `json:"isQualified"`
	// PracticeGap 距最低练习次数还差多少次（前端展示“已练X次/需X次”）
	PracticeGap int `json:"practiceGap"`
}

type RecentPractice struct {
	PracticeCount7d  int        `json:"practiceCount7d"`
	PracticeCount30d int        `json:"practiceCount30d"`
	LastPracticeTime *time.Time `json:"lastPracticeTime"`
}

type UpgradeCheckResult struct {
	Score                     float64          `json:"score"`
	IsEligibleForUpgrade      bool             `json:"isEligibleForUpgrade"`
	CoreIndicatorCoverage     int              `json:"coreIndicatorCoverage"`
	CoreIndicatorDetails      []IndicatorScore `json:"coreIndicatorDetails"`
	ConsecutiveQualifiedCount int              `json:"consecutiveQualifiedCount"`
	RecentPractice            RecentPractice   `json:"recentPractice"`
	UpgradeGap                float64          `json:"upgradeGap"`
	Message                   string           `json:"message"`
}

// CheckForUpgrade 对单个学习者做一次完整的掌握度评估。
// validDays <= 0 时使用配置默认回看窗口。同样输入下结果是纯函数，
// 因此可以安全地用 Redis 做短 TTL 缓存。
func (s *MasteryService) CheckForUpgrade(ctx context.Context, userID uint, level int, validDays int) (*UpgradeCheckResult, error) {
	if validDays <= 0 {
		validDays = s.Scheduler.ValidDays
	}

	cacheKey := fmt.Sprintf("upgrade_check:%d:%d:%d", userID, level, validDays)
	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, cacheKey).Result(); err == nil {
			var result UpgradeCheckResult
			if json.Unmarshal([]byte(cached), &result) == nil {
				return &result, nil
			}
		}
	}

	// 步骤1：查询当前级别的核心指标
	indicators, err := s.IndicatorRepo.FindCoreByLevel(level, s.Scheduler.CoreWeightThreshold)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrDataAccess, err)
	}
	if len(indicators) == 0 {
		return nil, fmt.Errorf("%w: level %d", util.ErrNoIndicators, level)
	}

	now := time.Now()
	since := now.AddDate(0, 0, -validDays)

	// 步骤2：逐指标计算「平均得分+练习次数」，判断是否达标
	details := make([]IndicatorScore, 0, len(indicators))
	indicatorIDs := make([]uint, 0, len(indicators))
	for _, ind := range indicators {
		records, err := s.HistoryRepo.FindByUserAndIndicator(userID, ind.ID, since)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", util.ErrDataAccess, err)
		}
		details = append(details, scoreIndicator(ind, records, s.Scheduler.QualifiedThreshold))
		indicatorIDs = append(indicatorIDs, ind.ID)
	}

	// 步骤3：核心指标覆盖率
	coverage := coveragePercent(details)

	// 步骤4：加权总得分
	score := round2(weightedScore(details))

	// 步骤5：连续达标次数（全指标合并历史，时间倒序）
	allRecords, err := s.HistoryRepo.FindByUserAndIndicators(userID, indicatorIDs, since)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrDataAccess, err)
	}
	streak := consecutiveQualified(allRecords, s.Scheduler.QualifiedThreshold)

	// 步骤6：最近练习情况
	count7d, err := s.HistoryRepo.CountSince(userID, indicatorIDs, now.AddDate(0, 0, -7))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrDataAccess, err)
	}
	recent := RecentPractice{
		PracticeCount7d:  int(count7d),
		PracticeCount30d: len(allRecords),
	}
	if len(allRecords) > 0 {
		t := allRecords[0].CreatedAt
		recent.LastPracticeTime = &t
	}

	// 步骤7/8：升级差距与测试资格（总分达标 + 覆盖率≥80%）
	upgradeGap := round2(math.Max(0, s.Scheduler.UpgradeThreshold-score))
	eligible := score >= s.Scheduler.UpgradeThreshold && coverage >= 80

	result := &UpgradeCheckResult{
		Score:                     score,
		IsEligibleForUpgrade:      eligible,
		CoreIndicatorCoverage:     coverage,
		CoreIndicatorDetails:      details,
		ConsecutiveQualifiedCount: streak,
		RecentPractice:            recent,
		UpgradeGap:                upgradeGap,
		Message:                   upgradeMessage(eligible, details, coverage, upgradeGap, s.Scheduler),
	}

	if s.Redis != nil {
		if data, err := json.Marshal(result); err == nil {
			if err := s.Redis.Set(ctx, cacheKey, data, s.Scheduler.CacheTTL).Err(); err != nil {
				logger.Log.Warn("upgrade check cache write failed", zap.Error(err))
			}
		}
	}

	return result, nil
}

// scoreIndicator 单指标达标条件：平均得分≥阈值 AND 练习次数≥minimum。
// 没有任何记录时平均分按 0 计。
func scoreIndicator(ind model.Indicator, records []model.UserAbilityHistory, qualifiedThreshold float64) IndicatorScore {
	practiceCount := len(records)
	avgScore := 0.0
	if practiceCount > 0 {
		sum := 0.0
		for _, rec := range records {
			sum += rec.Score
		}
		avgScore = sum / float64(practiceCount)
	}

	gap := ind.Minimum - practiceCount
	if gap < 0 {
		gap = 0
	}

	return IndicatorScore{
		IndicatorID:     ind.ID,
		IndicatorName:   ind.Indicator,
		IndicatorWeight: ind.Weight,
		Minimum:         ind.Minimum,
		PracticeCount:   practiceCount,
		AvgScore:        round2(avgScore),
		IsQualified:     avgScore >= qualifiedThreshold && practiceCount >= ind.Minimum,
		PracticeGap:     gap,
	}
}

// weightedScore 仅计入达标指标的得分，未达标指标分子按 0 计但权重仍进分母，
// 避免「次数不够但分数高」拉高总分。这是刻意的策略选择。
func weightedScore(details []IndicatorScore) float64 {
	totalWeight := 0.0
	sum := 0.0
	for _, d := range details {
		totalWeight += d.IndicatorWeight
		if d.IsQualified {
			sum += d.AvgScore * d.IndicatorWeight
		}
	}
	if totalWeight <= 0 {
		return 0
	}
	return sum / totalWeight
}

// coveragePercent 有练习数据的核心指标占比，四舍五入为整数百分比
func coveragePercent(details []IndicatorScore) int {
	if len(details) == 0 {
		return 0
	}
	covered := 0
	for _, d := range details {
		if d.PracticeCount > 0 {
			covered++
		}
	}
	return int(math.Round(float64(covered) / float64(len(details)) * 100))
}

// consecutiveQualified 从最近一次练习开始，统计连续「单条得分≥阈值」的记录数，
// 遇到第一条不达标记录即中断。records 必须已按时间倒序。
func consecutiveQualified(records []model.UserAbilityHistory, threshold float64) int {
	count := 0
	for _, rec := range records {
		if rec.Score < threshold {
			break
		}
		count++
	}
	return count
}

func upgradeMessage(eligible bool, details []IndicatorScore, coverage int, upgradeGap float64, cfg config.SchedulerConfig) string {
	if eligible {
		return "你已满足升级测试条件！点击参与测试，解锁更高级别～"
	}

	var unmet []IndicatorScore
	for _, d := range details {
		if !d.IsQualified {
			unmet = append(unmet, d)
		}
	}
	if len(unmet) == 0 {
		return fmt.Sprintf("核心指标覆盖率不足（当前 %d%%，需≥80%%），继续练习解锁更多指标～", coverage)
	}

	countGap := 0
	scoreGap := 0
	for _, d := range unmet {
		if d.PracticeGap > 0 {
			countGap++
		} else if d.AvgScore < cfg.QualifiedThreshold {
			scoreGap++
		}
	}

	msg := ""
	if countGap > 0 {
		msg += fmt.Sprintf("有 %d 个指标练习次数不足（需累计 %d 次），", countGap, unmet[0].Minimum)
	}
	if scoreGap > 0 {
		msg += fmt.Sprintf("有 %d 个指标平均得分未达标（需≥%.2f），", scoreGap, cfg.QualifiedThreshold)
	}
	msg += fmt.Sprintf("还需提升 %.2f 分才能参与升级测试", upgradeGap)
	return msg
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
