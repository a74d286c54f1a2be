package service

import (
	"fmt"
	"math"
	"math/rand"

	"lingo_plan_backend/internal/util"
)

// DaysForLevel 每周练习天数：1-3 级 6 天，4-6 级 9 天，7-9 级 12 天
func DaysForLevel(level int) int {
	switch {
	case level <= 3:
		return 6
	case level <= 6:
		return 9
	default:
		return 12
	}
}

type ScheduledMaterial struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// ScheduledActivity 排进某一天的一次具体练习
type ScheduledActivity struct {
	Level         int               `json:"level"`
	ActivityID    uint              `json:"activity_id"`
	ActivityTitle string            `json:"act_title"`
	QuizType      string            `json:"act_category"`
	IndicatorID   uint              `json:"indicator_id"`
	Material      ScheduledMaterial `json:"materials"`
	TimeCost      int               `json:"time_cost"`
}

type DayPlan []ScheduledActivity

// BuildWeeklyPlan 把权重化的活动池展开为具体实例并装箱到各天。
//
// 实例数 = ceil(周总时长×权重/Σ权重/活动耗时×60)；实例列表用注入的随机源
// 洗牌后贪心装箱：累计空闲时间装不下当前实例且还有天数配额时开新的一天，
// 否则追加到最近开的那天——后到的实例可能让某天超出日上限，这是接受的
// 溢出而不做回填修正。材料按最少使用优先轮换，保证重复出现前材料尽量
// 不重样。用量计数只存活于一次装箱调用内。
//
// 随机源由调用方注入：生产传真实熵源，测试传固定种子即可复现排期。
func BuildWeeklyPlan(entries []AllocationEntry, pools []MaterialPool, totalStudyTime float64, dayCount int, rng *rand.Rand) ([]DayPlan, error) {
	if dayCount <= 0 || len(entries) == 0 {
		return nil, fmt.Errorf("%w: 无可排期的活动", util.ErrNoCandidateActivities)
	}

	// 活动耗时单位是秒，周总时长单位是分钟
	dailyCap := totalStudyTime / float64(dayCount) * 60

	totalWeight := 0.0
	for _, e := range entries {
		totalWeight += e.Weight
	}
	if totalWeight <= 0 {
		return nil, fmt.Errorf("%w: 活动总权重为零", util.ErrNoCandidateActivities)
	}

	// 按权重展开为本周的活动实例列表
	var instances []CandidateActivity
	for _, e := range entries {
		if e.Activity.TimeCost <= 0 {
			continue
		}
		count := int(math.Ceil(totalStudyTime * e.Weight / totalWeight / float64(e.Activity.TimeCost) * 60))
		for i := 0; i < count; i++ {
			instances = append(instances, e.Activity)
		}
	}

	rng.Shuffle(len(instances), func(i, j int) {
		instances[i], instances[j] = instances[j], instances[i]
	})

	usage := newMaterialUsage(pools)

	var days []DayPlan
	spent := 0.0
	for _, act := range instances {
		material, err := usage.pickLeastUsed(act.MaterialType)
		if err != nil {
			return nil, err
		}
		scheduled := ScheduledActivity{
			Level:         act.Level,
			ActivityID:    act.Activity.ID,
			ActivityTitle: act.ActivityTitle,
			QuizType:      act.QuizType,
			IndicatorID:   act.IndicatorID,
			Material:      material,
			TimeCost:      act.TimeCost,
		}

		// 累计空闲时长不足以容纳当前实例且天数未满时才开新的一天
		totalEmpty := dailyCap*float64(len(days)) - spent
		if totalEmpty < float64(act.TimeCost) && len(days) < dayCount {
			days = append(days, DayPlan{scheduled})
		} else {
			days[len(days)-1] = append(days[len(days)-1], scheduled)
		}
		spent += float64(act.TimeCost)
	}

	return days, nil
}

// materialUsage 一次装箱调用内的材料使用计数器
type materialUsage struct {
	pools  []MaterialPool
	counts map[string]int
}

func newMaterialUsage(pools []MaterialPool) *materialUsage {
	counts := make(map[string]int)
	for _, pool := range pools {
		for _, item := range pool.Items {
			counts[item] = 0
		}
	}
	return &materialUsage{pools: pools, counts: counts}
}

// pickLeastUsed 在活动接受的材料类型里选使用次数最少的一条并记一次使用。
// 并列时按材料池的声明顺序取先出现的，保证同样输入下轮换结果稳定。
func (u *materialUsage) pickLeastUsed(acceptedTypes []string) (ScheduledMaterial, error) {
	accepted := make(map[string]bool, len(acceptedTypes))
	for _, t := range acceptedTypes {
		accepted[t] = true
	}

	found := false
	var best ScheduledMaterial
	bestCount := 0
	for _, pool := range u.pools {
		if !accepted[pool.Type] {
			continue
		}
		for _, item := range pool.Items {
			count := u.counts[item]
			if !found || count < bestCount {
				found = true
				best = ScheduledMaterial{Type: pool.Type, Content: item}
				bestCount = count
			}
		}
	}
	if !found {
		return ScheduledMaterial{}, fmt.Errorf("%w: 类型 %v", util.ErrNoMaterialForActivity, acceptedTypes)
	}

	u.counts[best.Content]++
	return best, nil
}
