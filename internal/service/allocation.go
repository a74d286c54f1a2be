package service

import (
	"fmt"
	"math"

	"lingo_plan_backend/internal/model"
	"lingo_plan_backend/internal/util"
)

// 材料类型标准时长配置（分钟/单位）
var standardDurations = map[string]float64{
	model.MaterialCharacter: 2,
	model.MaterialWord:      3,
	model.MaterialSyllable:  5,
	model.MaterialGrammar:   10,
	model.MaterialSentence:  4,
	model.MaterialDialog:    8,
	model.MaterialParagraph: 12,
}

// PlanIndicator 建计划用的指标快照。CurrentScore 表示本周期内的即时表现，
// 新周期开始时恒为 0，区别于历史平均分。
type PlanIndicator struct {
	model.Indicator
	CurrentScore float64 `json:"current_score"`
}

// MaterialPool 按类型整理好的生成材料
type MaterialPool struct {
	Type        string   `json:"type"`
	Items       []string `json:"data"`
	TimePerUnit float64  `json:"timePerUnit"`
}

// CandidateActivity 候选活动：活动模板加上命中的聚焦指标。
// 一个活动可能命中多个指标，IndicatorID 取其中权重最高者作为代表。
type CandidateActivity struct {
	model.Activity
	IndicatorID       uint
	Level             int
	MatchedIndicators []uint
}

// AllocationEntry 进入装箱阶段的活动及其实数打包权重
type AllocationEntry struct {
	Activity CandidateActivity
	Weight   float64
}

// MaterialQuantities 把周总时长按指标权重折算为各材料类型的单位数量。
// 每个聚焦指标把自己的权重累加到它支持的所有材料类型上，归一化成占比后
// 乘以总时长，再除以该类型的标准时长向上取整（最少 1 个）。
// 结果用于材料生成请求，不直接进入排期。
func MaterialQuantities(focus []PlanIndicator, totalDuration int) map[string]int {
	quantities := make(map[string]int, len(model.MaterialTypes))
	for _, t := range model.MaterialTypes {
		quantities[t] = 0
	}

	typeWeights := make(map[string]float64)
	totalWeight := 0.0
	for _, ind := range focus {
		for _, t := range ind.Indicator.MaterialTypes {
			typeWeights[t] += ind.Weight
			totalWeight += ind.Weight
		}
	}
	if totalWeight <= 0 {
		return quantities
	}

	for _, t := range model.MaterialTypes {
		weight, ok := typeWeights[t]
		if !ok {
			continue
		}
		standard, ok := standardDurations[t]
		if !ok {
			continue
		}
		duration := math.Round(float64(totalDuration) * weight / totalWeight)
		quantities[t] = int(math.Max(1, math.Ceil(duration/standard)))
	}

	return quantities
}

// TidyMaterials 把生成的材料包整理为类型化的材料池，复习与新学内容合并。
// 池的声明顺序同时是材料轮换平分秋色时的裁决顺序。
func TidyMaterials(bundle *MaterialBundle) []MaterialPool {
	return []MaterialPool{
		{Type: model.MaterialCharacter, Items: append(append([]string{}, bundle.CharsNew...), bundle.CharsReview...), TimePerUnit: 2},
		{Type: model.MaterialWord, Items: append(append([]string{}, bundle.WordsNew...), bundle.WordsReview...), TimePerUnit: 3},
		{Type: model.MaterialSentence, Items: bundle.Sentences, TimePerUnit: 4},
		{Type: model.MaterialDialog, Items: bundle.Dialogs, TimePerUnit: 8},
		{Type: model.MaterialParagraph, Items: bundle.Paragraphs, TimePerUnit: 12},
		{Type: model.MaterialSyllable, Items: bundle.Syllables, TimePerUnit: 5},
		{Type: model.MaterialGrammar, Items: bundle.Grammars, TimePerUnit: 10},
	}
}

// studyTimeForLevel 本周总学习时长（分钟）。按级别放大的缩放表暂不启用，
// 目前直接沿用用户设定的时长。
func studyTimeForLevel(level, total int) int {
	return total
}

// BuildAllocation 过滤候选活动，并为每个候选计算打包权重：
//
//	权重 = 类别共享时间 × 材料充足度因子 × 时间效率因子 × 多样性因子
//
// 类别共享时间来自指标类别时间池（类别权重 = weight/(current_score+1)×100，
// 乘 100 取整避免浮点噪声），活动命中多个类别时取均值；
// 材料充足度 = min(1, 可用材料数/5)；时间效率 = 1/√time_cost；
// 多样性因子目前恒为 1，保留给后续的题型去重。
// 没有任何活动命中聚焦指标类别时返回分配错误，绝不产出空计划。
func BuildAllocation(activities []model.Activity, focus []PlanIndicator, pools []MaterialPool, totalStudyTime float64) ([]AllocationEntry, error) {
	candidates := filterCandidates(activities, focus)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: %d 个活动均不匹配聚焦指标类别", util.ErrNoCandidateActivities, len(activities))
	}

	// 按能力指标类别分配时间池
	categoryWeights := make(map[string]float64)
	categoryOrder := make([]string, 0, len(focus))
	for _, ind := range focus {
		if _, seen := categoryWeights[ind.Category]; !seen {
			categoryOrder = append(categoryOrder, ind.Category)
		}
		categoryWeights[ind.Category] = math.Round(ind.Weight / (ind.CurrentScore + 1) * 100)
	}

	totalWeight := 0.0
	for _, cat := range categoryOrder {
		totalWeight += categoryWeights[cat]
	}

	timePool := make(map[string]float64, len(categoryWeights))
	if totalWeight > 0 {
		for _, cat := range categoryOrder {
			timePool[cat] = categoryWeights[cat] / totalWeight * totalStudyTime
		}
	}

	entries := make([]AllocationEntry, 0, len(candidates))
	entryWeightSum := 0.0
	for _, act := range candidates {
		// 活动命中多个类别时，各类别时间池取均值作为该活动的共享时间
		sharedTime := 0.0
		if len(act.IndicatorCats) > 0 {
			for _, cat := range act.IndicatorCats {
				sharedTime += timePool[cat]
			}
			sharedTime /= float64(len(act.IndicatorCats))
		}

		weight := round3(sharedTime * activityMaterialWeight(act.Activity, pools))
		entries = append(entries, AllocationEntry{Activity: act, Weight: weight})
		entryWeightSum += weight
	}

	if entryWeightSum <= 0 {
		return nil, fmt.Errorf("%w: 候选活动总权重为零", util.ErrNoCandidateActivities)
	}

	return entries, nil
}

// filterCandidates 活动类别与任一聚焦指标类别相交即入选，
// 并记录全部命中指标，代表指标取权重最高者。
func filterCandidates(activities []model.Activity, focus []PlanIndicator) []CandidateActivity {
	var candidates []CandidateActivity
	for _, act := range activities {
		catSet := make(map[string]bool, len(act.IndicatorCats))
		for _, cat := range act.IndicatorCats {
			catSet[cat] = true
		}

		var matched []uint
		var repr *PlanIndicator
		for i, ind := range focus {
			if !catSet[ind.Category] {
				continue
			}
			matched = append(matched, ind.ID)
			if repr == nil || ind.Weight > repr.Weight {
				repr = &focus[i]
			}
		}
		if repr == nil {
			continue
		}

		candidates = append(candidates, CandidateActivity{
			Activity:          act,
			IndicatorID:       repr.ID,
			Level:             repr.Indicator.Level,
			MatchedIndicators: matched,
		})
	}
	return candidates
}

// activityMaterialWeight 多重权重：材料充足度 × 时间效率 × 多样性
func activityMaterialWeight(act model.Activity, pools []MaterialPool) float64 {
	materialCount := 0
	for _, pool := range pools {
		for _, t := range act.MaterialType {
			if pool.Type == t {
				materialCount += len(pool.Items)
				break
			}
		}
	}

	diversityFactor := 1.0
	materialFactor := math.Min(1, float64(materialCount)/5)
	timeFactor := 0.0
	if act.TimeCost > 0 {
		timeFactor = 1 / math.Sqrt(float64(act.TimeCost))
	}

	return diversityFactor * materialFactor * timeFactor
}

func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}
