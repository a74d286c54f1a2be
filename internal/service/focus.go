package service

import (
	"math"
	"sort"
)

// RankedIndicator 聚焦指标：最需要优先提升的指标及其优先级得分。
// CurrentScore 表示新周期内的即时表现，选出时恒为 0。
type RankedIndicator struct {
	IndicatorScore
	PriorityScore float64 `json:"priorityScore"`
	CurrentScore  float64 `json:"currentScore"`
}

// FocusTargetCount 各级别每个周期聚焦的指标数量
func FocusTargetCount(level int) int {
	if level <= 3 {
		return 3
	}
	return 4
}

// PickFocusIndicators 按优先级选出前 n 个核心指标。
// 优先级 = 重要性×0.4 + 达标差距占比×0.35 + 完成度不足×0.25，
// 各维度均归一化到 0~1。得分相同的指标保持输入顺序。
func PickFocusIndicators(details []IndicatorScore, n int) []RankedIndicator {
	if len(details) == 0 {
		return []RankedIndicator{}
	}
	if n > len(details) {
		n = len(details)
	}

	ranked := make([]RankedIndicator, 0, len(details))
	for _, d := range details {
		ranked = append(ranked, RankedIndicator{
			IndicatorScore: d,
			PriorityScore:  round4(priorityScore(d)),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].PriorityScore > ranked[j].PriorityScore
	})

	return ranked[:n]
}

func priorityScore(d IndicatorScore) float64 {
	importance := d.IndicatorWeight

	// 达标差距占比，分母为 0 时按 0 计
	gapRatio := 0.0
	if d.Minimum+d.PracticeGap > 0 {
		gapRatio = float64(d.PracticeGap) / float64(d.Minimum+d.PracticeGap)
	}

	// 完成度不足得分，minimum 为 0 视作已完成
	insufficiency := 0.0
	if d.Minimum > 0 {
		completion := math.Min(1, float64(d.PracticeCount)/float64(d.Minimum))
		insufficiency = 1 - completion
	}

	return importance*0.4 + gapRatio*0.35 + insufficiency*0.25
}

func round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}
