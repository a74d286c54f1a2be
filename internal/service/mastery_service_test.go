package service

import (
	"testing"

	"lingo_plan_backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func historyWithScores(scores ...float64) []model.UserAbilityHistory {
	records := make([]model.UserAbilityHistory, 0, len(scores))
	for _, s := range scores {
		records = append(records, model.UserAbilityHistory{Score: s})
	}
	return records
}

func TestScoreIndicator(t *testing.T) {
	ind := model.Indicator{
		BaseModel: model.BaseModel{ID: 7},
		Indicator: "常用字识读",
		Weight:    0.8,
		Minimum:   3,
	}

	tests := []struct {
		name          string
		records       []model.UserAbilityHistory
		wantAvg       float64
		wantQualified bool
		wantGap       int
	}{
		{
			name:          "无记录时平均分为0",
			records:       nil,
			wantAvg:       0,
			wantQualified: false,
			wantGap:       3,
		},
		{
			name:          "分数够但次数不足",
			records:       historyWithScores(0.9, 0.8),
			wantAvg:       0.85,
			wantQualified: false,
			wantGap:       1,
		},
		{
			name:          "次数够但分数不足",
			records:       historyWithScores(0.7, 0.7, 0.7),
			wantAvg:       0.7,
			wantQualified: false,
			wantGap:       0,
		},
		{
			name:          "分数次数双达标",
			records:       historyWithScores(0.8, 0.9, 0.85),
			wantAvg:       0.85,
			wantQualified: true,
			wantGap:       0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scoreIndicator(ind, tt.records, 0.75)
			assert.Equal(t, uint(7), got.IndicatorID)
			assert.InDelta(t, tt.wantAvg, got.AvgScore, 1e-9)
			assert.Equal(t, tt.wantQualified, got.IsQualified)
			assert.Equal(t, tt.wantGap, got.PracticeGap)
		})
	}
}

func TestWeightedScore(t *testing.T) {
	details := []IndicatorScore{
		{IndicatorWeight: 0.9, AvgScore: 0.8, IsQualified: true},
		{IndicatorWeight: 0.6, AvgScore: 0.95, IsQualified: false}, // 未达标不计分但权重进分母
		{IndicatorWeight: 0.5, AvgScore: 0.9, IsQualified: true},
	}

	want := (0.8*0.9 + 0.9*0.5) / (0.9 + 0.6 + 0.5)
	assert.InDelta(t, want, weightedScore(details), 1e-9)
}

func TestWeightedScoreEmpty(t *testing.T) {
	assert.Zero(t, weightedScore(nil))
	assert.Zero(t, weightedScore([]IndicatorScore{{IndicatorWeight: 0}}))
}

func TestCoveragePercent(t *testing.T) {
	details := []IndicatorScore{
		{PracticeCount: 5},
		{PracticeCount: 0},
		{PracticeCount: 1},
	}
	assert.Equal(t, 67, coveragePercent(details))
	assert.Equal(t, 0, coveragePercent(nil))
}

func TestConsecutiveQualified(t *testing.T) {
	tests := []struct {
		name    string
		records []model.UserAbilityHistory
		want    int
	}{
		{"空历史", nil, 0},
		{"最近一条就不达标", historyWithScores(0.5, 0.9, 0.9), 0},
		{"中途中断", historyWithScores(0.8, 0.9, 0.6, 0.95), 2},
		{"全部达标", historyWithScores(0.75, 0.8, 0.9), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, consecutiveQualified(tt.records, 0.75))
		})
	}
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 0.67, round2(2.0/3.0))
	assert.Equal(t, 0.75, round2(0.745))
}
