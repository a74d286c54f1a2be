package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFocusTargetCount(t *testing.T) {
	assert.Equal(t, 3, FocusTargetCount(1))
	assert.Equal(t, 3, FocusTargetCount(3))
	assert.Equal(t, 4, FocusTargetCount(4))
	assert.Equal(t, 4, FocusTargetCount(9))
}

func TestPriorityScore(t *testing.T) {
	tests := []struct {
		name   string
		detail IndicatorScore
		want   float64
	}{
		{
			name:   "minimum为0视作已完成",
			detail: IndicatorScore{IndicatorWeight: 0.5, Minimum: 0, PracticeGap: 0, PracticeCount: 0},
			want:   0.5 * 0.4,
		},
		{
			name:   "完全没练过的指标",
			detail: IndicatorScore{IndicatorWeight: 0.8, Minimum: 10, PracticeGap: 10, PracticeCount: 0},
			want:   0.8*0.4 + 0.5*0.35 + 1*0.25,
		},
		{
			name:   "练习超额后差距项归零",
			detail: IndicatorScore{IndicatorWeight: 0.6, Minimum: 4, PracticeGap: 0, PracticeCount: 9},
			want:   0.6 * 0.4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, priorityScore(tt.detail), 1e-9)
		})
	}
}

func TestPickFocusIndicators(t *testing.T) {
	details := []IndicatorScore{
		{IndicatorID: 1, IndicatorWeight: 0.3, Minimum: 5, PracticeGap: 0, PracticeCount: 8},
		{IndicatorID: 2, IndicatorWeight: 0.9, Minimum: 10, PracticeGap: 10, PracticeCount: 0},
		{IndicatorID: 3, IndicatorWeight: 0.5, Minimum: 6, PracticeGap: 3, PracticeCount: 3},
	}

	got := PickFocusIndicators(details, 2)
	assert.Len(t, got, 2)
	assert.Equal(t, uint(2), got[0].IndicatorID)
	assert.Equal(t, uint(3), got[1].IndicatorID)
	// 新周期的即时表现从 0 开始
	assert.Zero(t, got[0].CurrentScore)
	// 优先级降序
	assert.GreaterOrEqual(t, got[0].PriorityScore, got[1].PriorityScore)
}

func TestPickFocusIndicatorsFewerThanTarget(t *testing.T) {
	details := []IndicatorScore{
		{IndicatorID: 1, IndicatorWeight: 0.9, Minimum: 5, PracticeGap: 5},
	}
	got := PickFocusIndicators(details, 4)
	assert.Len(t, got, 1)
}

func TestPickFocusIndicatorsStableOnTies(t *testing.T) {
	details := []IndicatorScore{
		{IndicatorID: 11, IndicatorWeight: 0.5, Minimum: 4, PracticeGap: 2, PracticeCount: 2},
		{IndicatorID: 12, IndicatorWeight: 0.5, Minimum: 4, PracticeGap: 2, PracticeCount: 2},
	}
	got := PickFocusIndicators(details, 2)
	assert.Equal(t, uint(11), got[0].IndicatorID)
	assert.Equal(t, uint(12), got[1].IndicatorID)
}

func TestPickFocusIndicatorsEmpty(t *testing.T) {
	assert.Empty(t, PickFocusIndicators(nil, 3))
}
