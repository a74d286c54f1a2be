package service

import (
	"math/rand"
	"testing"

	"lingo_plan_backend/internal/model"
	"lingo_plan_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func examIndicator(id uint, category string, weight float64) model.Indicator {
	return model.Indicator{
		BaseModel: model.BaseModel{ID: id},
		Level:     2,
		Indicator: "指标",
		Category:  category,
		Weight:    weight,
		Minimum:   5,
	}
}

func TestPairIndicatorActivities(t *testing.T) {
	indicators := []model.Indicator{
		examIndicator(1, "recognition", 0.9),
		examIndicator(2, "reading", 0.3),
	}
	activities := []model.Activity{
		testActivity(10, "认字卡片", []string{"recognition"}, []string{model.MaterialCharacter}, 60),
		testActivity(11, "句子朗读", []string{"reading"}, []string{model.MaterialSentence}, 150),
	}

	pairs, err := pairIndicatorActivities(indicators, activities, 10, rand.New(rand.NewSource(11)))
	require.NoError(t, err)
	require.Len(t, pairs, 10)

	counts := map[uint]int{}
	for _, p := range pairs {
		counts[p.indicator.ID]++
		// 配对的活动必须能训练到该指标的类别
		matched := false
		for _, cat := range p.activity.IndicatorCats {
			if cat == p.indicator.Category {
				matched = true
			}
		}
		assert.True(t, matched)
	}

	// 权重高的指标分到更多题，且每个指标至少一题
	assert.Greater(t, counts[1], counts[2])
	assert.GreaterOrEqual(t, counts[2], 1)
}

func TestPairIndicatorActivitiesNoActivityForCategory(t *testing.T) {
	indicators := []model.Indicator{examIndicator(1, "pronunciation", 0.9)}
	activities := []model.Activity{
		testActivity(10, "认字卡片", []string{"recognition"}, []string{model.MaterialCharacter}, 60),
	}

	_, err := pairIndicatorActivities(indicators, activities, 10, rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, util.ErrNoCandidateActivities)
}

func TestPairIndicatorActivitiesZeroWeight(t *testing.T) {
	indicators := []model.Indicator{examIndicator(1, "recognition", 0)}
	_, err := pairIndicatorActivities(indicators, nil, 10, rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, util.ErrNoIndicators)
}
