package service

import (
	"testing"

	"lingo_plan_backend/internal/model"
	"lingo_plan_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func planIndicator(id uint, category string, weight float64, types ...string) PlanIndicator {
	return PlanIndicator{
		Indicator: model.Indicator{
			BaseModel:     model.BaseModel{ID: id},
			Level:         1,
			Category:      category,
			Weight:        weight,
			MaterialTypes: model.StringList(types),
		},
	}
}

func TestMaterialQuantities(t *testing.T) {
	focus := []PlanIndicator{
		planIndicator(1, "recognition", 0.8, model.MaterialCharacter, model.MaterialWord),
		planIndicator(2, "reading", 0.4, model.MaterialSentence),
	}

	got := MaterialQuantities(focus, 60)

	// 所有类型都有键，未被任何指标支持的类型数量为 0
	assert.Len(t, got, len(model.MaterialTypes))
	assert.Zero(t, got[model.MaterialGrammar])
	assert.Zero(t, got[model.MaterialDialog])

	// 总权重 0.8+0.8+0.4=2.0；character 得 60×0.8/2=24 分钟，标准 2 分钟/个
	assert.Equal(t, 12, got[model.MaterialCharacter])
	// word 24 分钟，3 分钟/个
	assert.Equal(t, 8, got[model.MaterialWord])
	// sentence 12 分钟，4 分钟/个
	assert.Equal(t, 3, got[model.MaterialSentence])
}

func TestMaterialQuantitiesFloor(t *testing.T) {
	// 占比极小的类型至少生成 1 个
	focus := []PlanIndicator{
		planIndicator(1, "recognition", 0.9, model.MaterialCharacter),
		planIndicator(2, "grammar", 0.01, model.MaterialGrammar),
	}
	got := MaterialQuantities(focus, 10)
	assert.GreaterOrEqual(t, got[model.MaterialGrammar], 1)
}

func TestMaterialQuantitiesZeroWeight(t *testing.T) {
	focus := []PlanIndicator{planIndicator(1, "recognition", 0, model.MaterialCharacter)}
	got := MaterialQuantities(focus, 60)
	for _, q := range got {
		assert.Zero(t, q)
	}
}

func TestTidyMaterials(t *testing.T) {
	bundle := &MaterialBundle{
		CharsNew:    []string{"你", "好"},
		CharsReview: []string{"我"},
		WordsNew:    []string{"你好"},
		Sentences:   []string{"你好吗？"},
	}

	pools := TidyMaterials(bundle)
	require.Len(t, pools, 7)

	assert.Equal(t, model.MaterialCharacter, pools[0].Type)
	assert.Equal(t, []string{"你", "好", "我"}, pools[0].Items)
	assert.Equal(t, []string{"你好"}, pools[1].Items)
	assert.Empty(t, pools[3].Items) // dialog 未生成
}

func testActivity(id uint, title string, cats, types []string, timeCost int) model.Activity {
	return model.Activity{
		BaseModel:     model.BaseModel{ID: id},
		ActivityTitle: title,
		IndicatorCats: model.StringList(cats),
		MaterialType:  model.StringList(types),
		TimeCost:      timeCost,
		Available:     true,
	}
}

func TestFilterCandidates(t *testing.T) {
	focus := []PlanIndicator{
		planIndicator(1, "recognition", 0.8, model.MaterialCharacter),
		planIndicator(2, "vocabulary", 0.6, model.MaterialWord),
	}
	activities := []model.Activity{
		testActivity(10, "认字卡片", []string{"recognition"}, []string{model.MaterialCharacter}, 60),
		testActivity(11, "词义配对", []string{"vocabulary", "recognition"}, []string{model.MaterialWord}, 120),
		testActivity(12, "句子朗读", []string{"reading"}, []string{model.MaterialSentence}, 150),
	}

	got := filterCandidates(activities, focus)
	require.Len(t, got, 2)

	assert.Equal(t, uint(10), got[0].Activity.ID)
	assert.Equal(t, uint(1), got[0].IndicatorID)

	// 命中多个指标时代表指标取权重最高者
	assert.Equal(t, uint(11), got[1].Activity.ID)
	assert.Equal(t, uint(1), got[1].IndicatorID)
	assert.ElementsMatch(t, []uint{1, 2}, got[1].MatchedIndicators)
}

func TestBuildAllocation(t *testing.T) {
	focus := []PlanIndicator{
		planIndicator(1, "recognition", 0.8, model.MaterialCharacter),
		planIndicator(2, "reading", 0.4, model.MaterialSentence),
	}
	activities := []model.Activity{
		testActivity(10, "认字卡片", []string{"recognition"}, []string{model.MaterialCharacter}, 60),
		testActivity(11, "句子朗读", []string{"reading"}, []string{model.MaterialSentence}, 150),
	}
	pools := []MaterialPool{
		{Type: model.MaterialCharacter, Items: []string{"你", "好", "我", "他", "她"}},
		{Type: model.MaterialSentence, Items: []string{"你好吗？", "我很好。"}},
	}

	entries, err := BuildAllocation(activities, focus, pools, 60)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	for _, e := range entries {
		assert.Greater(t, e.Weight, 0.0)
	}
	// 材料充足、耗时更短、类别时间池更大的活动权重更高
	assert.Greater(t, entries[0].Weight, entries[1].Weight)
}

func TestBuildAllocationNoCandidates(t *testing.T) {
	focus := []PlanIndicator{planIndicator(1, "recognition", 0.8, model.MaterialCharacter)}
	activities := []model.Activity{
		testActivity(12, "句子朗读", []string{"reading"}, []string{model.MaterialSentence}, 150),
	}

	_, err := BuildAllocation(activities, focus, nil, 60)
	assert.ErrorIs(t, err, util.ErrNoCandidateActivities)
}

func TestBuildAllocationZeroWeightSum(t *testing.T) {
	focus := []PlanIndicator{planIndicator(1, "recognition", 0.8, model.MaterialCharacter)}
	activities := []model.Activity{
		testActivity(10, "认字卡片", []string{"recognition"}, []string{model.MaterialCharacter}, 60),
	}

	// 材料池为空时材料充足度为 0，全部候选权重为零
	_, err := BuildAllocation(activities, focus, nil, 60)
	assert.ErrorIs(t, err, util.ErrNoCandidateActivities)
}

func TestActivityMaterialWeight(t *testing.T) {
	act := testActivity(10, "认字卡片", []string{"recognition"}, []string{model.MaterialCharacter}, 100)

	full := activityMaterialWeight(act, []MaterialPool{
		{Type: model.MaterialCharacter, Items: []string{"a", "b", "c", "d", "e", "f"}},
	})
	// 材料数超过 5 后充足度封顶为 1，只剩时间效率项
	assert.InDelta(t, 0.1, full, 1e-9)

	scarce := activityMaterialWeight(act, []MaterialPool{
		{Type: model.MaterialCharacter, Items: []string{"a", "b"}},
	})
	assert.InDelta(t, 0.4*0.1, scarce, 1e-9)
}
