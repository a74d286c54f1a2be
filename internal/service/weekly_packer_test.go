package service

import (
	"math"
	"math/rand"
	"testing"

	"lingo_plan_backend/internal/model"
	"lingo_plan_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaysForLevel(t *testing.T) {
	assert.Equal(t, 6, DaysForLevel(1))
	assert.Equal(t, 6, DaysForLevel(3))
	assert.Equal(t, 9, DaysForLevel(4))
	assert.Equal(t, 9, DaysForLevel(6))
	assert.Equal(t, 12, DaysForLevel(7))
	assert.Equal(t, 12, DaysForLevel(9))
}

func packerFixtures() ([]AllocationEntry, []MaterialPool) {
	entries := []AllocationEntry{
		{
			Activity: CandidateActivity{
				Activity:    testActivity(10, "认字卡片", []string{"recognition"}, []string{model.MaterialCharacter}, 60),
				IndicatorID: 1,
				Level:       1,
			},
			Weight: 3.0,
		},
		{
			Activity: CandidateActivity{
				Activity:    testActivity(11, "句子朗读", []string{"reading"}, []string{model.MaterialSentence}, 150),
				IndicatorID: 2,
				Level:       1,
			},
			Weight: 1.0,
		},
	}
	pools := []MaterialPool{
		{Type: model.MaterialCharacter, Items: []string{"你", "好", "我"}},
		{Type: model.MaterialSentence, Items: []string{"你好吗？", "我很好。"}},
	}
	return entries, pools
}

func TestBuildWeeklyPlan(t *testing.T) {
	entries, pools := packerFixtures()
	rng := rand.New(rand.NewSource(42))

	days, err := BuildWeeklyPlan(entries, pools, 60, 6, rng)
	require.NoError(t, err)

	require.NotEmpty(t, days)
	assert.LessOrEqual(t, len(days), 6)
	for _, day := range days {
		assert.NotEmpty(t, day)
	}

	// 实例总数与权重展开一致：60×0.75/60×60=45→ceil 45；60×0.25/150×60=6
	total := 0
	byActivity := map[uint]int{}
	for _, day := range days {
		for _, act := range day {
			total += 1
			byActivity[act.ActivityID]++
			assert.NotEmpty(t, act.Material.Content)
			assert.NotEmpty(t, act.ActivityTitle)
		}
	}
	assert.Equal(t, 45, byActivity[10])
	assert.Equal(t, 6, byActivity[11])
	assert.Equal(t, 51, total)
}

func TestBuildWeeklyPlanDeterministicWithSeed(t *testing.T) {
	entries, pools := packerFixtures()

	first, err := BuildWeeklyPlan(entries, pools, 60, 6, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	second, err := BuildWeeklyPlan(entries, pools, 60, 6, rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestBuildWeeklyPlanMaterialRotation(t *testing.T) {
	entries, pools := packerFixtures()
	rng := rand.New(rand.NewSource(1))

	days, err := BuildWeeklyPlan(entries, pools, 60, 6, rng)
	require.NoError(t, err)

	// 同类材料的使用次数差不超过 1（最少使用优先轮换）
	usage := map[string]map[string]int{}
	for _, day := range days {
		for _, act := range day {
			if usage[act.Material.Type] == nil {
				usage[act.Material.Type] = map[string]int{}
			}
			usage[act.Material.Type][act.Material.Content]++
		}
	}
	for poolType, counts := range usage {
		minCount, maxCount := math.MaxInt, 0
		for _, pool := range pools {
			if pool.Type != poolType {
				continue
			}
			for _, item := range pool.Items {
				c := counts[item]
				if c < minCount {
					minCount = c
				}
				if c > maxCount {
					maxCount = c
				}
			}
		}
		assert.LessOrEqual(t, maxCount-minCount, 1, "材料池 %s 轮换不均", poolType)
	}
}

func TestBuildWeeklyPlanSameMultisetAcrossSeeds(t *testing.T) {
	entries, pools := packerFixtures()

	countByActivity := func(days []DayPlan) (map[uint]int, int) {
		counts := map[uint]int{}
		total := 0
		for _, day := range days {
			for _, act := range day {
				counts[act.ActivityID]++
				total += act.TimeCost
			}
		}
		return counts, total
	}

	first, err := BuildWeeklyPlan(entries, pools, 60, 6, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	second, err := BuildWeeklyPlan(entries, pools, 60, 6, rand.New(rand.NewSource(99)))
	require.NoError(t, err)

	// 不同随机序下天的分组可以不同，但活动实例的多重集合与总时长不变
	firstCounts, firstTotal := countByActivity(first)
	secondCounts, secondTotal := countByActivity(second)
	assert.Equal(t, firstCounts, secondCounts)
	assert.Equal(t, firstTotal, secondTotal)
}

func TestBuildWeeklyPlanDayOverflow(t *testing.T) {
	entries, pools := packerFixtures()
	rng := rand.New(rand.NewSource(3))

	// 仅 2 天的配额，超出的实例全部追加到最后一天
	days, err := BuildWeeklyPlan(entries, pools, 60, 2, rng)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(days), 2)
}

func TestBuildWeeklyPlanNoMaterial(t *testing.T) {
	entries, _ := packerFixtures()
	pools := []MaterialPool{
		{Type: model.MaterialCharacter, Items: []string{"你"}},
		// sentence 池为空
		{Type: model.MaterialSentence, Items: nil},
	}

	_, err := BuildWeeklyPlan(entries, pools, 60, 6, rand.New(rand.NewSource(5)))
	assert.ErrorIs(t, err, util.ErrNoMaterialForActivity)
}

func TestBuildWeeklyPlanEmptyEntries(t *testing.T) {
	_, err := BuildWeeklyPlan(nil, nil, 60, 6, rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, util.ErrNoCandidateActivities)
}
