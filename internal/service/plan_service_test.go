package service

import (
	"testing"

	"lingo_plan_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubActivityCatalog struct {
	available []model.Activity
	allowed   []model.Activity
	gotIDs    []uint
}

func (s *stubActivityCatalog) FindAvailable() ([]model.Activity, error) {
	return s.available, nil
}

func (s *stubActivityCatalog) FindByIDs(ids []uint) ([]model.Activity, error) {
	s.gotIDs = ids
	return s.allowed, nil
}

func TestLoadCandidateActivities(t *testing.T) {
	catalog := &stubActivityCatalog{
		available: []model.Activity{
			testActivity(10, "认字卡片", []string{"recognition"}, []string{model.MaterialCharacter}, 60),
			testActivity(11, "句子朗读", []string{"reading"}, []string{model.MaterialSentence}, 150),
		},
		allowed: []model.Activity{
			testActivity(11, "句子朗读", []string{"reading"}, []string{model.MaterialSentence}, 150),
		},
	}
	svc := &PlanService{ActivityRepo: catalog}

	// 未给允许清单时取全部上架活动
	got, err := svc.loadCandidateActivities(nil)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Nil(t, catalog.gotIDs)

	// 给出允许清单时按清单查询，上架全集不参与
	got, err = svc.loadCandidateActivities([]uint{11})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, uint(11), got[0].ID)
	assert.Equal(t, []uint{11}, catalog.gotIDs)
}
