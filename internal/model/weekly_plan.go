package model

import (
	"encoding/json"
	"time"
)

// UserWeeklyPlan 一份生成完成的周学习计划。
// MaterialSnapshot 保留生成时的完整材料包，便于回溯；
// SnapshotURL 指向对象存储中的归档副本。
type UserWeeklyPlan struct {
	BaseModel
	UserID           uint            `gorm:"index;not null" json:"user_id"`
	StartDate        time.Time       `json:"start_date"`
	EndDate          time.Time       `json:"end_date"`
	TargetIndicators UintList        `gorm:"type:json" json:"target_indicators"`
	Practices        UintList        `gorm:"type:json" json:"practices"`
	TargetMaterial   uint            `json:"target_material"`
	MaterialSnapshot json.RawMessage `gorm:"type:json" json:"material_snapshot"`
	TopicTitle       string          `gorm:"size:255" json:"topic_title"`
	Level            int             `json:"level"`
	SnapshotURL      string          `gorm:"size:512" json:"snapshot_url"`
}

func (UserWeeklyPlan) TableName() string {
	return "user_weekly_plans"
}
