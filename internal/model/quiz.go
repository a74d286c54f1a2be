package model

import "encoding/json"

// Quiz 排期后的活动实例：一条活动模板 + 一份具体材料。
// Question/Options/Explain 由补题工作流延迟生成，排期时为空。
type Quiz struct {
	BaseModel
	IndicatorID  uint            `gorm:"index;not null" json:"indicator_id"`
	ActivityID   uint            `gorm:"index;not null" json:"activity_id"`
	Level        int             `json:"level"`
	Material     string          `gorm:"type:text" json:"material"`
	MaterialType string          `gorm:"size:50" json:"material_type"`
	Stem         string          `gorm:"type:text" json:"stem"`
	Question     string          `gorm:"type:text" json:"question"`
	Options      json.RawMessage `gorm:"type:json" json:"options"`
	Explain      string          `gorm:"type:text" json:"explain"`
	TopicTag     string          `gorm:"size:100" json:"topic_tag"`
	CultureTag   string          `gorm:"size:100" json:"culture_tag"`
	Lang         string          `gorm:"size:10;default:'en'" json:"lang"`
}

func (Quiz) TableName() string {
	return "quizzes"
}
