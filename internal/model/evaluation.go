package model

import "encoding/json"

// Evaluation 升级测评题目，由测评工作流生成后入库。
type Evaluation struct {
	BaseModel
	Level       int             `gorm:"index" json:"level"`
	IndicatorID uint            `gorm:"index" json:"indicator_id"`
	ActivityID  uint            `json:"activity_id"`
	Stem        string          `gorm:"type:text" json:"stem"`
	Question    string          `gorm:"type:text" json:"question"`
	Options     json.RawMessage `gorm:"type:json" json:"options"`
	Explain     string          `gorm:"type:text" json:"explain"`
	Lang        string          `gorm:"size:10;default:'en'" json:"lang"`
}

func (Evaluation) TableName() string {
	return "evaluations"
}
