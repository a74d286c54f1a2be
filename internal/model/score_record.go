package model

import "time"

// UserScoreRecord 按材料条目累计的得分记录，用于挑选复习内容。
type UserScoreRecord struct {
	BaseModel
	UserID   uint      `gorm:"index;not null" json:"user_id"`
	Category string    `gorm:"size:50;index" json:"category"`
	Item     string    `gorm:"size:255" json:"item"`
	Score    float64   `gorm:"type:decimal(4,2)" json:"score"`
	Count    int       `gorm:"default:0" json:"count"`
	UpdateAt time.Time `json:"update_at"`
}

func (UserScoreRecord) TableName() string {
	return "user_score_records"
}
