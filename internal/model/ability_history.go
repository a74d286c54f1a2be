package model

// UserAbilityHistory 一次练习尝试的得分记录，只追加不修改。
// 调度核心只按时间窗口读取，不负责写入。
type UserAbilityHistory struct {
	BaseModel
	UserID      uint    `gorm:"index:idx_user_indicator;not null" json:"user_id"`
	IndicatorID uint    `gorm:"index:idx_user_indicator;not null" json:"indicator_id"`
	Score       float64 `gorm:"type:decimal(4,2);not null" json:"score"`
}

func (UserAbilityHistory) TableName() string {
	return "user_ability_history"
}
