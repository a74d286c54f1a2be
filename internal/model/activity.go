package model

// Activity 活动库模板：搭配具体材料即可实例化为一次练习。
// TimeCost 单位为秒；IndicatorCats 是活动能训练到的指标类别集合。
type Activity struct {
	BaseModel
	ActivityTitle string     `gorm:"size:255;not null" json:"activity_title"`
	IndicatorCats StringList `gorm:"type:json" json:"indicator_cats"`
	MaterialType  StringList `gorm:"type:json" json:"material_type"`
	QuizType      string     `gorm:"size:100" json:"quiz_type"`
	QuizTemplate  string     `gorm:"type:text" json:"quiz_template"`
	TimeCost      int        `gorm:"not null" json:"time_cost"`
	Available     bool       `gorm:"default:true;index" json:"available"`
}

func (Activity) TableName() string {
	return "activities"
}
