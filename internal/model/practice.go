package model

// UserPractice 一天的练习安排，按顺序引用当天的活动实例。
type UserPractice struct {
	BaseModel
	Quizzes UintList `gorm:"type:json" json:"quizzes"`
	Score   float64  `gorm:"type:decimal(4,2);default:0" json:"score"`
	Count   int      `gorm:"default:0" json:"count"`
	Lang    string   `gorm:"size:10;default:'en'" json:"lang"`
}

func (UserPractice) TableName() string {
	return "user_practices"
}
