package model

import "time"

// User 学习者档案。注册与登录由外部认证服务负责，这里只保留
// 中间件与统计需要的字段。
type User struct {
	BaseModel
	Name     string    `gorm:"size:100;not null" json:"name"`
	Email    string    `gorm:"size:100;unique;not null" json:"email"`
	Language string    `gorm:"size:10;default:'en'" json:"language"`
	Level    int       `gorm:"default:1" json:"level"`
	Disabled bool      `gorm:"default:false" json:"disabled"`
	LastSeen time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"last_seen"`
}

func (User) TableName() string {
	return "users"
}
