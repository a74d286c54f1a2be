package model

// UserMaterial 一次生成的学习材料包快照，按用户与级别归档。
type UserMaterial struct {
	BaseModel
	UserID      uint       `gorm:"index;not null" json:"user_id"`
	Level       int        `gorm:"index" json:"level"`
	Chars       StringList `gorm:"type:json" json:"chars"`
	CharsReview StringList `gorm:"type:json" json:"chars_review"`
	Words       StringList `gorm:"type:json" json:"words"`
	WordsReview StringList `gorm:"type:json" json:"words_review"`
	Syllables   StringList `gorm:"type:json" json:"syllables"`
	Grammars    StringList `gorm:"type:json" json:"grammars"`
	Sentences   StringList `gorm:"type:json" json:"sentences"`
	Dialogs     StringList `gorm:"type:json" json:"dialogs"`
	Paragraphs  StringList `gorm:"type:json" json:"paragraphs"`
	TopicTag    string     `gorm:"size:100" json:"topic_tag"`
	CultureTag  string     `gorm:"size:100" json:"culture_tag"`
	TopicTitle  string     `gorm:"size:255" json:"topic_title"`
}

func (UserMaterial) TableName() string {
	return "user_materials"
}
