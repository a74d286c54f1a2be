package model

// 材料类型
const (
	MaterialCharacter = "character"
	MaterialWord      = "word"
	MaterialSyllable  = "syllable"
	MaterialGrammar   = "grammar"
	MaterialSentence  = "sentence"
	MaterialDialog    = "dialog"
	MaterialParagraph = "paragraph"
)

// MaterialTypes 所有可规划的材料类型，按标准时长表的声明顺序
var MaterialTypes = []string{
	MaterialCharacter,
	MaterialWord,
	MaterialSyllable,
	MaterialGrammar,
	MaterialSentence,
	MaterialDialog,
	MaterialParagraph,
}

// Indicator 能力指标（级别内的离散技能量化项），只读参考数据。
// Weight 表达该指标在其级别内的重要性，取值 (0,1]；
// Minimum 是判定合格所需的最低练习次数。
type Indicator struct {
	BaseModel
	Level         int        `gorm:"index;not null" json:"level"`
	Indicator     string     `gorm:"size:255;not null" json:"indicator"`
	Category      string     `gorm:"size:100;index" json:"category"`
	SkillGroup    string     `gorm:"size:100" json:"skill_group"`
	Weight        float64    `gorm:"type:decimal(4,2);not null" json:"weight"`
	Minimum       int        `gorm:"default:0" json:"minimum"`
	MaterialTypes StringList `gorm:"type:json" json:"material_types"`
}

func (Indicator) TableName() string {
	return "indicators"
}
