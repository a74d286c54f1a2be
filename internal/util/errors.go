package util

import "errors"

// 调度核心的错误分类：配置类错误需要调用方修正请求；数据访问类错误可整体重试；
// 生成类与分配类错误对本次调度是终止性的，绝不落库半份计划。
var (
	// ErrNoIndicators 当前级别下没有符合权重阈值的核心指标
	ErrNoIndicators = errors.New("未找到该级别的核心指标")
	// ErrDataAccess 指标/历史/活动库等快照读取失败，调用方可整体重试
	ErrDataAccess = errors.New("数据读取失败")
	// ErrGeneration 材料生成服务失败或返回内容无法解析
	ErrGeneration = errors.New("材料生成失败")
	// ErrNoCandidateActivities 没有活动匹配任何聚焦指标的类别，总权重为零
	ErrNoCandidateActivities = errors.New("没有可分配的候选活动")
	// ErrNoMaterialForActivity 活动接受的材料类型在生成结果中全部为空
	ErrNoMaterialForActivity = errors.New("活动缺少可用材料")

	ErrQuizNotFound = errors.New("未找到对应的活动实例记录")
	ErrEmptyParams  = errors.New("缺少必要参数")
)
