package dto

// LogonEventEntry 上报的单条登录事件
type LogonEventEntry struct {
	EventID   int               `json:"eventId" label:"[事件类型]" validate:"required,oneof=4624 4625"`
	LogonTime string            `json:"logonTime" label:"[事件时间]" validate:"required"`
	Fields    map[string]string `json:"fields" label:"[事件字段]" validate:"required"`
}

// LogonEventBatch 批量上报
type LogonEventBatch struct {
	Events []LogonEventEntry `json:"events" label:"[事件列表]" validate:"required,min=1,max=1000,dive"`
}

// ImportResult 导入结果
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Warnings []string `json:"warnings,omitempty"`
}
