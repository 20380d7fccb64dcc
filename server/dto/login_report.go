package dto

import "loginsight/server/utils"

type Outcome string

const (
	OutcomeSuccess Outcome = "Success"
	OutcomeFailure Outcome = "Failure"
)

// LoginRecord 命中查询用户的单条登录记录
type LoginRecord struct {
	LoginTime   utils.JsonTime `json:"loginTime"`
	Username    string         `json:"username"`
	SourceId    string         `json:"sourceId"`
	Outcome     Outcome        `json:"outcome"`
	LogonType   string         `json:"logonType"`
	Workstation string         `json:"workstation"`
	ProcessName string         `json:"processName"`
	AuthPackage string         `json:"authPackage"`
}

// SourceSummary 按来源地址的统计
type SourceSummary struct {
	SourceId string         `json:"sourceId"`
	Total    int            `json:"total"`
	Success  int            `json:"success"`
	Failure  int            `json:"failure"`
	LastSeen utils.JsonTime `json:"lastSeen"`
}

// TransformStats 过滤转换计数
type TransformStats struct {
	Processed int `json:"processed"`
	Matched   int `json:"matched"`
	Malformed int `json:"malformed"`
	NoSource  int `json:"noSource"`
}

// LoginReport 登录报表, Details按时间倒序截断
type LoginReport struct {
	Username     string          `json:"username"`
	LookbackDays int             `json:"lookbackDays"`
	GeneratedAt  utils.JsonTime  `json:"generatedAt"`
	Summaries    []SourceSummary `json:"summaries"`
	Details      []LoginRecord   `json:"details"`
	Stats        TransformStats  `json:"stats"`
	FetchErrors  []string        `json:"fetchErrors,omitempty"`
}
