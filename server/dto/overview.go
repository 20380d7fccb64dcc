package dto

type DayLogonCount struct {
	Day     string `json:"day"`
	Success int64  `json:"success"`
	Failure int64  `json:"failure"`
	Total   int64  `json:"total"`
}

type UsernameCount struct {
	Username string `json:"username"`
	Cnt      int64  `json:"cnt"`
}

// OverviewStat 系统概览
type OverviewStat struct {
	EventTotal   int64           `json:"eventTotal"`
	SuccessTotal int64           `json:"successTotal"`
	FailureTotal int64           `json:"failureTotal"`
	OldestEvent  string          `json:"oldestEvent"`
	RecentDays   []DayLogonCount `json:"recentDays"`
	TopUsernames []UsernameCount `json:"topUsernames"`
	CpuPercent   float64         `json:"cpuPercent"`
	MemPercent   float64         `json:"memPercent"`
	DiskPercent  float64         `json:"diskPercent"`
	Version      string          `json:"version"`
}
