package constant

import "time"

const (
	// 明细视图行数上限
	GridDetailRows    = 1000
	ConsoleDetailRows = 50

	// 回溯窗口(天)
	DefaultLookbackDays = 30
	MinLookbackDays     = 1
	MaxLookbackDays     = 365
)

const (
	// Token 认证令牌的请求头名
	Token = "X-Auth-Token"

	TokenCachePrefix = "token:"
	SessionOvertime  = 30 * time.Minute

	ReportCachePrefix = "report:"
	ReportCacheTTL    = 30 * time.Second
)

// 系统属性名
const (
	MailHost     = "mail-host"
	MailPort     = "mail-port"
	MailUsername = "mail-username"
	MailPassword = "mail-password"
)

// 属性表密文字段的AES密钥
const PropertyEncryptionKey = "loginsight0secret0key0loginsight"
