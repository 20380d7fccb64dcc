package errs

// 业务错误提示信息
const (
	UsernameRequired  = "用户名不能为空"
	LookbackDaysRange = "查询天数需在1到365之间"

	MailCheckFail       = "邮件服务未配置或配置不完整"
	MailRecipientIsNull = "收件人邮箱不能为空"

	ImportFileRequired = "请选择要导入的文件"
	ImportEmptyFile    = "导入文件为空,未找到表头行"

	ExportTypeNotSupport = "不支持的导出类型"
)
