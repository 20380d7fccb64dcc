package model

type Property struct {
	Name  string `gorm:"type:varchar(64);primary_key;not null;comment:配置名称"  json:"name"  label:"[配置名称]" validate:"required,max=64" `
	Value string `gorm:"type:varchar(2048);default:'';comment:配置值"  json:"value"  label:"[配置值]" validate:"max=2048"  `
}

func (r *Property) TableName() string {
	return "properties"
}

type TestMail struct {
	MailHost     string `json:"mail-host"`     // 邮件服务器地址
	MailPort     string `json:"mail-port"`     // 邮件服务器端口
	MailUsername string `json:"mail-username"` // 邮件服务账号
	MailPassword string `json:"mail-password"` // 邮件服务密码
	MailReceiver string `json:"mail-receiver"` // 收件邮箱
}
