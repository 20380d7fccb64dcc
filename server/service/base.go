package service

import (
	"loginsight/pkg/log"
)

type baseService struct {
}

// SetupService 服务对象初始化
func SetupService() {
	ReportSrv = new(reportSrv)
	ImportSrv = new(importSrv)
	MailSrv = new(mailSrv)
	SchedulerSrv = NewSchedulerSrv()

	if err := setupInit(); err != nil {
		log.Errorf("服务对象初始化出现异常,异常信息:%v", err)
	}
}

// setupInit 服务对象的一些初始化操作, 不放入init中以保证程序的可读性
func setupInit() error {
	SchedulerSrv.SetupRun()
	return nil
}
