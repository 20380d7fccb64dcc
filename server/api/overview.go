package api

import (
	"loginsight/pkg/global"
	"loginsight/pkg/log"
	"loginsight/server/dto"
	"loginsight/server/model"
	"loginsight/server/repository"
	"loginsight/server/utils"

	"github.com/labstack/echo/v4"
)

// OverviewEndpoint 系统概览: 事件总量、近7日走势、活跃用户与主机资源占用
func OverviewEndpoint(c echo.Context) error {
	var stat dto.OverviewStat
	var err error

	if stat.EventTotal, err = repository.LogonEventDao.CountAll(); err != nil {
		log.Errorf("DB Error: %v", err)
		return Fail(c, 500, "查询失败")
	}
	if stat.SuccessTotal, err = repository.LogonEventDao.CountByEventID(model.EventIDLogonSuccess); err != nil {
		log.Errorf("DB Error: %v", err)
		return Fail(c, 500, "查询失败")
	}
	if stat.FailureTotal, err = repository.LogonEventDao.CountByEventID(model.EventIDLogonFailure); err != nil {
		log.Errorf("DB Error: %v", err)
		return Fail(c, 500, "查询失败")
	}
	if oldest, err := repository.LogonEventDao.OldestLogonTime(); err == nil && !oldest.IsZero() {
		stat.OldestEvent = oldest.Format("2006-01-02 15:04:05")
	} else {
		stat.OldestEvent = "-"
	}

	if stat.RecentDays, err = repository.LogonEventDao.CountPerDay(c.Request().Context(), 7); err != nil {
		log.Errorf("DB Error: %v", err)
		return Fail(c, 500, "查询失败")
	}
	if stat.TopUsernames, err = repository.LogonEventDao.TopUsernames(c.Request().Context(), 7, 5); err != nil {
		log.Errorf("DB Error: %v", err)
		return Fail(c, 500, "查询失败")
	}

	stat.CpuPercent = utils.GetCpuPercent()
	stat.MemPercent = utils.GetMemPercent()
	stat.DiskPercent = utils.GetDiskPercent("/")
	stat.Version = global.Version

	return Success(c, stat)
}
