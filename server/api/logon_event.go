package api

import (
	"strconv"

	"loginsight/pkg/log"
	"loginsight/server/dto"
	"loginsight/server/repository"
	"loginsight/server/service"

	"github.com/labstack/echo/v4"
)

// LogonEventCreateEndpoint 接收采集端上报的登录事件
func LogonEventCreateEndpoint(c echo.Context) error {
	var batch dto.LogonEventBatch
	if err := c.Bind(&batch); err != nil {
		log.Errorf("Bind Error: %v", err)
		return err
	}
	if err := c.Validate(batch); err != nil {
		return Fail(c, 400, err.Error())
	}

	count, err := service.ImportSrv.IngestEvents(c.Request().Context(), batch.Events)
	if err != nil {
		log.Errorf("事件入库失败,异常信息:%v", err)
		return Fail(c, 500, "事件入库失败")
	}
	logonEventHub.BroadcastEntries(batch.Events)

	return Success(c, H{"ingested": count})
}

// LogonEventPagingEndpoint 登录事件分页查询
func LogonEventPagingEndpoint(c echo.Context) error {
	pageIndex, err := strconv.Atoi(c.QueryParam("pageIndex"))
	if err != nil {
		pageIndex = 1
	}
	pageSize, err := strconv.Atoi(c.QueryParam("pageSize"))
	if err != nil {
		pageSize = 10
	}
	auto := c.QueryParam("auto")
	username := c.QueryParam("username")
	sourceIp := c.QueryParam("sourceIp")
	eventId := c.QueryParam("eventId")
	from := c.QueryParam("from")
	to := c.QueryParam("to")

	items, total, err := repository.LogonEventDao.Find(c.Request().Context(), auto, username, sourceIp, eventId, from, to, pageIndex, pageSize)
	if nil != err {
		log.Errorf("DB Error: %v", err)
		return Fail(c, 500, "查询失败")
	}

	return Success(c, H{
		"total": total,
		"items": items,
	})
}

// LogonEventImportEndpoint 导入事件查看器导出的CSV文件
func LogonEventImportEndpoint(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return Fail(c, 400, "请选择要导入的文件")
	}
	src, err := file.Open()
	if err != nil {
		log.Errorf("打开导入文件失败,异常信息:%v", err)
		return Fail(c, 500, "导入失败")
	}
	defer src.Close()

	result, err := service.ImportSrv.ImportCSV(c.Request().Context(), src)
	if err != nil {
		log.Errorf("导入文件%v失败,异常信息:%v", file.Filename, err)
		return Fail(c, 500, err.Error())
	}
	log.Infof("导入文件%v完成, 入库%d条, 跳过%d条", file.Filename, result.Imported, result.Skipped)

	return Success(c, result)
}
