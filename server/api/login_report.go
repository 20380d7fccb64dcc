package api

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"
	"time"

	"loginsight/pkg/constant"
	"loginsight/pkg/errs"
	"loginsight/pkg/global"
	"loginsight/pkg/log"
	"loginsight/pkg/metrics"
	"loginsight/server/dto"
	"loginsight/server/service"
	"loginsight/server/utils"

	"baliance.com/gooxml/document"
	"github.com/labstack/echo/v4"
	"github.com/signintech/gopdf"
)

func reportCacheKey(username string, days int) string {
	return constant.ReportCachePrefix + strings.ToLower(username) + "|" + strconv.Itoa(days)
}

func lookbackDaysParam(c echo.Context) int {
	days, err := strconv.Atoi(c.QueryParam("days"))
	if err != nil {
		return constant.DefaultLookbackDays
	}
	return days
}

// LoginReportEndpoint 查询指定用户的登录报表
func LoginReportEndpoint(c echo.Context) error {
	username := strings.TrimSpace(c.QueryParam("username"))
	days := lookbackDaysParam(c)

	cacheKey := reportCacheKey(username, days)
	if cached, found := global.Cache.Get(cacheKey); found {
		return Success(c, cached.(*dto.LoginReport))
	}

	report, _, err := service.ReportSrv.BuildReport(c.Request().Context(), username, days, constant.GridDetailRows)
	if err != nil {
		return Fail(c, 400, err.Error())
	}
	global.Cache.Set(cacheKey, report, constant.ReportCacheTTL)

	return Success(c, report)
}

// LoginReportExportEndpoint 导出指定用户的登录报表, 支持csv/xlsx/pdf/word/html
func LoginReportExportEndpoint(c echo.Context) error {
	username := strings.TrimSpace(c.QueryParam("username"))
	days := lookbackDaysParam(c)
	exportType := c.QueryParam("type")

	report, records, err := service.ReportSrv.BuildReport(c.Request().Context(), username, days, constant.GridDetailRows)
	if err != nil {
		return Fail(c, 400, err.Error())
	}

	data1 := service.SummaryRows(report.Summaries)
	data2 := service.DetailRows(records)

	var fileReader *bytes.Reader
	var fileName = "登录报表-" + report.Username + "-" + time.Now().Format("20060102150405")
	switch exportType {
	case "csv":
		file, err := utils.ExportCsv(service.SummaryHeader, service.DetailHeader, data1, data2)
		if err != nil {
			return Fail(c, 500, "导出失败")
		}
		fileReader = file
		fileName = fileName + ".csv"
	case "xlsx":
		file, err := utils.CreateExcelFile("登录报表", service.DetailHeader, data2)
		if err != nil {
			return Fail(c, 500, "导出失败")
		}
		var buff bytes.Buffer
		if err = file.Write(&buff); err != nil {
			log.Errorf("Write Error: %v", err)
			return Fail(c, 500, "导出失败")
		}
		fileReader = bytes.NewReader(buff.Bytes())
		fileName = fileName + ".xlsx"
	case "pdf":
		size1 := []int{150, 60, 60, 60, 120}
		size2 := []int{120, 80, 90, 50, 50, 80, 90, 70}
		pdf := gopdf.GoPdf{}
		pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
		pdf.AddPage()
		err, xs, ys := utils.PdfExport(&pdf, "统计数据", service.SummaryHeader, size1, data1, 0, 0)
		if err != nil {
			log.Errorf("导出pdf失败: %v", err)
		}
		err, _, _ = utils.PdfExport(&pdf, "详细数据", service.DetailHeader, size2, data2, xs, ys)
		if err != nil {
			log.Errorf("导出pdf失败: %v", err)
		}
		buff, err := utils.PdfToReader(&pdf)
		if err != nil {
			return Fail(c, 500, "导出失败")
		}
		fileReader = buff
		fileName = fileName + ".pdf"
	case "word":
		d := document.New()
		if err := utils.CreateWord(d, "统计数据", service.SummaryHeader, data1); err != nil {
			return Fail(c, 500, "导出失败")
		}
		if err := utils.CreateWord(d, "详细数据", service.DetailHeader, data2); err != nil {
			return Fail(c, 500, "导出失败")
		}
		file, err := utils.DocumentToReader(d)
		if err != nil {
			return Fail(c, 500, "导出失败")
		}
		fileReader = file
		fileName = fileName + ".docx"
	case "html":
		title := "用户" + report.Username + "最近" + strconv.Itoa(report.LookbackDays) + "天登录报表"
		file, err := utils.ExportHtml(title, service.SummaryHeader, service.DetailHeader, data1, data2)
		if err != nil {
			return Fail(c, 500, "导出失败")
		}
		fileReader = file
		fileName = fileName + ".html"
	default:
		return Fail(c, 400, errs.ExportTypeNotSupport)
	}
	metrics.ExportsTotal.WithLabelValues(exportType).Inc()

	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+fileName)
	return c.Stream(http.StatusOK, echo.MIMEOctetStream, fileReader)
}
