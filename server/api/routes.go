package api

import (
	"net/http"
	"os"

	"loginsight/pkg/global"
	"loginsight/pkg/log"
	"loginsight/pkg/validator"
	"loginsight/server/repository"
	"loginsight/server/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// SetupRoutes api包下的业务模块通过repository包的Dao变量执行DB操作,
// 非api包则调用全局DB接口:global.DBConn
func SetupRoutes(db *gorm.DB) *echo.Echo {

	repository.SetupRepository(db)
	service.SetupService()

	if err := InitDBData(); nil != err {
		log.WithError(err).Errorf("初始化数据异常,异常信息: %v", err.Error())
		os.Exit(0)
	}

	e := echo.New()
	e.Validator = new(validator.CustomValidator)
	e.HideBanner = true

	e.Use(log.Hook())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		Skipper:      middleware.DefaultSkipper,
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
	}))
	e.Use(ErrorHandler)
	e.Use(Auth)

	e.GET("/healthz", HealthzEndpoint)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.POST("/login", LoginEndpoint)
	e.POST("/logout", LogoutEndpoint)
	e.GET("/info", InfoEndpoint)

	logonEvents := e.Group("/logon-events")
	{
		// 采集端批量上报
		logonEvents.POST("", LogonEventCreateEndpoint)
		// 事件列表分页查询
		logonEvents.GET("/paging", LogonEventPagingEndpoint)
		// 导入事件查看器导出的CSV
		logonEvents.POST("/import", LogonEventImportEndpoint)
	}

	loginReport := e.Group("/login-report")
	{
		// 按用户查询登录报表
		loginReport.GET("", LoginReportEndpoint)
		// 导出登录报表
		loginReport.GET("/export", LoginReportExportEndpoint)
	}

	// 系统概览
	e.GET("/overview", OverviewEndpoint)

	properties := e.Group("/properties")
	{
		properties.GET("", PropertyGetEndpoint)
		properties.PUT("", PropertyUpdateEndpoint)
		// 发送测试邮件
		properties.POST("/mail-test", MailTestEndpoint)
	}

	// 实时事件推送
	e.GET("/ws/logon-events", LogonEventWsEndpoint)

	return e
}

func HealthzEndpoint(c echo.Context) error {
	return c.JSON(200, H{
		"status":  "ok",
		"version": global.Version,
	})
}
