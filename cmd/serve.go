package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"loginsight/pkg/config"
	"loginsight/pkg/global"
	"loginsight/pkg/log"
	"loginsight/server/api"
	"loginsight/server/env"
	"loginsight/server/service"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the aggregation server",
	Long: `Run the aggregation server.
Exposes the HTTP API, the live event stream and the Prometheus metrics,
and runs the retention and scheduled report jobs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db := env.SetupDB()
		e := api.SetupRoutes(db)

		closeWatcher, err := config.Watch(cfgFile)
		if err != nil {
			log.Warnf("配置热加载未启用,异常信息:%v", err)
		}

		go func() {
			if err := e.Start(config.GlobalCfg.Server.Addr); err != nil {
				log.Infof("服务已停止: %v", err)
			}
		}()
		log.Infof("loginsight %v 已启动, 监听地址: %v", global.Version, config.GlobalCfg.Server.Addr)

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		service.SchedulerSrv.Stop()
		if closeWatcher != nil {
			_ = closeWatcher()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(ctx)
	},
}
